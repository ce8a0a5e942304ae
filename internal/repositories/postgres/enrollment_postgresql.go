package postgres

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
	"gorm.io/gorm"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e EnrollmentPostgreSQL) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.db.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return e.db.WithContext(ctx).Save(enrollment).Error
}

func (e EnrollmentPostgreSQL) ListByCourse(ctx context.Context, courseID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var enrollments []*models.Enrollment
	var total int64

	query := e.db.WithContext(ctx).Model(&models.Enrollment{}).Where("course_id = ?", courseID)
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "asc"
	}
	query = query.Order(sortBy + " " + sortOrder)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}
	return enrollments, total, nil
}

func (e EnrollmentPostgreSQL) CountCompletedModules(ctx context.Context, learnerID uint, moduleIDs []uint) (int64, error) {
	if len(moduleIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := e.db.WithContext(ctx).
		Model(&models.ModuleCompletion{}).
		Where("learner_id = ? AND module_id IN ? AND status = ?", learnerID, moduleIDs, models.CompletionCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (e EnrollmentPostgreSQL) GetModuleCompletions(ctx context.Context, learnerID uint, moduleIDs []uint) ([]*models.ModuleCompletion, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}

	var completions []*models.ModuleCompletion
	if err := e.db.WithContext(ctx).
		Where("learner_id = ? AND module_id IN ?", learnerID, moduleIDs).
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}
