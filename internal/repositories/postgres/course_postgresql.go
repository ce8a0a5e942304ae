package postgres

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c CoursePostgreSQL) GetModule(ctx context.Context, moduleID uint) (*models.CourseModule, error) {
	var module models.CourseModule
	if err := c.db.WithContext(ctx).First(&module, moduleID).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (c CoursePostgreSQL) GetModules(ctx context.Context, courseID uint) ([]*models.CourseModule, error) {
	var modules []*models.CourseModule
	if err := c.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, id ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (c CoursePostgreSQL) GetModuleIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	if err := c.db.WithContext(ctx).
		Model(&models.CourseModule{}).
		Where("course_id = ?", courseID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (c CoursePostgreSQL) GetMandatoryModuleIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	if err := c.db.WithContext(ctx).
		Model(&models.CourseModule{}).
		Where("course_id = ? AND is_mandatory = true", courseID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
