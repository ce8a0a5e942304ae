package postgres

import (
	"context"
	"errors"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
	"gorm.io/gorm"
)

type GradablePostgreSQL struct {
	db *gorm.DB
}

func NewGradablePostgreSQL(db *gorm.DB) repositories.GradableRepository {
	return &GradablePostgreSQL{db: db}
}

func (g GradablePostgreSQL) GetQuizzesByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := g.db.WithContext(ctx).
		Joins("JOIN course_modules ON course_modules.id = quizzes.module_id").
		Where("course_modules.course_id = ?", courseID).
		Order("quizzes.id ASC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (g GradablePostgreSQL) GetAssignmentsByCourse(ctx context.Context, courseID uint) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := g.db.WithContext(ctx).
		Joins("JOIN course_modules ON course_modules.id = assignments.module_id").
		Where("course_modules.course_id = ?", courseID).
		Order("assignments.id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (g GradablePostgreSQL) GetTestsByCourse(ctx context.Context, courseID uint) ([]*models.Test, error) {
	var tests []*models.Test
	if err := g.db.WithContext(ctx).
		Joins("JOIN course_modules ON course_modules.id = tests.module_id").
		Where("course_modules.course_id = ?", courseID).
		Order("tests.id ASC").
		Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

// GetBestQuizAttempt orders completed attempts score desc then completion
// recency so the tie-break stays deterministic.
func (g GradablePostgreSQL) GetBestQuizAttempt(ctx context.Context, learnerID, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := g.db.WithContext(ctx).
		Where("learner_id = ? AND quiz_id = ? AND status = ?", learnerID, quizID, models.AttemptCompleted).
		Order("score DESC, completed_at DESC").
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (g GradablePostgreSQL) GetAssignmentSubmission(ctx context.Context, learnerID, assignmentID uint) (*models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	if err := g.db.WithContext(ctx).
		Where("learner_id = ? AND assignment_id = ? AND status IN ?", learnerID, assignmentID,
			[]models.SubmissionStatus{models.SubmissionSubmitted, models.SubmissionGraded}).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

func (g GradablePostgreSQL) GetBestTestSubmission(ctx context.Context, learnerID, testID uint) (*models.TestSubmission, error) {
	var submission models.TestSubmission
	if err := g.db.WithContext(ctx).
		Where("learner_id = ? AND test_id = ? AND status IN ? AND total_score IS NOT NULL", learnerID, testID,
			[]models.SubmissionStatus{models.SubmissionSubmitted, models.SubmissionLate}).
		Order("total_score DESC").
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

func (g GradablePostgreSQL) CountUnpublishedTests(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := g.db.WithContext(ctx).
		Model(&models.Test{}).
		Joins("JOIN course_modules ON course_modules.id = tests.module_id").
		Where("course_modules.course_id = ? AND tests.results_published = false", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (g GradablePostgreSQL) GetTestByID(ctx context.Context, testID uint) (*models.Test, error) {
	var test models.Test
	if err := g.db.WithContext(ctx).First(&test, testID).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (g GradablePostgreSQL) PublishTestResults(ctx context.Context, testID uint) error {
	return g.db.WithContext(ctx).
		Model(&models.Test{}).
		Where("id = ?", testID).
		Update("results_published", true).Error
}
