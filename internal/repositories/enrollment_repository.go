package repositories

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
)

// EnrollmentRepository covers enrollments and the per-module completion
// records that drive progress recomputation.
type EnrollmentRepository interface {
	GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	ListByCourse(ctx context.Context, courseID uint, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)

	// Module completion queries
	CountCompletedModules(ctx context.Context, learnerID uint, moduleIDs []uint) (int64, error)
	GetModuleCompletions(ctx context.Context, learnerID uint, moduleIDs []uint) ([]*models.ModuleCompletion, error)
}
