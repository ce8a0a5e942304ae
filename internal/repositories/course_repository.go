package repositories

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
)

// CourseRepository reads the course catalog. The certification core never
// writes courses or modules; they belong to the catalog service.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Course, error)

	// Module queries
	GetModule(ctx context.Context, moduleID uint) (*models.CourseModule, error)
	GetModules(ctx context.Context, courseID uint) ([]*models.CourseModule, error)
	GetModuleIDs(ctx context.Context, courseID uint) ([]uint, error)
	GetMandatoryModuleIDs(ctx context.Context, courseID uint) ([]uint, error)
}
