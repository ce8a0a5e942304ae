package repositories

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
)

// CertificateRepository persists the upserted per-(learner, course)
// certificate records.
type CertificateRepository interface {
	Create(ctx context.Context, cert *models.Certificate) error
	Update(ctx context.Context, cert *models.Certificate) error
	GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*models.Certificate, error)
	GetByNumber(ctx context.Context, number string) (*models.Certificate, error)

	// HighestNumberForYear returns the lexicographically highest certificate
	// number issued in the given calendar year ("" when none). The 5-digit
	// suffix seeds the next sequence value.
	HighestNumberForYear(ctx context.Context, year int) (string, error)

	ListByCourse(ctx context.Context, courseID uint) ([]*models.Certificate, error)
	ListPendingVisibility(ctx context.Context) ([]*models.Certificate, error)
}
