package repositories

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
)

// ActivityLogRepository reads the per-day activity log consumed by the
// streak walk.
type ActivityLogRepository interface {
	// GetByLearnerDesc returns all log rows for the learner in descending
	// activity-date order.
	GetByLearnerDesc(ctx context.Context, learnerID uint) ([]*models.ActivityLog, error)
}

// NotificationRepository writes the notification store rows emitted as a
// side effect of certificate issuance.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
}
