package postgres

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
	"gorm.io/gorm"
)

type ActivityLogPostgreSQL struct {
	db *gorm.DB
}

func NewActivityLogPostgreSQL(db *gorm.DB) repositories.ActivityLogRepository {
	return &ActivityLogPostgreSQL{db: db}
}

func (a ActivityLogPostgreSQL) GetByLearnerDesc(ctx context.Context, learnerID uint) ([]*models.ActivityLog, error) {
	var logs []*models.ActivityLog
	if err := a.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("activity_date DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	return n.db.WithContext(ctx).Create(notification).Error
}
