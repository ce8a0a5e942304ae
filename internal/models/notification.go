package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string
type NotificationPriority int

const (
	// Notification types
	NotificationCourseCompleted    NotificationType = "course_completed"
	NotificationCertificateIssued  NotificationType = "certificate_issued"
	NotificationResultsPublished   NotificationType = "results_published"
	NotificationProgressMilestone  NotificationType = "progress_milestone"

	// Priority levels
	PriorityLow      NotificationPriority = 1
	PriorityNormal   NotificationPriority = 2
	PriorityHigh     NotificationPriority = 3
	PriorityCritical NotificationPriority = 4
)

// Notification is the persisted record behind a learner-facing notification.
// Rows are written fire-and-forget alongside the published event; delivery is
// a downstream concern.
type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  uint             `json:"user_id" gorm:"not null;index"`
	Type    NotificationType `json:"type" gorm:"not null;index"`
	Title   string           `json:"title" gorm:"not null;size:255"`
	Message string           `json:"message" gorm:"type:text"`

	// Related entity, e.g. (certificate, 42) or (course, 7)
	RelatedID   *uint   `json:"related_id" gorm:"index"`
	RelatedType *string `json:"related_type" gorm:"size:50"`

	Channels datatypes.JSON `json:"channels" gorm:"type:jsonb"` // ["email", "in_app"]
	Priority int            `json:"priority" gorm:"default:2"`

	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
