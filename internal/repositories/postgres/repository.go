package postgres

import (
	"context"

	"github.com/skilltrack/certification-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB

	course       repositories.CourseRepository
	enrollment   repositories.EnrollmentRepository
	gradable     repositories.GradableRepository
	certificate  repositories.CertificateRepository
	activityLog  repositories.ActivityLogRepository
	notification repositories.NotificationRepository
}

// NewRepository builds the aggregate PostgreSQL-backed repository.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:           db,
		course:       NewCoursePostgreSQL(db),
		enrollment:   NewEnrollmentPostgreSQL(db),
		gradable:     NewGradablePostgreSQL(db),
		certificate:  NewCertificatePostgreSQL(db),
		activityLog:  NewActivityLogPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
	}
}

func (r *repository) Course() repositories.CourseRepository            { return r.course }
func (r *repository) Enrollment() repositories.EnrollmentRepository    { return r.enrollment }
func (r *repository) Gradable() repositories.GradableRepository        { return r.gradable }
func (r *repository) Certificate() repositories.CertificateRepository  { return r.certificate }
func (r *repository) ActivityLog() repositories.ActivityLogRepository  { return r.activityLog }
func (r *repository) Notification() repositories.NotificationRepository { return r.notification }

func (r *repository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
