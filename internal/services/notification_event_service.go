package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/skilltrack/certification-service/internal/events"
	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
)

// NotificationEventService fans each domain occurrence out to two sinks: a
// published event for downstream consumers and a persisted notification row
// for the learner-facing inbox.
type NotificationEventService interface {
	NotifyCourseCompleted(ctx context.Context, cert *models.Certificate, courseTitle string) error
	NotifyCertificateIssued(ctx context.Context, cert *models.Certificate, courseTitle string) error
	NotifyTestResultsPublished(ctx context.Context, test *models.Test, courseID uint) error
}

type notificationEventService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationEventService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationEventService) NotifyCourseCompleted(ctx context.Context, cert *models.Certificate, courseTitle string) error {
	event := events.NewCourseCompletedEvent(cert.LearnerID, cert.CourseID, courseTitle, cert.CompletedAt, cert.FinalGrade)
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish course completed event: %w", err)
	}

	relatedID := cert.CourseID
	relatedType := "course"
	s.persist(ctx, &models.Notification{
		UserID:      cert.LearnerID,
		Type:        models.NotificationCourseCompleted,
		Title:       "Course completed",
		Message:     fmt.Sprintf("Congratulations! You have completed %s.", courseTitle),
		RelatedID:   &relatedID,
		RelatedType: &relatedType,
		Channels:    datatypes.JSON(`["in_app", "email"]`),
		Priority:    int(models.PriorityHigh),
	})

	return nil
}

func (s *notificationEventService) NotifyCertificateIssued(ctx context.Context, cert *models.Certificate, courseTitle string) error {
	event := events.NewCertificateIssuedEvent(
		cert.LearnerID, cert.CourseID, cert.ID,
		courseTitle, cert.CertificateNumber, cert.LetterGrade, string(cert.Status),
		cert.FinalGrade, cert.IssuedAt,
	)
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish certificate issued event: %w", err)
	}

	relatedID := cert.ID
	relatedType := "certificate"
	s.persist(ctx, &models.Notification{
		UserID:      cert.LearnerID,
		Type:        models.NotificationCertificateIssued,
		Title:       "Certificate issued",
		Message:     fmt.Sprintf("Your certificate %s for %s is ready.", cert.CertificateNumber, courseTitle),
		RelatedID:   &relatedID,
		RelatedType: &relatedType,
		Channels:    datatypes.JSON(`["in_app", "email"]`),
		Priority:    int(models.PriorityNormal),
	})

	return nil
}

func (s *notificationEventService) NotifyTestResultsPublished(ctx context.Context, test *models.Test, courseID uint) error {
	event := events.NewTestResultsPublishedEvent(test.ID, courseID, test.Title, time.Now())
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish test results published event: %w", err)
	}
	return nil
}

// persist writes the inbox row; a failure here never fails the caller.
func (s *notificationEventService) persist(ctx context.Context, notification *models.Notification) {
	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		s.logger.Error("Failed to persist notification",
			"user_id", notification.UserID,
			"type", notification.Type,
			"error", err)
	}
}
