package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
)

// PublicationService flips a test's ResultsPublished flag and propagates the
// change to every certificate in the test's course.
type PublicationService interface {
	// PublishTestResults marks the test's results as published, notifies
	// enrolled learners, and recomputes certificate visibility for the
	// course. Publishing an already-published test is a no-op.
	PublishTestResults(ctx context.Context, testID uint) (*models.Test, error)
}

type publicationService struct {
	repo          repositories.Repository
	certificates  CertificateService
	grades        GradeService
	notifications NotificationEventService
	logger        *slog.Logger
}

func NewPublicationService(repo repositories.Repository, certificates CertificateService, grades GradeService, notifications NotificationEventService, logger *slog.Logger) PublicationService {
	return &publicationService{
		repo:          repo,
		certificates:  certificates,
		grades:        grades,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *publicationService) PublishTestResults(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.repo.Gradable().GetTestByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if test.ResultsPublished {
		return test, nil
	}

	module, err := s.repo.Course().GetModule(ctx, test.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	courseID := module.CourseID

	if err := s.repo.Gradable().PublishTestResults(ctx, testID); err != nil {
		return nil, fmt.Errorf("failed to publish test results: %w", err)
	}
	test.ResultsPublished = true

	s.logger.Info("Test results published",
		"test_id", testID,
		"course_id", courseID,
		"title", test.Title)

	// Published scores change cached breakdowns course-wide.
	if err := s.grades.InvalidateCourse(ctx, courseID); err != nil {
		s.logger.Warn("Failed to invalidate grade cache", "course_id", courseID, "error", err)
	}

	if err := s.notifications.NotifyTestResultsPublished(ctx, test, courseID); err != nil {
		s.logger.Error("Failed to send results published notification",
			"test_id", testID, "error", err)
	}

	// Visibility may have just unlocked for every certificate in the course.
	certs, err := s.repo.Certificate().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	for _, cert := range certs {
		if _, err := s.certificates.IssueOrUpdate(ctx, courseID, cert.LearnerID); err != nil {
			s.logger.Error("Failed to recompute certificate after publication",
				"certificate_number", cert.CertificateNumber,
				"learner_id", cert.LearnerID,
				"error", err)
		}
	}

	return test, nil
}
