package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/render"
	"github.com/skilltrack/certification-service/internal/repositories"
)

// CertificateService owns the per-(learner, course) certificate record:
// issuance on course completion, recomputation when publication state
// changes, and gated retrieval.
type CertificateService interface {
	// IssueOrUpdate recomputes the certificate for the learner and course.
	// The certificate number and issue timestamp never change after first
	// issuance. Returns nil, nil when no enrollment exists; callers treat
	// that as "not eligible yet", not an error.
	IssueOrUpdate(ctx context.Context, courseID, learnerID uint) (*models.Certificate, error)

	// IssueOnCompletion is IssueOrUpdate plus the completion-pathway side
	// effects: course_completed and certificate_issued notifications.
	IssueOnCompletion(ctx context.Context, courseID, learnerID uint) (*models.Certificate, error)

	// GetForLearner returns the certificate with its recomputed breakdown.
	// ErrCertificateNotViewable is returned while any test in the course has
	// unpublished results, distinct from ErrCertificateNotGenerated.
	GetForLearner(ctx context.Context, courseID, learnerID uint) (*CertificateResponse, error)

	// RenderPDF renders a viewable certificate as a PDF document.
	RenderPDF(ctx context.Context, courseID, learnerID uint) ([]byte, error)

	// VerifyByNumber authenticates a certificate by its public number, for
	// third parties checking a credential. Hidden certificates verify the
	// same as missing ones so the number does not leak unpublished results.
	VerifyByNumber(ctx context.Context, number string) (*CertificateVerification, error)

	// ReconcileVisibility re-runs issuance for every certificate still
	// hidden behind unpublished test results.
	ReconcileVisibility(ctx context.Context) error
}

type CertificateResponse struct {
	Certificate *models.Certificate `json:"certificate"`
	Breakdown   *GradeBreakdown     `json:"breakdown"`
}

// CertificateVerification is the public view of a certificate, safe to show
// to anyone holding the number.
type CertificateVerification struct {
	CertificateNumber string                   `json:"certificate_number"`
	CourseID          uint                     `json:"course_id"`
	CourseTitle       string                   `json:"course_title"`
	FinalGrade        float64                  `json:"final_grade"`
	LetterGrade       string                   `json:"letter_grade"`
	Status            models.CertificateStatus `json:"status"`
	CompletedAt       time.Time                `json:"completed_at"`
	IssuedAt          time.Time                `json:"issued_at"`
}

type certificateService struct {
	repo          repositories.Repository
	grades        GradeService
	notifications NotificationEventService
	logger        *slog.Logger

	// Serializes issuance per (learner, course) so two concurrent triggers
	// cannot both generate a certificate number.
	locks keyedMutex

	now func() time.Time
}

func NewCertificateService(repo repositories.Repository, grades GradeService, notifications NotificationEventService, logger *slog.Logger) CertificateService {
	return &certificateService{
		repo:          repo,
		grades:        grades,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *certificateService) IssueOrUpdate(ctx context.Context, courseID, learnerID uint) (*models.Certificate, error) {
	enrollment, err := s.repo.Enrollment().GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Issuance is triggered speculatively from several pathways;
			// a missing enrollment is "not eligible yet", not a failure.
			s.logger.Debug("Skipping certificate issuance, no enrollment",
				"course_id", courseID,
				"learner_id", learnerID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	unlock := s.locks.Lock(certLockKey(learnerID, courseID))
	defer unlock()

	canView, err := s.grades.AllTestsPublished(ctx, courseID)
	if err != nil {
		return nil, err
	}

	weights := DefaultGradeWeights()
	breakdown, err := s.grades.ComputeBreakdown(ctx, courseID, learnerID, weights)
	if err != nil {
		return nil, err
	}

	completedAt := s.now()
	if enrollment.CompletedAt != nil {
		completedAt = *enrollment.CompletedAt
	}

	existing, err := s.repo.Certificate().GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	if existing != nil {
		existing.QuizWeight = weights.Quiz
		existing.AssignmentWeight = weights.Assignment
		existing.TestWeight = weights.Test
		existing.FinalGrade = breakdown.FinalGrade
		existing.LetterGrade = breakdown.LetterGrade
		existing.Status = breakdown.Status
		existing.CompletedAt = completedAt
		existing.CanView = canView

		if err := s.repo.Certificate().Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update certificate: %w", err)
		}

		s.logger.Info("Certificate updated",
			"certificate_number", existing.CertificateNumber,
			"course_id", courseID,
			"learner_id", learnerID,
			"final_grade", existing.FinalGrade,
			"can_view", existing.CanView)

		return existing, nil
	}

	number, err := s.nextCertificateNumber(ctx)
	if err != nil {
		return nil, err
	}

	cert := &models.Certificate{
		LearnerID:         learnerID,
		CourseID:          courseID,
		CertificateNumber: number,
		QuizWeight:        weights.Quiz,
		AssignmentWeight:  weights.Assignment,
		TestWeight:        weights.Test,
		FinalGrade:        breakdown.FinalGrade,
		LetterGrade:       breakdown.LetterGrade,
		Status:            breakdown.Status,
		CompletedAt:       completedAt,
		IssuedAt:          s.now(),
		CanView:           canView,
	}

	if err := s.repo.Certificate().Create(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	s.logger.Info("Certificate issued",
		"certificate_number", cert.CertificateNumber,
		"course_id", courseID,
		"learner_id", learnerID,
		"final_grade", cert.FinalGrade,
		"letter_grade", cert.LetterGrade,
		"status", cert.Status)

	return cert, nil
}

func (s *certificateService) IssueOnCompletion(ctx context.Context, courseID, learnerID uint) (*models.Certificate, error) {
	cert, err := s.IssueOrUpdate(ctx, courseID, learnerID)
	if err != nil || cert == nil {
		return cert, err
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	courseTitle := ""
	if err != nil {
		s.logger.Warn("Failed to load course for notifications", "course_id", courseID, "error", err)
	} else {
		courseTitle = course.Title
	}

	// Notifications are fire-and-forget; issuance already succeeded.
	if err := s.notifications.NotifyCourseCompleted(ctx, cert, courseTitle); err != nil {
		s.logger.Error("Failed to send course completed notification",
			"course_id", courseID, "learner_id", learnerID, "error", err)
	}
	if err := s.notifications.NotifyCertificateIssued(ctx, cert, courseTitle); err != nil {
		s.logger.Error("Failed to send certificate issued notification",
			"course_id", courseID, "learner_id", learnerID, "error", err)
	}

	return cert, nil
}

func (s *certificateService) GetForLearner(ctx context.Context, courseID, learnerID uint) (*CertificateResponse, error) {
	if _, err := s.repo.Enrollment().GetByLearnerAndCourse(ctx, learnerID, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	cert, err := s.repo.Certificate().GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCertificateNotGenerated
		}
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	if !cert.CanView {
		return nil, ErrCertificateNotViewable
	}

	breakdown, err := s.grades.ComputeBreakdown(ctx, courseID, learnerID, GradeWeights{
		Quiz:       cert.QuizWeight,
		Assignment: cert.AssignmentWeight,
		Test:       cert.TestWeight,
	})
	if err != nil {
		return nil, err
	}

	return &CertificateResponse{
		Certificate: cert,
		Breakdown:   breakdown,
	}, nil
}

func (s *certificateService) RenderPDF(ctx context.Context, courseID, learnerID uint) ([]byte, error) {
	resp, err := s.GetForLearner(ctx, courseID, learnerID)
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return render.CertificatePDF(resp.Certificate, course.Title)
}

func (s *certificateService) VerifyByNumber(ctx context.Context, number string) (*CertificateVerification, error) {
	cert, err := s.repo.Certificate().GetByNumber(ctx, number)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	if !cert.CanView {
		return nil, ErrCertificateNotFound
	}

	course, err := s.repo.Course().GetByID(ctx, cert.CourseID)
	courseTitle := ""
	if err != nil {
		s.logger.Warn("Failed to load course for verification",
			"course_id", cert.CourseID, "error", err)
	} else {
		courseTitle = course.Title
	}

	return &CertificateVerification{
		CertificateNumber: cert.CertificateNumber,
		CourseID:          cert.CourseID,
		CourseTitle:       courseTitle,
		FinalGrade:        cert.FinalGrade,
		LetterGrade:       cert.LetterGrade,
		Status:            cert.Status,
		CompletedAt:       cert.CompletedAt,
		IssuedAt:          cert.IssuedAt,
	}, nil
}

func (s *certificateService) ReconcileVisibility(ctx context.Context) error {
	pending, err := s.repo.Certificate().ListPendingVisibility(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending certificates: %w", err)
	}

	for _, cert := range pending {
		if _, err := s.IssueOrUpdate(ctx, cert.CourseID, cert.LearnerID); err != nil {
			s.logger.Error("Failed to reconcile certificate visibility",
				"certificate_number", cert.CertificateNumber,
				"course_id", cert.CourseID,
				"learner_id", cert.LearnerID,
				"error", err)
		}
	}

	return nil
}

// nextCertificateNumber produces CERT-{year}-{5-digit sequence}. The sequence
// restarts at 1 each calendar year and continues from the numeric suffix of
// the year's highest issued number.
func (s *certificateService) nextCertificateNumber(ctx context.Context) (string, error) {
	year := s.now().Year()

	highest, err := s.repo.Certificate().HighestNumberForYear(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to get highest certificate number: %w", err)
	}

	sequence := 1
	if len(highest) >= 5 {
		if n, err := strconv.Atoi(highest[len(highest)-5:]); err == nil {
			sequence = n + 1
		}
	}

	return fmt.Sprintf("CERT-%d-%05d", year, sequence), nil
}

func certLockKey(learnerID, courseID uint) string {
	return fmt.Sprintf("%d:%d", learnerID, courseID)
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
