package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
)

// ProgressService recomputes enrollment progress from module completions and
// fires the completion pathway exactly once per enrollment.
type ProgressService interface {
	// RecomputeProgress recalculates the learner's progress percentage for
	// the course, persists it, and triggers certificate issuance on the
	// transition from below 100 to 100 or above.
	RecomputeProgress(ctx context.Context, courseID, learnerID uint) (*ProgressResult, error)

	// GetProgress returns the stored enrollment progress with the per-module
	// completion states.
	GetProgress(ctx context.Context, courseID, learnerID uint) (*ProgressResult, error)
}

type ProgressResult struct {
	CourseID         uint                       `json:"course_id"`
	LearnerID        uint                       `json:"learner_id"`
	Progress         float64                    `json:"progress"`
	Status           models.EnrollmentStatus    `json:"status"`
	CompletedModules int                        `json:"completed_modules"`
	TotalModules     int                        `json:"total_modules"`
	CompletedAt      *time.Time                 `json:"completed_at,omitempty"`
	Modules          []*models.ModuleCompletion `json:"modules,omitempty"`
}

type progressService struct {
	repo         repositories.Repository
	certificates CertificateService
	grades       GradeService
	logger       *slog.Logger

	now func() time.Time
}

func NewProgressService(repo repositories.Repository, certificates CertificateService, grades GradeService, logger *slog.Logger) ProgressService {
	return &progressService{
		repo:         repo,
		certificates: certificates,
		grades:       grades,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *progressService) RecomputeProgress(ctx context.Context, courseID, learnerID uint) (*ProgressResult, error) {
	enrollment, err := s.repo.Enrollment().GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	// Progress counts mandatory modules only; a course with no mandatory
	// modules counts every module instead.
	moduleIDs, err := s.repo.Course().GetMandatoryModuleIDs(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mandatory modules: %w", err)
	}
	if len(moduleIDs) == 0 {
		moduleIDs, err = s.repo.Course().GetModuleIDs(ctx, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to get modules: %w", err)
		}
	}

	var completed int64
	if len(moduleIDs) > 0 {
		completed, err = s.repo.Enrollment().CountCompletedModules(ctx, learnerID, moduleIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to count completed modules: %w", err)
		}
	}

	progress := 0.0
	if len(moduleIDs) > 0 {
		progress = math.Round(float64(completed)/float64(len(moduleIDs))*100*100) / 100
	}

	previous := enrollment.Progress
	justCompleted := previous < 100 && progress >= 100

	now := s.now()
	enrollment.Progress = progress
	enrollment.LastAccessedAt = &now
	if justCompleted {
		enrollment.Progress = 100.00
		enrollment.Status = models.EnrollmentCompleted
		enrollment.CompletedAt = &now
	}

	if err := s.repo.Enrollment().Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	if err := s.grades.InvalidateLearner(ctx, courseID, learnerID); err != nil {
		s.logger.Warn("Failed to invalidate grade cache",
			"course_id", courseID, "learner_id", learnerID, "error", err)
	}

	if justCompleted {
		s.logger.Info("Course completed",
			"course_id", courseID,
			"learner_id", learnerID,
			"completed_modules", int(completed),
			"total_modules", len(moduleIDs))

		if _, err := s.certificates.IssueOnCompletion(ctx, courseID, learnerID); err != nil {
			// Progress is already saved; the caller sees the issuance
			// failure and retries explicitly.
			return nil, fmt.Errorf("failed to issue certificate: %w", err)
		}
	}

	return &ProgressResult{
		CourseID:         courseID,
		LearnerID:        learnerID,
		Progress:         enrollment.Progress,
		Status:           enrollment.Status,
		CompletedModules: int(completed),
		TotalModules:     len(moduleIDs),
		CompletedAt:      enrollment.CompletedAt,
	}, nil
}

func (s *progressService) GetProgress(ctx context.Context, courseID, learnerID uint) (*ProgressResult, error) {
	enrollment, err := s.repo.Enrollment().GetByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	moduleIDs, err := s.repo.Course().GetModuleIDs(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get modules: %w", err)
	}

	completions, err := s.repo.Enrollment().GetModuleCompletions(ctx, learnerID, moduleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get module completions: %w", err)
	}

	completed := 0
	for _, c := range completions {
		if c.Status == models.CompletionCompleted {
			completed++
		}
	}

	return &ProgressResult{
		CourseID:         courseID,
		LearnerID:        learnerID,
		Progress:         enrollment.Progress,
		Status:           enrollment.Status,
		CompletedModules: completed,
		TotalModules:     len(moduleIDs),
		CompletedAt:      enrollment.CompletedAt,
		Modules:          completions,
	}, nil
}
