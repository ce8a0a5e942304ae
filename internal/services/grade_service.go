package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/skilltrack/certification-service/internal/cache"
	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
)

// GradeService aggregates quiz, assignment, and test scores into a weighted
// course grade and evaluates the test-publication visibility gate.
type GradeService interface {
	// ComputeBreakdown computes the full per-type and overall breakdown for
	// a learner in a course. Weights are applied exactly as supplied; they
	// are not normalized or required to sum to 1.
	ComputeBreakdown(ctx context.Context, courseID, learnerID uint, weights GradeWeights) (*GradeBreakdown, error)

	// AllTestsPublished reports whether every test in the course has
	// published results. A course with zero tests is vacuously published.
	AllTestsPublished(ctx context.Context, courseID uint) (bool, error)

	// InvalidateCourse drops all cached breakdowns for the course.
	InvalidateCourse(ctx context.Context, courseID uint) error
	// InvalidateLearner drops the cached breakdown for one learner.
	InvalidateLearner(ctx context.Context, courseID, learnerID uint) error
}

// GradeWeights are the fractional weights applied to the three activity
// types.
type GradeWeights struct {
	Quiz       float64 `json:"quiz" validate:"grade_weight"`
	Assignment float64 `json:"assignment" validate:"grade_weight"`
	Test       float64 `json:"test" validate:"grade_weight"`
}

// DefaultGradeWeights returns the canonical 0.15 / 0.25 / 0.60 weight set.
func DefaultGradeWeights() GradeWeights {
	return GradeWeights{
		Quiz:       models.DefaultQuizWeight,
		Assignment: models.DefaultAssignmentWeight,
		Test:       models.DefaultTestWeight,
	}
}

// ActivityScore is the per-activity-type slice of a breakdown. Count is the
// number of activities of the type in the course; MaxScore can be 0 with a
// nonzero Count when every activity has zero or missing max points, in which
// case Percentage reads 0.
type ActivityScore struct {
	TotalScore    float64 `json:"total_score"`
	MaxScore      float64 `json:"max_score"`
	Percentage    float64 `json:"percentage"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
	Count         int     `json:"count"`
}

// GradeBreakdown is the full aggregation result.
type GradeBreakdown struct {
	CourseID  uint `json:"course_id"`
	LearnerID uint `json:"learner_id"`

	Quiz       ActivityScore `json:"quiz"`
	Assignment ActivityScore `json:"assignment"`
	Test       ActivityScore `json:"test"`

	FinalGrade  float64                  `json:"final_grade"`
	LetterGrade string                   `json:"letter_grade"`
	Status      models.CertificateStatus `json:"status"`
}

// Passing threshold on the final percentage, independent of any per-activity
// passing marks.
const passingGrade = 60.0

const breakdownCacheTTL = 5 * time.Minute

type gradeService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewGradeService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) GradeService {
	return &gradeService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *gradeService) ComputeBreakdown(ctx context.Context, courseID, learnerID uint, weights GradeWeights) (*GradeBreakdown, error) {
	cacheable := weights == DefaultGradeWeights()
	cacheKey := breakdownCacheKey(courseID, learnerID)

	if cacheable {
		var cached GradeBreakdown
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Breakdown cache read failed", "key", cacheKey, "error", err)
		}
	}

	breakdown := &GradeBreakdown{
		CourseID:  courseID,
		LearnerID: learnerID,
	}

	// The three activity-type reads run in one transaction so a concurrent
	// grade update cannot produce a breakdown mixing old and new scores.
	err := s.repo.WithTx(ctx, func(r repositories.Repository) error {
		quiz, err := s.scoreQuizzes(ctx, r, courseID, learnerID, weights.Quiz)
		if err != nil {
			return fmt.Errorf("failed to score quizzes: %w", err)
		}
		assignment, err := s.scoreAssignments(ctx, r, courseID, learnerID, weights.Assignment)
		if err != nil {
			return fmt.Errorf("failed to score assignments: %w", err)
		}
		test, err := s.scoreTests(ctx, r, courseID, learnerID, weights.Test)
		if err != nil {
			return fmt.Errorf("failed to score tests: %w", err)
		}

		breakdown.Quiz = quiz
		breakdown.Assignment = assignment
		breakdown.Test = test
		return nil
	})
	if err != nil {
		return nil, err
	}

	breakdown.FinalGrade = round2(breakdown.Quiz.WeightedScore + breakdown.Assignment.WeightedScore + breakdown.Test.WeightedScore)
	breakdown.LetterGrade = letterGrade(breakdown.FinalGrade)
	if breakdown.FinalGrade >= passingGrade {
		breakdown.Status = models.CertificatePass
	} else {
		breakdown.Status = models.CertificateFail
	}

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, breakdown, breakdownCacheTTL); err != nil {
			s.logger.Warn("Breakdown cache write failed", "key", cacheKey, "error", err)
		}
	}

	s.logger.Debug("Computed grade breakdown",
		"course_id", courseID,
		"learner_id", learnerID,
		"final_grade", breakdown.FinalGrade,
		"letter_grade", breakdown.LetterGrade)

	return breakdown, nil
}

func (s *gradeService) AllTestsPublished(ctx context.Context, courseID uint) (bool, error) {
	count, err := s.repo.Gradable().CountUnpublishedTests(ctx, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to count unpublished tests: %w", err)
	}
	return count == 0, nil
}

func (s *gradeService) InvalidateCourse(ctx context.Context, courseID uint) error {
	return s.cache.DeletePattern(ctx, fmt.Sprintf("grade:breakdown:%d:*", courseID))
}

func (s *gradeService) InvalidateLearner(ctx context.Context, courseID, learnerID uint) error {
	return s.cache.Delete(ctx, breakdownCacheKey(courseID, learnerID))
}

// ===== PER-TYPE SCORING =====

// Each activity contributes its max points to the denominator whether or not
// the learner attempted it; an unattempted activity scores 0, it is not
// dropped.

func (s *gradeService) scoreQuizzes(ctx context.Context, r repositories.Repository, courseID, learnerID uint, weight float64) (ActivityScore, error) {
	quizzes, err := r.Gradable().GetQuizzesByCourse(ctx, courseID)
	if err != nil {
		return ActivityScore{}, err
	}

	var earned, max float64
	for _, quiz := range quizzes {
		max += quiz.MaxPoints
		attempt, err := r.Gradable().GetBestQuizAttempt(ctx, learnerID, quiz.ID)
		if err != nil {
			return ActivityScore{}, err
		}
		if attempt != nil {
			earned += attempt.Score
		}
	}

	return newActivityScore(earned, max, len(quizzes), weight), nil
}

func (s *gradeService) scoreAssignments(ctx context.Context, r repositories.Repository, courseID, learnerID uint, weight float64) (ActivityScore, error) {
	assignments, err := r.Gradable().GetAssignmentsByCourse(ctx, courseID)
	if err != nil {
		return ActivityScore{}, err
	}

	var earned, max float64
	for _, assignment := range assignments {
		max += assignment.MaxMarks
		submission, err := r.Gradable().GetAssignmentSubmission(ctx, learnerID, assignment.ID)
		if err != nil {
			return ActivityScore{}, err
		}
		if submission != nil && submission.MarksObtained != nil {
			earned += *submission.MarksObtained
		}
	}

	return newActivityScore(earned, max, len(assignments), weight), nil
}

func (s *gradeService) scoreTests(ctx context.Context, r repositories.Repository, courseID, learnerID uint, weight float64) (ActivityScore, error) {
	tests, err := r.Gradable().GetTestsByCourse(ctx, courseID)
	if err != nil {
		return ActivityScore{}, err
	}

	var earned, max float64
	for _, test := range tests {
		max += test.MaxMarks
		submission, err := r.Gradable().GetBestTestSubmission(ctx, learnerID, test.ID)
		if err != nil {
			return ActivityScore{}, err
		}
		if submission != nil && submission.TotalScore != nil {
			earned += *submission.TotalScore
		}
	}

	return newActivityScore(earned, max, len(tests), weight), nil
}

func newActivityScore(earned, max float64, count int, weight float64) ActivityScore {
	percentage := 0.0
	if max > 0 {
		percentage = round2(earned / max * 100)
	}

	return ActivityScore{
		TotalScore:    round2(earned),
		MaxScore:      round2(max),
		Percentage:    percentage,
		Weight:        weight,
		WeightedScore: round2(percentage * weight),
		Count:         count,
	}
}

// letterGrade maps a final percentage to its letter. Thresholds are fixed.
func letterGrade(finalGrade float64) string {
	switch {
	case finalGrade >= 90:
		return "A"
	case finalGrade >= 80:
		return "B"
	case finalGrade >= 70:
		return "C"
	case finalGrade >= 60:
		return "D"
	default:
		return "F"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func breakdownCacheKey(courseID, learnerID uint) string {
	return fmt.Sprintf("grade:breakdown:%d:%d", courseID, learnerID)
}
