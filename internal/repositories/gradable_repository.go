package repositories

import (
	"context"

	"github.com/skilltrack/certification-service/internal/models"
)

// GradableRepository reads the three gradable activity kinds and their
// per-learner score records. Score selection rules live here so the grade
// service stays a pure aggregation.
type GradableRepository interface {
	// Activity enumeration, course-wide (via the course's modules)
	GetQuizzesByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error)
	GetAssignmentsByCourse(ctx context.Context, courseID uint) ([]*models.Assignment, error)
	GetTestsByCourse(ctx context.Context, courseID uint) ([]*models.Test, error)

	// Best/chosen score records. Each returns nil, nil when no qualifying
	// record exists.
	//
	// Quiz: highest-scoring completed attempt, ties broken by most recent
	// completion. Assignment: the submission with status submitted or graded.
	// Test: highest non-null total_score with status submitted or late.
	GetBestQuizAttempt(ctx context.Context, learnerID, quizID uint) (*models.QuizAttempt, error)
	GetAssignmentSubmission(ctx context.Context, learnerID, assignmentID uint) (*models.AssignmentSubmission, error)
	GetBestTestSubmission(ctx context.Context, learnerID, testID uint) (*models.TestSubmission, error)

	// Publication state
	CountUnpublishedTests(ctx context.Context, courseID uint) (int64, error)
	GetTestByID(ctx context.Context, testID uint) (*models.Test, error)
	PublishTestResults(ctx context.Context, testID uint) error
}
