package models

import (
	"time"

	"gorm.io/gorm"
)

// The three gradable activity kinds. Each belongs to a course module and
// contributes its max points/marks to the denominator of its activity type,
// even when a learner never attempted it.

type Quiz struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	ModuleID     uint    `json:"module_id" gorm:"not null;index"`
	Title        string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	MaxPoints    float64 `json:"max_points" gorm:"default:0"`
	PassingScore float64 `json:"passing_score" gorm:"default:0"`
	MaxAttempts  int     `json:"max_attempts" gorm:"default:3" validate:"omitempty,min=1,max=10"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Assignment struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	ModuleID uint       `json:"module_id" gorm:"not null;index"`
	Title    string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	MaxMarks float64    `json:"max_marks" gorm:"default:0"`
	DueDate  *time.Time `json:"due_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Test is a timed, instructor-graded exam. ResultsPublished gates certificate
// visibility: a certificate's breakdown may be disclosed only once every test
// in the course has published results.
type Test struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	ModuleID         uint    `json:"module_id" gorm:"not null;index"`
	Title            string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	MaxMarks         float64 `json:"max_marks" gorm:"default:0"`
	Duration         int     `json:"duration" gorm:"default:60"` // minutes
	ResultsPublished bool    `json:"results_published" gorm:"default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ===== SCORE RECORDS =====

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

type SubmissionStatus string

const (
	SubmissionDraft     SubmissionStatus = "draft"
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
	SubmissionLate      SubmissionStatus = "late"
	SubmissionAbandoned SubmissionStatus = "abandoned"
)

// QuizAttempt is one learner run at a quiz. Grading considers only completed
// attempts, best score first.
type QuizAttempt struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	QuizID    uint          `json:"quiz_id" gorm:"not null;index:idx_quiz_learner"`
	LearnerID uint          `json:"learner_id" gorm:"not null;index:idx_quiz_learner"`
	Score     float64       `json:"score" gorm:"default:0"`
	Status    AttemptStatus `json:"status" gorm:"default:in_progress;index"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AssignmentSubmission holds at most one row per (learner, assignment).
// MarksObtained stays nil until the instructor grades it; an ungraded
// submission scores 0.
type AssignmentSubmission struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	AssignmentID  uint             `json:"assignment_id" gorm:"not null;uniqueIndex:idx_assignment_learner"`
	LearnerID     uint             `json:"learner_id" gorm:"not null;uniqueIndex:idx_assignment_learner"`
	MarksObtained *float64         `json:"marks_obtained"`
	Status        SubmissionStatus `json:"status" gorm:"default:draft;index"`
	Feedback      *string          `json:"feedback" gorm:"type:text"`

	SubmittedAt *time.Time `json:"submitted_at"`
	GradedAt    *time.Time `json:"graded_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TestSubmission is one learner sitting of a test. Only submissions whose
// status is submitted or late, with a non-nil TotalScore, count toward the
// grade; the best qualifying score wins.
type TestSubmission struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	TestID     uint             `json:"test_id" gorm:"not null;index:idx_test_learner"`
	LearnerID  uint             `json:"learner_id" gorm:"not null;index:idx_test_learner"`
	TotalScore *float64         `json:"total_score"`
	Status     SubmissionStatus `json:"status" gorm:"default:in_progress;index"`

	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Quiz) TableName() string               { return "quizzes" }
func (Assignment) TableName() string         { return "assignments" }
func (Test) TableName() string               { return "tests" }
func (QuizAttempt) TableName() string        { return "quiz_attempts" }
func (AssignmentSubmission) TableName() string { return "assignment_submissions" }
func (TestSubmission) TableName() string     { return "test_submissions" }
