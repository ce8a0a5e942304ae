package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

type CompletionStatus string

const (
	CompletionNotStarted CompletionStatus = "not_started"
	CompletionInProgress CompletionStatus = "in_progress"
	CompletionCompleted  CompletionStatus = "completed"
)

// Enrollment links a learner to a course. Progress is a recomputed-from-scratch
// percentage of completed mandatory modules, pinned to 100.00 when the course
// completes.
type Enrollment struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	LearnerID uint             `json:"learner_id" gorm:"not null;uniqueIndex:idx_learner_course"`
	CourseID  uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_learner_course"`
	Status    EnrollmentStatus `json:"status" gorm:"default:active;index" validate:"omitempty,oneof=active completed cancelled"`
	Progress  float64          `json:"progress" gorm:"default:0"`

	CompletedAt    *time.Time `json:"completed_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}

// ModuleCompletion records a learner's state for a single course module,
// one row per (learner, module). Written by the lesson-completion workflow,
// read by progress recomputation.
type ModuleCompletion struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	LearnerID uint             `json:"learner_id" gorm:"not null;uniqueIndex:idx_learner_module"`
	ModuleID  uint             `json:"module_id" gorm:"not null;uniqueIndex:idx_learner_module"`
	Status    CompletionStatus `json:"status" gorm:"default:not_started;index" validate:"omitempty,oneof=not_started in_progress completed"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Module CourseModule `json:"module" gorm:"foreignKey:ModuleID"`
}

// ActivityLog holds one row per learner per calendar day that had any
// recorded activity. ActivityDate is stored date-only (midnight UTC).
type ActivityLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	LearnerID    uint      `json:"learner_id" gorm:"not null;uniqueIndex:idx_learner_day"`
	ActivityDate time.Time `json:"activity_date" gorm:"type:date;not null;uniqueIndex:idx_learner_day"`

	LessonsCompleted int `json:"lessons_completed" gorm:"default:0"`
	QuizzesTaken     int `json:"quizzes_taken" gorm:"default:0"`
	TimeSpent        int `json:"time_spent" gorm:"default:0"` // seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (ModuleCompletion) TableName() string {
	return "module_completions"
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
