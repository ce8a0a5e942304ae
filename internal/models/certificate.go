package models

import (
	"time"

	"gorm.io/datatypes"
)

type CertificateStatus string

const (
	CertificatePass CertificateStatus = "pass"
	CertificateFail CertificateStatus = "fail"
)

// Default grade weights. They sum to 1.0; the aggregator accepts whatever
// weights a caller supplies without re-validating that sum.
const (
	DefaultQuizWeight       = 0.15
	DefaultAssignmentWeight = 0.25
	DefaultTestWeight       = 0.60
)

// Certificate is the upserted per-(learner, course) grade record. The
// certificate number and issue timestamp are fixed at first issuance; every
// other field is recomputed in place whenever issuance is re-triggered.
type Certificate struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	LearnerID         uint   `json:"learner_id" gorm:"not null;uniqueIndex:idx_cert_learner_course"`
	CourseID          uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_cert_learner_course"`
	CertificateNumber string `json:"certificate_number" gorm:"uniqueIndex;not null;size:20"`

	QuizWeight       float64 `json:"quiz_weight" gorm:"default:0.15"`
	AssignmentWeight float64 `json:"assignment_weight" gorm:"default:0.25"`
	TestWeight       float64 `json:"test_weight" gorm:"default:0.60"`

	FinalGrade  float64           `json:"final_grade" gorm:"default:0"`
	LetterGrade string            `json:"letter_grade" gorm:"size:2"`
	Status      CertificateStatus `json:"status" gorm:"default:fail" validate:"omitempty,oneof=pass fail"`

	// CanView is false while any test in the course has unpublished results.
	CanView bool `json:"can_view" gorm:"default:false"`

	CompletedAt time.Time `json:"completed_at"`
	IssuedAt    time.Time `json:"issued_at"`

	Metadata datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}

func (Certificate) TableName() string {
	return "certificates"
}
