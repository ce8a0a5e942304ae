package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different kinds of notification events
type EventType string

const (
	// Completion pathway
	EventCourseCompleted   EventType = "course.completed"
	EventCertificateIssued EventType = "certificate.issued"

	// Publication pathway
	EventTestResultsPublished EventType = "test.results_published"
)

// NotificationEvent is the envelope for all published events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type CourseCompletedEvent struct {
	LearnerID   uint      `json:"learner_id"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	CompletedAt time.Time `json:"completed_at"`
	FinalGrade  float64   `json:"final_grade"`
}

type CertificateIssuedEvent struct {
	LearnerID         uint      `json:"learner_id"`
	CourseID          uint      `json:"course_id"`
	CourseTitle       string    `json:"course_title"`
	CertificateID     uint      `json:"certificate_id"`
	CertificateNumber string    `json:"certificate_number"`
	FinalGrade        float64   `json:"final_grade"`
	LetterGrade       string    `json:"letter_grade"`
	Status            string    `json:"status"`
	IssuedAt          time.Time `json:"issued_at"`
}

type TestResultsPublishedEvent struct {
	TestID      uint      `json:"test_id"`
	CourseID    uint      `json:"course_id"`
	TestTitle   string    `json:"test_title"`
	PublishedAt time.Time `json:"published_at"`
}

// Event factory functions

func NewCourseCompletedEvent(learnerID, courseID uint, courseTitle string, completedAt time.Time, finalGrade float64) *NotificationEvent {
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      EventCourseCompleted,
		Timestamp: time.Now(),
		Source:    "certification-service",
		Version:   "1.0",
		Data: CourseCompletedEvent{
			LearnerID:   learnerID,
			CourseID:    courseID,
			CourseTitle: courseTitle,
			CompletedAt: completedAt,
			FinalGrade:  finalGrade,
		},
	}
}

func NewCertificateIssuedEvent(learnerID, courseID, certificateID uint, courseTitle, number, letter, status string, finalGrade float64, issuedAt time.Time) *NotificationEvent {
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      EventCertificateIssued,
		Timestamp: time.Now(),
		Source:    "certification-service",
		Version:   "1.0",
		Data: CertificateIssuedEvent{
			LearnerID:         learnerID,
			CourseID:          courseID,
			CourseTitle:       courseTitle,
			CertificateID:     certificateID,
			CertificateNumber: number,
			FinalGrade:        finalGrade,
			LetterGrade:       letter,
			Status:            status,
			IssuedAt:          issuedAt,
		},
	}
}

func NewTestResultsPublishedEvent(testID, courseID uint, testTitle string, publishedAt time.Time) *NotificationEvent {
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      EventTestResultsPublished,
		Timestamp: time.Now(),
		Source:    "certification-service",
		Version:   "1.0",
		Data: TestResultsPublishedEvent{
			TestID:      testID,
			CourseID:    courseID,
			TestTitle:   testTitle,
			PublishedAt: publishedAt,
		},
	}
}

func generateEventID() string {
	return uuid.NewString()
}
