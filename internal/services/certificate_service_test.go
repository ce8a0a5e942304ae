package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/skilltrack/certification-service/internal/events"
	"github.com/skilltrack/certification-service/internal/models"
)

// gradeServiceStub returns canned results so certificate tests don't restate
// the aggregation fixtures.
type gradeServiceStub struct {
	breakdown *GradeBreakdown
	published bool
}

func (s *gradeServiceStub) ComputeBreakdown(ctx context.Context, courseID, learnerID uint, weights GradeWeights) (*GradeBreakdown, error) {
	return s.breakdown, nil
}

func (s *gradeServiceStub) AllTestsPublished(ctx context.Context, courseID uint) (bool, error) {
	return s.published, nil
}

func (s *gradeServiceStub) InvalidateCourse(ctx context.Context, courseID uint) error { return nil }

func (s *gradeServiceStub) InvalidateLearner(ctx context.Context, courseID, learnerID uint) error {
	return nil
}

func passingBreakdown() *GradeBreakdown {
	return &GradeBreakdown{
		CourseID:    1,
		LearnerID:   5,
		FinalGrade:  82.05,
		LetterGrade: "B",
		Status:      models.CertificatePass,
	}
}

func newCertificateServiceForTest(repo *mockRepository, grades GradeService, now time.Time) *certificateService {
	publisher := events.NewMockEventPublisher(testLogger())
	notifications := NewNotificationEventService(repo, publisher, testLogger())
	svc := NewCertificateService(repo, grades, notifications, testLogger()).(*certificateService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestIssueOrUpdate_NoEnrollmentIsSilentNoop(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()

	repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)

	svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, time.Now())

	cert, err := svc.IssueOrUpdate(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Nil(t, cert)
	repo.certificate.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueOrUpdate_FirstIssuance(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	completedAt := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)

	repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{
		LearnerID: 5, CourseID: 1, Status: models.EnrollmentCompleted, CompletedAt: &completedAt,
	}, nil)
	repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.certificate.On("HighestNumberForYear", ctx, 2025).Return("", nil)
	repo.certificate.On("Create", ctx, mock.AnythingOfType("*models.Certificate")).Return(nil)

	svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, now)

	cert, err := svc.IssueOrUpdate(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, "CERT-2025-00001", cert.CertificateNumber)
	assert.Equal(t, 82.05, cert.FinalGrade)
	assert.Equal(t, "B", cert.LetterGrade)
	assert.Equal(t, models.CertificatePass, cert.Status)
	assert.True(t, cert.CanView)
	assert.Equal(t, completedAt, cert.CompletedAt)
	assert.Equal(t, now, cert.IssuedAt)
	assert.Equal(t, models.DefaultQuizWeight, cert.QuizWeight)
	assert.Equal(t, models.DefaultAssignmentWeight, cert.AssignmentWeight)
	assert.Equal(t, models.DefaultTestWeight, cert.TestWeight)
}

func TestIssueOrUpdate_SequenceContinuesWithinYear(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{
		LearnerID: 5, CourseID: 1,
	}, nil)
	repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.certificate.On("HighestNumberForYear", ctx, 2025).Return("CERT-2025-00041", nil)
	repo.certificate.On("Create", ctx, mock.AnythingOfType("*models.Certificate")).Return(nil)

	svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, now)

	cert, err := svc.IssueOrUpdate(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, "CERT-2025-00042", cert.CertificateNumber)
}

func TestIssueOrUpdate_SequenceResetsEachYear(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{
		LearnerID: 5, CourseID: 1,
	}, nil)
	repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	// Last year's numbers don't carry over; the query is year-scoped.
	repo.certificate.On("HighestNumberForYear", ctx, 2026).Return("", nil)
	repo.certificate.On("Create", ctx, mock.AnythingOfType("*models.Certificate")).Return(nil)

	svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, now)

	cert, err := svc.IssueOrUpdate(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, "CERT-2026-00001", cert.CertificateNumber)
}

func TestIssueOrUpdate_UpsertPreservesNumberAndIssuedAt(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	issuedAt := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{
		LearnerID: 5, CourseID: 1,
	}, nil)
	repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Certificate{
		ID: 7, LearnerID: 5, CourseID: 1,
		CertificateNumber: "CERT-2025-00007",
		IssuedAt:          issuedAt,
		FinalGrade:        55.0, LetterGrade: "F", Status: models.CertificateFail,
		CanView: false,
	}, nil)
	repo.certificate.On("Update", ctx, mock.AnythingOfType("*models.Certificate")).Return(nil)

	svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, now)

	cert, err := svc.IssueOrUpdate(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, "CERT-2025-00007", cert.CertificateNumber)
	assert.Equal(t, issuedAt, cert.IssuedAt)
	assert.Equal(t, 82.05, cert.FinalGrade)
	assert.Equal(t, "B", cert.LetterGrade)
	assert.True(t, cert.CanView)
	repo.certificate.AssertNotCalled(t, "HighestNumberForYear", mock.Anything, mock.Anything)
	repo.certificate.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueOrUpdate_HiddenWhileTestsUnpublished(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{
		LearnerID: 5, CourseID: 1,
	}, nil)
	repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.certificate.On("HighestNumberForYear", ctx, 2025).Return("", nil)
	repo.certificate.On("Create", ctx, mock.AnythingOfType("*models.Certificate")).Return(nil)

	svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: false}, now)

	cert, err := svc.IssueOrUpdate(ctx, 1, 5)
	assert.NoError(t, err)
	assert.False(t, cert.CanView)
}

func TestIssueOnCompletion_PublishesEvents(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{
		LearnerID: 5, CourseID: 1,
	}, nil)
	repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.certificate.On("HighestNumberForYear", ctx, 2025).Return("", nil)
	repo.certificate.On("Create", ctx, mock.AnythingOfType("*models.Certificate")).Return(nil)
	repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1, Title: "Go Fundamentals"}, nil)
	repo.notification.On("Create", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	publisher := events.NewMockEventPublisher(testLogger())
	notifications := NewNotificationEventService(repo, publisher, testLogger())
	svc := NewCertificateService(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, notifications, testLogger()).(*certificateService)
	svc.now = func() time.Time { return now }

	cert, err := svc.IssueOnCompletion(ctx, 1, 5)
	assert.NoError(t, err)
	assert.NotNil(t, cert)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 2)
	assert.Equal(t, events.EventCourseCompleted, published[0].Type)
	assert.Equal(t, events.EventCertificateIssued, published[1].Type)
	repo.notification.AssertNumberOfCalls(t, "Create", 2)
}

func TestGetForLearner(t *testing.T) {
	ctx := context.Background()

	t.Run("not enrolled", func(t *testing.T) {
		repo := newMockRepository()
		repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)

		svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, time.Now())

		_, err := svc.GetForLearner(ctx, 1, 5)
		assert.ErrorIs(t, err, ErrEnrollmentNotFound)
	})

	t.Run("not yet generated", func(t *testing.T) {
		repo := newMockRepository()
		repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{LearnerID: 5, CourseID: 1}, nil)
		repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)

		svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, time.Now())

		_, err := svc.GetForLearner(ctx, 1, 5)
		assert.ErrorIs(t, err, ErrCertificateNotGenerated)
	})

	t.Run("gated while hidden", func(t *testing.T) {
		repo := newMockRepository()
		repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{LearnerID: 5, CourseID: 1}, nil)
		repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Certificate{
			LearnerID: 5, CourseID: 1, CanView: false,
		}, nil)

		svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, time.Now())

		_, err := svc.GetForLearner(ctx, 1, 5)
		assert.ErrorIs(t, err, ErrCertificateNotViewable)
	})

	t.Run("viewable returns breakdown", func(t *testing.T) {
		repo := newMockRepository()
		repo.enrollment.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Enrollment{LearnerID: 5, CourseID: 1}, nil)
		repo.certificate.On("GetByLearnerAndCourse", ctx, uint(5), uint(1)).Return(&models.Certificate{
			LearnerID: 5, CourseID: 1, CanView: true,
			CertificateNumber: "CERT-2025-00001",
			QuizWeight:        models.DefaultQuizWeight,
			AssignmentWeight:  models.DefaultAssignmentWeight,
			TestWeight:        models.DefaultTestWeight,
		}, nil)

		svc := newCertificateServiceForTest(repo, &gradeServiceStub{breakdown: passingBreakdown(), published: true}, time.Now())

		resp, err := svc.GetForLearner(ctx, 1, 5)
		assert.NoError(t, err)
		assert.Equal(t, "CERT-2025-00001", resp.Certificate.CertificateNumber)
		assert.Equal(t, 82.05, resp.Breakdown.FinalGrade)
	})
}

func TestVerifyByNumber(t *testing.T) {
	grades := &gradeServiceStub{breakdown: passingBreakdown(), published: true}

	t.Run("viewable certificate verifies with public fields", func(t *testing.T) {
		repo := newMockRepository()
		ctx := context.Background()
		completedAt := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
		issuedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		repo.certificate.On("GetByNumber", ctx, "CERT-2025-00001").Return(&models.Certificate{
			LearnerID:         5,
			CourseID:          1,
			CertificateNumber: "CERT-2025-00001",
			FinalGrade:        82.05,
			LetterGrade:       "B",
			Status:            models.CertificatePass,
			CompletedAt:       completedAt,
			IssuedAt:          issuedAt,
			CanView:           true,
		}, nil)
		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1, Title: "Go Fundamentals"}, nil)

		svc := newCertificateServiceForTest(repo, grades, time.Now())

		verification, err := svc.VerifyByNumber(ctx, "CERT-2025-00001")
		assert.NoError(t, err)
		assert.Equal(t, "CERT-2025-00001", verification.CertificateNumber)
		assert.Equal(t, "Go Fundamentals", verification.CourseTitle)
		assert.Equal(t, 82.05, verification.FinalGrade)
		assert.Equal(t, "B", verification.LetterGrade)
		assert.Equal(t, issuedAt, verification.IssuedAt)
	})

	t.Run("unknown number is not found", func(t *testing.T) {
		repo := newMockRepository()
		ctx := context.Background()

		repo.certificate.On("GetByNumber", ctx, "CERT-2025-99999").Return(nil, gorm.ErrRecordNotFound)

		svc := newCertificateServiceForTest(repo, grades, time.Now())

		_, err := svc.VerifyByNumber(ctx, "CERT-2025-99999")
		assert.ErrorIs(t, err, ErrCertificateNotFound)
	})

	t.Run("hidden certificate verifies as not found", func(t *testing.T) {
		repo := newMockRepository()
		ctx := context.Background()

		repo.certificate.On("GetByNumber", ctx, "CERT-2025-00002").Return(&models.Certificate{
			LearnerID:         6,
			CourseID:          1,
			CertificateNumber: "CERT-2025-00002",
			CanView:           false,
		}, nil)

		svc := newCertificateServiceForTest(repo, grades, time.Now())

		_, err := svc.VerifyByNumber(ctx, "CERT-2025-00002")
		assert.ErrorIs(t, err, ErrCertificateNotFound)
		repo.course.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}
