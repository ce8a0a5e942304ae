package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/skilltrack/certification-service/internal/events"
	"github.com/skilltrack/certification-service/internal/models"
)

func TestPublishTestResults(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and recomputes course certificates", func(t *testing.T) {
		repo := newMockRepository()
		certs := &certificateServiceStub{}
		publisher := events.NewMockEventPublisher(testLogger())
		notifications := NewNotificationEventService(repo, publisher, testLogger())

		repo.gradable.On("GetTestByID", ctx, uint(30)).Return(&models.Test{
			ID: 30, ModuleID: 3, Title: "Final Exam", ResultsPublished: false,
		}, nil)
		repo.course.On("GetModule", ctx, uint(3)).Return(&models.CourseModule{ID: 3, CourseID: 1}, nil)
		repo.gradable.On("PublishTestResults", ctx, uint(30)).Return(nil)
		repo.certificate.On("ListByCourse", ctx, uint(1)).Return([]*models.Certificate{
			{LearnerID: 5, CourseID: 1, CanView: false},
			{LearnerID: 6, CourseID: 1, CanView: false},
		}, nil)

		svc := NewPublicationService(repo, certs, &gradeServiceStub{}, notifications, testLogger())

		test, err := svc.PublishTestResults(ctx, 30)
		assert.NoError(t, err)
		assert.True(t, test.ResultsPublished)

		published := publisher.GetPublishedEvents()
		assert.Len(t, published, 1)
		assert.Equal(t, events.EventTestResultsPublished, published[0].Type)
	})

	t.Run("already published is a no-op", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		notifications := NewNotificationEventService(repo, publisher, testLogger())

		repo.gradable.On("GetTestByID", ctx, uint(30)).Return(&models.Test{
			ID: 30, ModuleID: 3, ResultsPublished: true,
		}, nil)

		svc := NewPublicationService(repo, &certificateServiceStub{}, &gradeServiceStub{}, notifications, testLogger())

		test, err := svc.PublishTestResults(ctx, 30)
		assert.NoError(t, err)
		assert.True(t, test.ResultsPublished)
		assert.Empty(t, publisher.GetPublishedEvents())
		repo.gradable.AssertNotCalled(t, "PublishTestResults", mock.Anything, mock.Anything)
	})

	t.Run("unknown test", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		notifications := NewNotificationEventService(repo, publisher, testLogger())

		repo.gradable.On("GetTestByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewPublicationService(repo, &certificateServiceStub{}, &gradeServiceStub{}, notifications, testLogger())

		_, err := svc.PublishTestResults(ctx, 99)
		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}
