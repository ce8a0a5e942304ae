package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== REPOSITORY MOCKS =====

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) GetModule(ctx context.Context, moduleID uint) (*models.CourseModule, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourseModule), args.Error(1)
}

func (m *MockCourseRepository) GetModules(ctx context.Context, courseID uint) ([]*models.CourseModule, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CourseModule), args.Error(1)
}

func (m *MockCourseRepository) GetModuleIDs(ctx context.Context, courseID uint) ([]uint, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockCourseRepository) GetMandatoryModuleIDs(ctx context.Context, courseID uint) ([]uint, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*models.Enrollment, error) {
	args := m.Called(ctx, learnerID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) ListByCourse(ctx context.Context, courseID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	args := m.Called(ctx, courseID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Enrollment), args.Get(1).(int64), args.Error(2)
}

func (m *MockEnrollmentRepository) CountCompletedModules(ctx context.Context, learnerID uint, moduleIDs []uint) (int64, error) {
	args := m.Called(ctx, learnerID, moduleIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEnrollmentRepository) GetModuleCompletions(ctx context.Context, learnerID uint, moduleIDs []uint) ([]*models.ModuleCompletion, error) {
	args := m.Called(ctx, learnerID, moduleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ModuleCompletion), args.Error(1)
}

type MockGradableRepository struct {
	mock.Mock
}

func (m *MockGradableRepository) GetQuizzesByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quiz), args.Error(1)
}

func (m *MockGradableRepository) GetAssignmentsByCourse(ctx context.Context, courseID uint) ([]*models.Assignment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockGradableRepository) GetTestsByCourse(ctx context.Context, courseID uint) ([]*models.Test, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Test), args.Error(1)
}

func (m *MockGradableRepository) GetBestQuizAttempt(ctx context.Context, learnerID, quizID uint) (*models.QuizAttempt, error) {
	args := m.Called(ctx, learnerID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockGradableRepository) GetAssignmentSubmission(ctx context.Context, learnerID, assignmentID uint) (*models.AssignmentSubmission, error) {
	args := m.Called(ctx, learnerID, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssignmentSubmission), args.Error(1)
}

func (m *MockGradableRepository) GetBestTestSubmission(ctx context.Context, learnerID, testID uint) (*models.TestSubmission, error) {
	args := m.Called(ctx, learnerID, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestSubmission), args.Error(1)
}

func (m *MockGradableRepository) CountUnpublishedTests(ctx context.Context, courseID uint) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGradableRepository) GetTestByID(ctx context.Context, testID uint) (*models.Test, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *MockGradableRepository) PublishTestResults(ctx context.Context, testID uint) error {
	args := m.Called(ctx, testID)
	return args.Error(0)
}

type MockCertificateRepository struct {
	mock.Mock
}

func (m *MockCertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

func (m *MockCertificateRepository) Update(ctx context.Context, cert *models.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}

func (m *MockCertificateRepository) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*models.Certificate, error) {
	args := m.Called(ctx, learnerID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) GetByNumber(ctx context.Context, number string) (*models.Certificate, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) HighestNumberForYear(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

func (m *MockCertificateRepository) ListByCourse(ctx context.Context, courseID uint) ([]*models.Certificate, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) ListPendingVisibility(ctx context.Context) ([]*models.Certificate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Certificate), args.Error(1)
}

type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) GetByLearnerDesc(ctx context.Context, learnerID uint) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// ===== AGGREGATE =====

// mockRepository bundles the per-entity mocks behind the Repository interface.
// WithTx runs the callback against the same mocks and counts invocations so
// tests can assert which reads happen transaction-scoped; transaction
// semantics are the real implementation's concern.
type mockRepository struct {
	course       *MockCourseRepository
	enrollment   *MockEnrollmentRepository
	gradable     *MockGradableRepository
	certificate  *MockCertificateRepository
	activityLog  *MockActivityLogRepository
	notification *MockNotificationRepository

	withTxCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		course:       &MockCourseRepository{},
		enrollment:   &MockEnrollmentRepository{},
		gradable:     &MockGradableRepository{},
		certificate:  &MockCertificateRepository{},
		activityLog:  &MockActivityLogRepository{},
		notification: &MockNotificationRepository{},
	}
}

func (m *mockRepository) Course() repositories.CourseRepository           { return m.course }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository   { return m.enrollment }
func (m *mockRepository) Gradable() repositories.GradableRepository       { return m.gradable }
func (m *mockRepository) Certificate() repositories.CertificateRepository { return m.certificate }
func (m *mockRepository) ActivityLog() repositories.ActivityLogRepository { return m.activityLog }
func (m *mockRepository) Notification() repositories.NotificationRepository {
	return m.notification
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	m.withTxCalls++
	return fn(m)
}
