package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/skilltrack/certification-service/internal/repositories"
	"github.com/skilltrack/certification-service/internal/utils"
)

// ReportService exports course-wide grade reports for instructors.
type ReportService interface {
	// ExportCourseGrades renders one row per enrolled learner with progress,
	// grade breakdown and certificate state. Supported formats: xlsx, csv.
	ExportCourseGrades(ctx context.Context, courseID uint, format string) ([]byte, string, error)
}

type ExportRequest struct {
	Format string `json:"format" validate:"required,export_format"`
}

type gradeReportRow struct {
	LearnerID         uint
	Progress          float64
	EnrollmentStatus  string
	QuizScore         float64
	AssignmentScore   float64
	TestScore         float64
	FinalGrade        float64
	LetterGrade       string
	Status            string
	CertificateNumber string
}

type reportService struct {
	repo      repositories.Repository
	grades    GradeService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewReportService(repo repositories.Repository, grades GradeService, logger *slog.Logger, validator *utils.Validator) ReportService {
	return &reportService{
		repo:      repo,
		grades:    grades,
		logger:    logger,
		validator: validator,
	}
}

func (s *reportService) ExportCourseGrades(ctx context.Context, courseID uint, format string) ([]byte, string, error) {
	if err := s.validator.Validate(&ExportRequest{Format: format}); err != nil {
		return nil, "", ErrExportFormatUnsupported
	}

	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrCourseNotFound
		}
		return nil, "", fmt.Errorf("failed to get course: %w", err)
	}

	rows, err := s.collectRows(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Exporting course grades",
		"course_id", courseID,
		"format", format,
		"learners", len(rows))

	switch format {
	case "csv":
		data, err := renderGradesCSV(rows)
		return data, "text/csv", err
	default:
		data, err := renderGradesExcel(rows)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	}
}

func (s *reportService) collectRows(ctx context.Context, courseID uint) ([]gradeReportRow, error) {
	enrollments, _, err := s.repo.Enrollment().ListByCourse(ctx, courseID, repositories.EnrollmentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	certs, err := s.repo.Certificate().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	certByLearner := make(map[uint]string, len(certs))
	for _, cert := range certs {
		certByLearner[cert.LearnerID] = cert.CertificateNumber
	}

	rows := make([]gradeReportRow, 0, len(enrollments))
	for _, enrollment := range enrollments {
		breakdown, err := s.grades.ComputeBreakdown(ctx, courseID, enrollment.LearnerID, DefaultGradeWeights())
		if err != nil {
			return nil, fmt.Errorf("failed to compute breakdown for learner %d: %w", enrollment.LearnerID, err)
		}

		rows = append(rows, gradeReportRow{
			LearnerID:         enrollment.LearnerID,
			Progress:          enrollment.Progress,
			EnrollmentStatus:  string(enrollment.Status),
			QuizScore:         breakdown.Quiz.Percentage,
			AssignmentScore:   breakdown.Assignment.Percentage,
			TestScore:         breakdown.Test.Percentage,
			FinalGrade:        breakdown.FinalGrade,
			LetterGrade:       breakdown.LetterGrade,
			Status:            string(breakdown.Status),
			CertificateNumber: certByLearner[enrollment.LearnerID],
		})
	}

	return rows, nil
}

var gradeReportHeaders = []string{
	"Learner ID", "Progress (%)", "Enrollment Status",
	"Quiz (%)", "Assignment (%)", "Test (%)",
	"Final Grade", "Letter Grade", "Status", "Certificate Number",
}

func renderGradesExcel(rows []gradeReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Grades"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range gradeReportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, row := range rows {
		values := []interface{}{
			row.LearnerID,
			row.Progress,
			row.EnrollmentStatus,
			row.QuizScore,
			row.AssignmentScore,
			row.TestScore,
			row.FinalGrade,
			row.LetterGrade,
			row.Status,
			row.CertificateNumber,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func renderGradesCSV(rows []gradeReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(gradeReportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.LearnerID), 10),
			strconv.FormatFloat(row.Progress, 'f', 2, 64),
			row.EnrollmentStatus,
			strconv.FormatFloat(row.QuizScore, 'f', 2, 64),
			strconv.FormatFloat(row.AssignmentScore, 'f', 2, 64),
			strconv.FormatFloat(row.TestScore, 'f', 2, 64),
			strconv.FormatFloat(row.FinalGrade, 'f', 2, 64),
			row.LetterGrade,
			row.Status,
			row.CertificateNumber,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}
