package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skilltrack/certification-service/internal/services"
	"github.com/skilltrack/certification-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService      services.ReportService
	publicationService services.PublicationService
}

func NewReportHandler(
	reportService services.ReportService,
	publicationService services.PublicationService,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:        NewBaseHandler(logger),
		reportService:      reportService,
		publicationService: publicationService,
	}
}

// ExportGrades exports the course grade report as xlsx or csv
// @Summary Export course grades
// @Tags reports
// @Produce application/octet-stream
// @Param id path uint true "Course ID"
// @Param format query string false "Export format (xlsx or csv)" default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/grades/export [get]
func (h *ReportHandler) ExportGrades(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	format := c.DefaultQuery("format", "xlsx")

	h.LogRequest(c, "Exporting course grades", "course_id", courseID, "format", format)

	data, contentType, err := h.reportService.ExportCourseGrades(c.Request.Context(), courseID, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("course-%d-grades.%s", courseID, format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// PublishTestResults marks a test's results as published
// @Summary Publish test results
// @Tags reports
// @Produce json
// @Param id path uint true "Course ID"
// @Param test_id path uint true "Test ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/tests/{test_id}/publish [post]
func (h *ReportHandler) PublishTestResults(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	testID := h.parseIDParam(c, "test_id")
	if testID == 0 {
		return
	}

	h.LogRequest(c, "Publishing test results", "course_id", courseID, "test_id", testID)

	test, err := h.publicationService.PublishTestResults(c.Request.Context(), testID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Test results published",
		Data:    test,
	})
}
