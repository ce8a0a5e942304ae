package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skilltrack/certification-service/internal/services"
	"github.com/skilltrack/certification-service/internal/utils"
)

type CertificateHandler struct {
	BaseHandler
	certificateService services.CertificateService
	gradeService       services.GradeService
}

func NewCertificateHandler(
	certificateService services.CertificateService,
	gradeService services.GradeService,
	logger utils.Logger,
) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler:        NewBaseHandler(logger),
		certificateService: certificateService,
		gradeService:       gradeService,
	}
}

// GetGradeBreakdown returns the learner's weighted grade breakdown for a course
// @Summary Get grade breakdown
// @Tags certificates
// @Produce json
// @Param id path uint true "Course ID"
// @Param learner_id query uint true "Learner ID"
// @Success 200 {object} services.GradeBreakdown
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id}/grade-breakdown [get]
func (h *CertificateHandler) GetGradeBreakdown(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	learnerID := h.parseLearnerQuery(c)
	if learnerID == 0 {
		return
	}

	h.LogRequest(c, "Getting grade breakdown", "course_id", courseID, "learner_id", learnerID)

	// Breakdowns stay hidden while any test in the course has unpublished
	// results, same gate as the certificate itself.
	published, err := h.gradeService.AllTestsPublished(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !published {
		h.handleServiceError(c, services.ErrCertificateNotViewable)
		return
	}

	breakdown, err := h.gradeService.ComputeBreakdown(c.Request.Context(), courseID, learnerID, services.DefaultGradeWeights())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// GetCertificate returns the learner's certificate with its breakdown
// @Summary Get certificate
// @Tags certificates
// @Produce json
// @Param id path uint true "Course ID"
// @Param learner_id query uint true "Learner ID"
// @Success 200 {object} services.CertificateResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/certificate [get]
func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	learnerID := h.parseLearnerQuery(c)
	if learnerID == 0 {
		return
	}

	h.LogRequest(c, "Getting certificate", "course_id", courseID, "learner_id", learnerID)

	resp, err := h.certificateService.GetForLearner(c.Request.Context(), courseID, learnerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyCertificate authenticates a certificate by its public number
// @Summary Verify a certificate
// @Tags certificates
// @Produce json
// @Param number path string true "Certificate number"
// @Success 200 {object} services.CertificateVerification
// @Failure 404 {object} ErrorResponse
// @Router /certificates/{number}/verify [get]
func (h *CertificateHandler) VerifyCertificate(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Certificate number is required"})
		return
	}

	h.LogRequest(c, "Verifying certificate", "certificate_number", number)

	verification, err := h.certificateService.VerifyByNumber(c.Request.Context(), number)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, verification)
}

// GetCertificatePDF renders the learner's certificate as a PDF document
// @Summary Download certificate PDF
// @Tags certificates
// @Produce application/pdf
// @Param id path uint true "Course ID"
// @Param learner_id query uint true "Learner ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/certificate/pdf [get]
func (h *CertificateHandler) GetCertificatePDF(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	learnerID := h.parseLearnerQuery(c)
	if learnerID == 0 {
		return
	}

	h.LogRequest(c, "Rendering certificate PDF", "course_id", courseID, "learner_id", learnerID)

	pdf, err := h.certificateService.RenderPDF(c.Request.Context(), courseID, learnerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("certificate-course-%d-learner-%d.pdf", courseID, learnerID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
