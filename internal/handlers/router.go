package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skilltrack/certification-service/internal/services"
	"github.com/skilltrack/certification-service/internal/utils"
)

type HandlerManager struct {
	certificateHandler *CertificateHandler
	progressHandler    *ProgressHandler
	reportHandler      *ReportHandler
}

func NewHandlerManager(
	certificateService services.CertificateService,
	gradeService services.GradeService,
	progressService services.ProgressService,
	streakService services.StreakService,
	reportService services.ReportService,
	publicationService services.PublicationService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		certificateHandler: NewCertificateHandler(certificateService, gradeService, logger),
		progressHandler:    NewProgressHandler(progressService, streakService, logger),
		reportHandler:      NewReportHandler(reportService, publicationService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		courses := v1.Group("/courses")
		{
			courses.GET("/:id/grade-breakdown", hm.certificateHandler.GetGradeBreakdown)
			courses.GET("/:id/certificate", hm.certificateHandler.GetCertificate)
			courses.GET("/:id/certificate/pdf", hm.certificateHandler.GetCertificatePDF)

			courses.POST("/:id/progress/recompute", hm.progressHandler.RecomputeProgress)
			courses.GET("/:id/progress", hm.progressHandler.GetProgress)

			courses.POST("/:id/tests/:test_id/publish", hm.reportHandler.PublishTestResults)
			courses.GET("/:id/grades/export", hm.reportHandler.ExportGrades)
		}

		learners := v1.Group("/learners")
		{
			learners.GET("/:id/streak", hm.progressHandler.GetStreak)
		}

		certificates := v1.Group("/certificates")
		{
			certificates.GET("/:number/verify", hm.certificateHandler.VerifyCertificate)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "certification-service",
		})
	})
}
