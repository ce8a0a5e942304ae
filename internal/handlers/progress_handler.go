package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skilltrack/certification-service/internal/services"
	"github.com/skilltrack/certification-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
	streakService   services.StreakService
}

func NewProgressHandler(
	progressService services.ProgressService,
	streakService services.StreakService,
	logger utils.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
		streakService:   streakService,
	}
}

// RecomputeProgress recalculates and persists the learner's course progress
// @Summary Recompute progress
// @Tags progress
// @Produce json
// @Param id path uint true "Course ID"
// @Param learner_id query uint true "Learner ID"
// @Success 200 {object} services.ProgressResult
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/progress/recompute [post]
func (h *ProgressHandler) RecomputeProgress(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	learnerID := h.parseLearnerQuery(c)
	if learnerID == 0 {
		return
	}

	h.LogRequest(c, "Recomputing progress", "course_id", courseID, "learner_id", learnerID)

	result, err := h.progressService.RecomputeProgress(c.Request.Context(), courseID, learnerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProgress returns the learner's stored course progress
// @Summary Get progress
// @Tags progress
// @Produce json
// @Param id path uint true "Course ID"
// @Param learner_id query uint true "Learner ID"
// @Success 200 {object} services.ProgressResult
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	learnerID := h.parseLearnerQuery(c)
	if learnerID == 0 {
		return
	}

	result, err := h.progressService.GetProgress(c.Request.Context(), courseID, learnerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStreak returns the learner's current and longest daily activity streaks
// @Summary Get activity streak
// @Tags progress
// @Produce json
// @Param id path uint true "Learner ID"
// @Success 200 {object} services.StreakResult
// @Router /learners/{id}/streak [get]
func (h *ProgressHandler) GetStreak(c *gin.Context) {
	learnerID := h.parseIDParam(c, "id")
	if learnerID == 0 {
		return
	}

	result, err := h.streakService.ComputeStreak(c.Request.Context(), learnerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
