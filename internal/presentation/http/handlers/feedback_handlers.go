// Package handlers provides HTTP handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supportcentre/supportcentre-go/internal/application/services"
	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/performance"
	"github.com/supportcentre/supportcentre-go/internal/presentation/http/middleware"
)

// VoteRequest is the body of a vote submission.
type VoteRequest struct {
	Vote string `json:"vote"`
}

// FeedbackHandlers contains the vote and feedback lookup endpoints.
type FeedbackHandlers struct {
	feedbackService *services.FeedbackService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewFeedbackHandlers creates feedback handlers with injected dependencies
func NewFeedbackHandlers(feedbackService *services.FeedbackService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *FeedbackHandlers {
	return &FeedbackHandlers{
		feedbackService: feedbackService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetAllFeedback returns vote and comment totals for every known resource.
func (h *FeedbackHandlers) GetAllFeedback(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_all_feedback_request")
	defer marker.Complete()

	totals, err := h.feedbackService.GetAllFeedback()
	if err != nil {
		h.logger.Feedback().Error("Bulk feedback request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feedback"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Feedback().Debug("Bulk feedback request completed", "resources", len(totals), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"feedback": totals})
}

// GetFeedback returns one resource's totals plus the caller's own vote.
func (h *FeedbackHandlers) GetFeedback(c *gin.Context) {
	start := time.Now()
	resourceID := c.Param("resourceId")
	visitorID := middleware.GetVisitorID(c)

	marker := h.perfTracker.StartOperation("get_feedback_request")
	defer marker.Complete()

	snapshot, err := h.feedbackService.GetFeedback(visitorID, resourceID)
	if err != nil {
		h.logger.Feedback().Error("Feedback request failed", "resourceId", resourceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feedback"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Feedback().Debug("Feedback request completed", "resourceId", resourceID, "duration", time.Since(start))
	c.JSON(http.StatusOK, snapshot)
}

// SubmitVote applies one visitor's like or dislike with toggle semantics.
func (h *FeedbackHandlers) SubmitVote(c *gin.Context) {
	start := time.Now()
	resourceID := c.Param("resourceId")
	visitorID := middleware.GetVisitorID(c)

	marker := h.perfTracker.StartOperation("submit_vote_request")
	defer marker.Complete()

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	snapshot, err := h.feedbackService.SubmitVote(visitorID, resourceID, feedback.VoteChoice(req.Vote))
	if err != nil {
		if services.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Feedback().Error("Vote request failed", "resourceId", resourceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Feedback().Info("Vote request completed", "resourceId", resourceID, "duration", time.Since(start))
	c.JSON(http.StatusOK, snapshot)
}
