package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supportcentre/supportcentre-go/internal/application/services"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/performance"
	"github.com/supportcentre/supportcentre-go/internal/presentation/http/middleware"
)

// CommentRequest is the body of a comment submission.
type CommentRequest struct {
	Text string `json:"text"`
}

// CommentHandlers contains the comment listing and submission endpoints.
type CommentHandlers struct {
	commentService *services.CommentService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewCommentHandlers creates comment handlers with injected dependencies
func NewCommentHandlers(commentService *services.CommentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CommentHandlers {
	return &CommentHandlers{
		commentService: commentService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// ListComments returns a resource's comments newest first.
func (h *CommentHandlers) ListComments(c *gin.Context) {
	start := time.Now()
	resourceID := c.Param("resourceId")

	marker := h.perfTracker.StartOperation("list_comments_request")
	defer marker.Complete()

	comments, err := h.commentService.List(resourceID)
	if err != nil {
		h.logger.Comment().Error("Comment list request failed", "resourceId", resourceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Comment().Debug("Comment list request completed", "resourceId", resourceID, "count", len(comments), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"resourceId": resourceID, "comments": comments})
}

// AddComment validates and stores a new comment, returning it with 201.
func (h *CommentHandlers) AddComment(c *gin.Context) {
	start := time.Now()
	resourceID := c.Param("resourceId")
	visitorID := middleware.GetVisitorID(c)

	marker := h.perfTracker.StartOperation("add_comment_request")
	defer marker.Complete()

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.commentService.Add(visitorID, resourceID, req.Text)
	if err != nil {
		if services.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Comment().Error("Comment request failed", "resourceId", resourceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store comment"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Comment().Info("Comment request completed", "resourceId", resourceID, "commentId", comment.ID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, comment)
}
