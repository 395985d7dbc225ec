// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/supportcentre/supportcentre-go/internal/application/container"
	"github.com/supportcentre/supportcentre-go/internal/presentation/http/handlers"
	"github.com/supportcentre/supportcentre-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.VisitorMiddleware())

	feedbackHandlers := handlers.NewFeedbackHandlers(container.FeedbackService, container.Logger, container.PerfTracker)
	commentHandlers := handlers.NewCommentHandlers(container.CommentService, container.Logger, container.PerfTracker)
	sysopHandlers := handlers.NewSysOpHandlers(container.SysOpService, container.Broadcaster, container.Logger)

	// Widget-facing endpoints
	r.GET("/feedback", feedbackHandlers.GetAllFeedback)
	r.GET("/feedback/:resourceId", feedbackHandlers.GetFeedback)
	r.POST("/feedback/:resourceId/vote", feedbackHandlers.SubmitVote)
	r.GET("/comments/:resourceId", commentHandlers.ListComments)
	r.POST("/comments/:resourceId", commentHandlers.AddComment)

	// Sysop dashboard endpoints
	sysopAPI := r.Group("/api/sysop")
	{
		sysopAPI.POST("/login", sysopHandlers.Login)

		sysopAPI.Use(sysopHandlers.AuthMiddleware())
		{
			sysopAPI.GET("/activity", sysopHandlers.GetActivityStats)
			sysopAPI.GET("/logs/levels", sysopHandlers.GetLogLevels)
			sysopAPI.POST("/logs/levels", sysopHandlers.SetLogLevel)
			sysopAPI.GET("/feedback/stream", sysopHandlers.StreamFeedback)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}
