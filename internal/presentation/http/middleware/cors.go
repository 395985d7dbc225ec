package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the feedback widget to call the API from any site
// embedding it. Visitor identity travels in a custom header, not cookies, so
// credentials stay off.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Visitor-Id", "X-Requested-With",
		},
		ExposeHeaders: []string{
			"Content-Type",
		},
		MaxAge: 12 * time.Hour,
	}

	return cors.New(config)
}
