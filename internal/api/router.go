package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jskelly/legisync/internal/api/handler"
	"github.com/jskelly/legisync/internal/api/middleware"
	"github.com/jskelly/legisync/internal/logger"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	importHandler *handler.ImportHandler,
	log *logger.Logger,
	mode string,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(recovery(log))
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS())

	// Create handlers
	healthHandler := handler.NewHealthHandler()

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Import trigger: schedulers call GET, manual invocations may POST
		v1.GET("/import/legislators", importHandler.ImportLegislators)
		v1.POST("/import/legislators", importHandler.ImportLegislators)

		// Import status
		v1.GET("/import/status", importHandler.Status)
	}

	return r
}

// recovery converts an unhandled panic anywhere below the handler into a
// diagnostic 500 response instead of tearing down the connection.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.WithField("panic", recovered).Error("Unhandled error in request handler")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"message":   "internal server error",
			"type":      "unhandled",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
