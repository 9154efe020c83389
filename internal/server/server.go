package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gstledger/internal/handlers"
)

// InitializeRoutes wires the middleware and routes onto the router.
func InitializeRoutes(router *gin.Engine, exportHandler *handlers.ExportHandler) {
	router.Use(configureCORS())

	if os.Getenv("GIN_MODE") != "release" {
		router.Use(handlers.LogRequest())
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Export form UI
	router.GET("/", exportHandler.Form)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		exports := v1.Group("/exports")
		{
			exports.POST("", exportHandler.RunExport)
			exports.GET("/preview", exportHandler.Preview)
		}
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}

	return cors.New(corsConfig)
}
