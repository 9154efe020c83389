package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gstledger/internal/client/woocommerce"
	"gstledger/internal/config"
	"gstledger/internal/logger"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendError logs the error and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// sendPipelineError maps pipeline failures onto HTTP status codes: upstream
// transport failures are a bad gateway, configuration problems a server
// error, everything else internal.
func sendPipelineError(c *gin.Context, err error) {
	switch err.(type) {
	case *woocommerce.TransportError:
		sendError(c, http.StatusBadGateway, "Failed to fetch orders from the commerce platform", err)
	case *config.ConfigError:
		sendError(c, http.StatusInternalServerError, "Service is misconfigured", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
