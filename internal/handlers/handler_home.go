package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerHomeRoutes sets up the root and health check routes.
func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "fintrack-backend"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
}
