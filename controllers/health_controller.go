package controllers

import (
	"net/http"

	"stock-news/services/health"

	"github.com/gin-gonic/gin"
)

func NewHealthController(health health.Service) *HealthController {
	return &HealthController{health: health}
}

// GetHealth
// GET /api/health
func (hc *HealthController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, hc.health.Status())
}
