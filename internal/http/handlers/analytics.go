package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/altruvue/fundraiser-backend/internal/http/response"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/orgs/:orgID/analytics/donor-levels
func (h *AnalyticsHandler) LevelDistribution(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	buckets, err := h.analytics.DonorLevelDistribution(c.Request.Context(), oid)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"levels": buckets})
}

// GET /api/orgs/:orgID/analytics/retention
func (h *AnalyticsHandler) Retention(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	summary, err := h.analytics.Retention(c.Request.Context(), oid)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"retention": summary})
}
