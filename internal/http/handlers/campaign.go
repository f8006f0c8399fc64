package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/http/response"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

type CampaignHandler struct {
	campaigns services.CampaignService
	analytics services.AnalyticsService
}

func NewCampaignHandler(campaigns services.CampaignService, analytics services.AnalyticsService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, analytics: analytics}
}

// POST /api/orgs/:orgID/campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	var req services.CreateCampaignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	campaign, err := h.campaigns.Create(c.Request.Context(), oid, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"campaign": campaign})
}

// GET /api/orgs/:orgID/campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	filter := repos.CampaignListFilter{
		Status: c.Query("status"),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	campaigns, err := h.campaigns.List(c.Request.Context(), oid, filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"campaigns": campaigns})
}

// GET /api/orgs/:orgID/campaigns/:campaignID
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	cid, ok := pathUUID(c, "campaignID", "invalid_campaign_id")
	if !ok {
		return
	}
	campaign, err := h.campaigns.Get(c.Request.Context(), oid, cid)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"campaign": campaign})
}

// PATCH /api/orgs/:orgID/campaigns/:campaignID
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	cid, ok := pathUUID(c, "campaignID", "invalid_campaign_id")
	if !ok {
		return
	}
	var req services.UpdateCampaignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	campaign, err := h.campaigns.Update(c.Request.Context(), oid, cid, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"campaign": campaign})
}

// GET /api/orgs/:orgID/analytics/campaigns/:campaignID/progress
func (h *CampaignHandler) CampaignProgress(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	cid, ok := pathUUID(c, "campaignID", "invalid_campaign_id")
	if !ok {
		return
	}
	progress, err := h.analytics.CampaignProgress(c.Request.Context(), oid, cid)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}
