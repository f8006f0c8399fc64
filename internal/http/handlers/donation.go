package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/http/response"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

type DonationHandler struct {
	donations services.DonationService
}

func NewDonationHandler(donations services.DonationService) *DonationHandler {
	return &DonationHandler{donations: donations}
}

// POST /api/orgs/:orgID/donations
func (h *DonationHandler) RecordDonation(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	var req services.RecordDonationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	donation, err := h.donations.Record(c.Request.Context(), oid, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"donation": donation})
}

// GET /api/orgs/:orgID/donations
func (h *DonationHandler) ListDonations(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	filter := repos.DonationListFilter{
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("donor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_donor_id", err)
			return
		}
		filter.DonorID = &id
	}
	if v := c.Query("campaign_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_campaign_id", err)
			return
		}
		filter.CampaignID = &id
	}
	donations, err := h.donations.List(c.Request.Context(), oid, filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"donations": donations})
}
