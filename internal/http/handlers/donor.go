package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/http/response"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

type DonorHandler struct {
	donors services.DonorService
}

func NewDonorHandler(donors services.DonorService) *DonorHandler {
	return &DonorHandler{donors: donors}
}

// POST /api/orgs/:orgID/donors
func (h *DonorHandler) CreateDonor(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	var req services.CreateDonorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	donor, err := h.donors.Create(c.Request.Context(), oid, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"donor": donor})
}

// GET /api/orgs/:orgID/donors
func (h *DonorHandler) ListDonors(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	filter := repos.DonorListFilter{
		Level:  c.Query("level"),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	donors, err := h.donors.List(c.Request.Context(), oid, filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"donors": donors})
}

// GET /api/orgs/:orgID/donors/:donorID
func (h *DonorHandler) GetDonor(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	did, ok := pathUUID(c, "donorID", "invalid_donor_id")
	if !ok {
		return
	}
	donor, err := h.donors.Get(c.Request.Context(), oid, did)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"donor": donor})
}

// PATCH /api/orgs/:orgID/donors/:donorID
func (h *DonorHandler) UpdateDonor(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	did, ok := pathUUID(c, "donorID", "invalid_donor_id")
	if !ok {
		return
	}
	var req services.UpdateDonorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	donor, err := h.donors.Update(c.Request.Context(), oid, did, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"donor": donor})
}

// DELETE /api/orgs/:orgID/donors/:donorID
func (h *DonorHandler) DeleteDonor(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	did, ok := pathUUID(c, "donorID", "invalid_donor_id")
	if !ok {
		return
	}
	if err := h.donors.Delete(c.Request.Context(), oid, did); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

type addExclusionTagRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// POST /api/orgs/:orgID/donors/:donorID/exclusion-tags
func (h *DonorHandler) AddExclusionTag(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	did, ok := pathUUID(c, "donorID", "invalid_donor_id")
	if !ok {
		return
	}
	var req addExclusionTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	tag, err := h.donors.AddExclusionTag(c.Request.Context(), oid, did, req.Reason)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"exclusion_tag": tag})
}

// GET /api/orgs/:orgID/donors/:donorID/exclusion-tags
func (h *DonorHandler) ListExclusionTags(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	did, ok := pathUUID(c, "donorID", "invalid_donor_id")
	if !ok {
		return
	}
	tags, err := h.donors.ListExclusionTags(c.Request.Context(), oid, did, !queryBool(c, "include_inactive"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"exclusion_tags": tags})
}

// DELETE /api/orgs/:orgID/exclusion-tags/:tagID
func (h *DonorHandler) RemoveExclusionTag(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	tid, ok := pathUUID(c, "tagID", "invalid_tag_id")
	if !ok {
		return
	}
	if err := h.donors.RemoveExclusionTag(c.Request.Context(), oid, tid); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deactivated": true})
}
