package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/http/response"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

type PriorityHandler struct {
	cache services.PriorityCacheService
	jobs  services.JobService
}

func NewPriorityHandler(cache services.PriorityCacheService, jobs services.JobService) *PriorityHandler {
	return &PriorityHandler{cache: cache, jobs: jobs}
}

// GET /api/orgs/:orgID/priority/opportunities
func (h *PriorityHandler) ListOpportunities(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	filter := repos.OpportunityFilter{
		PriorityLevel:   c.Query("priority"),
		IncludeExcluded: queryBool(c, "include_excluded"),
		Limit:           queryInt(c, "limit", 100),
		Offset:          queryInt(c, "offset", 0),
	}
	entries, err := h.cache.ListOpportunities(c.Request.Context(), oid, filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"opportunities": entries})
}

// GET /api/orgs/:orgID/priority/donors/:donorID
func (h *PriorityHandler) GetDonorScore(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	did, ok := pathUUID(c, "donorID", "invalid_donor_id")
	if !ok {
		return
	}
	if queryBool(c, "live") {
		// Bypass the cache and score on the fly.
		res, err := h.cache.ScoreDonor(c.Request.Context(), oid, did, time.Now().UTC())
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"score": res, "cached": false})
		return
	}
	entry, err := h.cache.GetDonorEntry(c.Request.Context(), oid, did)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"score": entry, "cached": true})
}

// POST /api/orgs/:orgID/priority/refresh
func (h *PriorityHandler) EnqueueRefresh(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	job, err := h.jobs.EnqueueRefresh(c.Request.Context(), oid, time.Now().UTC())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job": job})
}

// GET /api/orgs/:orgID/priority/generations
func (h *PriorityHandler) ListGenerations(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	gens, err := h.cache.ListGenerations(c.Request.Context(), oid, queryInt(c, "limit", 20))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"generations": gens})
}
