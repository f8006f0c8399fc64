package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/altruvue/fundraiser-backend/internal/http/response"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GET /api/orgs/:orgID/jobs/:jobID
func (h *JobHandler) GetJob(c *gin.Context) {
	oid, ok := orgID(c)
	if !ok {
		return
	}
	jid, ok := pathUUID(c, "jobID", "invalid_job_id")
	if !ok {
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), oid, jid)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
