package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/http/response"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
)

type OrgHandler struct {
	orgRepo repos.OrganizationRepo
}

func NewOrgHandler(orgRepo repos.OrganizationRepo) *OrgHandler {
	return &OrgHandler{orgRepo: orgRepo}
}

type createOrgRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Timezone string `json:"timezone"`
}

// POST /api/orgs
func (h *OrgHandler) CreateOrg(c *gin.Context) {
	var req createOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if _, err := h.orgRepo.GetBySlug(dbc, req.Slug); err == nil {
		response.RespondError(c, http.StatusConflict, "slug_taken", errors.New("slug already in use"))
		return
	}
	org := &types.Organization{
		Name:     req.Name,
		Slug:     req.Slug,
		Timezone: req.Timezone,
		Active:   true,
	}
	if _, err := h.orgRepo.Create(dbc, []*types.Organization{org}); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"organization": org})
}

// GET /api/orgs/:orgID
func (h *OrgHandler) GetOrg(c *gin.Context) {
	id, ok := orgID(c)
	if !ok {
		return
	}
	org, err := h.orgRepo.GetByID(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, "org_not_found", err)
			return
		}
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"organization": org})
}

// GET /api/orgs
func (h *OrgHandler) ListOrgs(c *gin.Context) {
	orgs, err := h.orgRepo.ListActive(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"organizations": orgs})
}
