package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/apierr"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type CreateCampaignInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	GoalAmount  decimal.Decimal `json:"goal_amount"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
}

type UpdateCampaignInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	GoalAmount  *decimal.Decimal `json:"goal_amount"`
	EndDate     *time.Time       `json:"end_date"`
	Status      *string          `json:"status"`
}

type CampaignService interface {
	Create(ctx context.Context, orgID uuid.UUID, in CreateCampaignInput) (*types.Campaign, error)
	Get(ctx context.Context, orgID, campaignID uuid.UUID) (*types.Campaign, error)
	List(ctx context.Context, orgID uuid.UUID, filter repos.CampaignListFilter) ([]*types.Campaign, error)
	Update(ctx context.Context, orgID, campaignID uuid.UUID, in UpdateCampaignInput) (*types.Campaign, error)
}

type campaignService struct {
	db           *gorm.DB
	log          *logger.Logger
	campaignRepo repos.CampaignRepo
}

func NewCampaignService(db *gorm.DB, baseLog *logger.Logger, campaignRepo repos.CampaignRepo) CampaignService {
	return &campaignService{
		db:           db,
		log:          baseLog.With("service", "CampaignService"),
		campaignRepo: campaignRepo,
	}
}

var validCampaignStatuses = map[string]bool{
	types.CampaignStatusDraft:     true,
	types.CampaignStatusActive:    true,
	types.CampaignStatusCompleted: true,
	types.CampaignStatusArchived:  true,
}

func (s *campaignService) Create(ctx context.Context, orgID uuid.UUID, in CreateCampaignInput) (*types.Campaign, error) {
	if in.Name == "" {
		return nil, apierr.BadRequest("campaign_name_required", errors.New("name is required"))
	}
	if in.GoalAmount.IsNegative() {
		return nil, apierr.BadRequest("campaign_goal_invalid", fmt.Errorf("goal_amount must not be negative, got %s", in.GoalAmount))
	}
	if in.StartDate.IsZero() {
		return nil, apierr.BadRequest("campaign_start_required", errors.New("start_date is required"))
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return nil, apierr.BadRequest("campaign_dates_invalid", errors.New("end_date precedes start_date"))
	}

	campaign := &types.Campaign{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           in.Name,
		Description:    in.Description,
		GoalAmount:     in.GoalAmount,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Status:         types.CampaignStatusDraft,
	}
	if _, err := s.campaignRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Campaign{campaign}); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	s.log.Info("campaign created", "org_id", orgID.String(), "campaign_id", campaign.ID.String())
	return campaign, nil
}

func (s *campaignService) Get(ctx context.Context, orgID, campaignID uuid.UUID) (*types.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(dbctx.Context{Ctx: ctx}, orgID, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("campaign_not_found", err)
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return campaign, nil
}

func (s *campaignService) List(ctx context.Context, orgID uuid.UUID, filter repos.CampaignListFilter) ([]*types.Campaign, error) {
	if filter.Status != "" && !validCampaignStatuses[filter.Status] {
		return nil, apierr.BadRequest("campaign_status_invalid", fmt.Errorf("unknown status %q", filter.Status))
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	campaigns, err := s.campaignRepo.List(dbctx.Context{Ctx: ctx}, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *campaignService) Update(ctx context.Context, orgID, campaignID uuid.UUID, in UpdateCampaignInput) (*types.Campaign, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.GoalAmount != nil {
		if in.GoalAmount.IsNegative() {
			return nil, apierr.BadRequest("campaign_goal_invalid", fmt.Errorf("goal_amount must not be negative, got %s", in.GoalAmount))
		}
		updates["goal_amount"] = *in.GoalAmount
	}
	if in.EndDate != nil {
		updates["end_date"] = *in.EndDate
	}
	if in.Status != nil {
		if !validCampaignStatuses[*in.Status] {
			return nil, apierr.BadRequest("campaign_status_invalid", fmt.Errorf("unknown status %q", *in.Status))
		}
		updates["status"] = *in.Status
	}
	if len(updates) == 0 {
		return s.Get(ctx, orgID, campaignID)
	}
	if _, err := s.Get(ctx, orgID, campaignID); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.UpdateFields(dbctx.Context{Ctx: ctx}, orgID, campaignID, updates); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return s.Get(ctx, orgID, campaignID)
}
