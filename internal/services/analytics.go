package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type CampaignProgress struct {
	CampaignID   uuid.UUID        `json:"campaign_id"`
	GoalAmount   decimal.Decimal  `json:"goal_amount"`
	Raised       decimal.Decimal  `json:"raised"`
	PercentGoal  *decimal.Decimal `json:"percent_of_goal,omitempty"`
	DonorCount   int64            `json:"donor_count"`
	AdSpend      *decimal.Decimal `json:"ad_spend,omitempty"`
	CostPerGift  *decimal.Decimal `json:"cost_per_dollar_raised,omitempty"`
	SpendTracked bool             `json:"spend_tracked"`
}

type LevelBucket struct {
	DonorLevel string `json:"donor_level"`
	Count      int64  `json:"count"`
}

type RetentionSummary struct {
	LastWindowDonors int64            `json:"last_window_donors"`
	RetainedDonors   int64            `json:"retained_donors"`
	RetentionPercent *decimal.Decimal `json:"retention_percent,omitempty"`
}

// AnalyticsService reads derived reporting data. Ad spend is an optional
// capability: the service reports SpendTracked=false when no AdSpendRepo was
// wired at construction.
type AnalyticsService interface {
	CampaignProgress(ctx context.Context, orgID, campaignID uuid.UUID) (*CampaignProgress, error)
	DonorLevelDistribution(ctx context.Context, orgID uuid.UUID) ([]LevelBucket, error)
	Retention(ctx context.Context, orgID uuid.UUID) (*RetentionSummary, error)
}

type analyticsService struct {
	db           *gorm.DB
	log          *logger.Logger
	campaignRepo repos.CampaignRepo
	donationRepo repos.DonationRepo
	cacheRepo    repos.PriorityCacheRepo
	adSpendRepo  repos.AdSpendRepo
	stats        StatsCache
}

func NewAnalyticsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	campaignRepo repos.CampaignRepo,
	donationRepo repos.DonationRepo,
	cacheRepo repos.PriorityCacheRepo,
	adSpendRepo repos.AdSpendRepo,
	stats StatsCache,
) AnalyticsService {
	return &analyticsService{
		db:           db,
		log:          baseLog.With("service", "AnalyticsService"),
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		cacheRepo:    cacheRepo,
		adSpendRepo:  adSpendRepo,
		stats:        stats,
	}
}

func (s *analyticsService) CampaignProgress(ctx context.Context, orgID, campaignID uuid.UUID) (*CampaignProgress, error) {
	key := StatsKey(orgID, "campaign_progress:"+campaignID.String())
	if s.stats != nil {
		var cached CampaignProgress
		if hit, err := s.stats.GetJSON(ctx, key, &cached); err != nil {
			s.log.Warn("stats cache read failed", "key", key, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	campaign, err := s.campaignRepo.GetByID(dbc, orgID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}

	totals, err := s.donationRepo.CampaignTotals(dbc, orgID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign totals: %w", err)
	}

	progress := &CampaignProgress{
		CampaignID: campaignID,
		GoalAmount: campaign.GoalAmount,
		Raised:     totals.Raised,
		DonorCount: totals.DonorCount,
	}
	if campaign.GoalAmount.IsPositive() {
		pct := totals.Raised.Div(campaign.GoalAmount).Mul(decimal.NewFromInt(100))
		progress.PercentGoal = &pct
	}

	if s.adSpendRepo != nil {
		spend, err := s.adSpendRepo.SumByCampaign(dbc, orgID, campaignID)
		if err != nil {
			return nil, fmt.Errorf("campaign ad spend: %w", err)
		}
		progress.AdSpend = &spend
		progress.SpendTracked = true
		if totals.Raised.IsPositive() {
			cost := spend.Div(totals.Raised)
			progress.CostPerGift = &cost
		}
	}

	if s.stats != nil {
		if err := s.stats.SetJSON(ctx, key, progress, 0); err != nil {
			s.log.Warn("stats cache write failed", "key", key, "error", err)
		}
	}
	return progress, nil
}

func (s *analyticsService) DonorLevelDistribution(ctx context.Context, orgID uuid.UUID) ([]LevelBucket, error) {
	key := StatsKey(orgID, "level_distribution")
	if s.stats != nil {
		var cached []LevelBucket
		if hit, err := s.stats.GetJSON(ctx, key, &cached); err != nil {
			s.log.Warn("stats cache read failed", "key", key, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	counts, err := s.cacheRepo.LevelDistribution(dbctx.Context{Ctx: ctx}, orgID)
	if err != nil {
		return nil, fmt.Errorf("level distribution: %w", err)
	}
	buckets := make([]LevelBucket, 0, len(counts))
	for _, c := range counts {
		buckets = append(buckets, LevelBucket{DonorLevel: c.DonorLevel, Count: c.Count})
	}

	if s.stats != nil {
		if err := s.stats.SetJSON(ctx, key, buckets, 0); err != nil {
			s.log.Warn("stats cache write failed", "key", key, "error", err)
		}
	}
	return buckets, nil
}

func (s *analyticsService) Retention(ctx context.Context, orgID uuid.UUID) (*RetentionSummary, error) {
	key := StatsKey(orgID, "retention")
	if s.stats != nil {
		var cached RetentionSummary
		if hit, err := s.stats.GetJSON(ctx, key, &cached); err != nil {
			s.log.Warn("stats cache read failed", "key", key, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	counts, err := s.donationRepo.RetentionCounts(dbctx.Context{Ctx: ctx}, orgID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("retention counts: %w", err)
	}
	summary := &RetentionSummary{
		LastWindowDonors: counts.LastWindowDonors,
		RetainedDonors:   counts.RetainedDonors,
	}
	if counts.LastWindowDonors > 0 {
		pct := decimal.NewFromInt(counts.RetainedDonors).
			Div(decimal.NewFromInt(counts.LastWindowDonors)).
			Mul(decimal.NewFromInt(100))
		summary.RetentionPercent = &pct
	}

	if s.stats != nil {
		if err := s.stats.SetJSON(ctx, key, summary, 0); err != nil {
			s.log.Warn("stats cache write failed", "key", key, "error", err)
		}
	}
	return summary, nil
}
