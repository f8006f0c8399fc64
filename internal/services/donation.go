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

type RecordDonationInput struct {
	DonorID      uuid.UUID       `json:"donor_id"`
	CampaignID   *uuid.UUID      `json:"campaign_id"`
	Amount       decimal.Decimal `json:"amount"`
	DonationDate time.Time       `json:"donation_date"`
	Method       string          `json:"method"`
	Note         string          `json:"note"`
}

type DonationService interface {
	Record(ctx context.Context, orgID uuid.UUID, in RecordDonationInput) (*types.Donation, error)
	List(ctx context.Context, orgID uuid.UUID, filter repos.DonationListFilter) ([]*types.Donation, error)
}

type donationService struct {
	db           *gorm.DB
	log          *logger.Logger
	donorRepo    repos.DonorRepo
	donationRepo repos.DonationRepo
	campaignRepo repos.CampaignRepo
	stats        StatsCache
}

func NewDonationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	donorRepo repos.DonorRepo,
	donationRepo repos.DonationRepo,
	campaignRepo repos.CampaignRepo,
	stats StatsCache,
) DonationService {
	return &donationService{
		db:           db,
		log:          baseLog.With("service", "DonationService"),
		donorRepo:    donorRepo,
		donationRepo: donationRepo,
		campaignRepo: campaignRepo,
		stats:        stats,
	}
}

// Record appends an immutable donation event and keeps the donor's running
// total in step inside the same transaction. Level and window totals are
// left to the next cache refresh; only the raw running sum moves here.
func (s *donationService) Record(ctx context.Context, orgID uuid.UUID, in RecordDonationInput) (*types.Donation, error) {
	if !in.Amount.IsPositive() {
		return nil, apierr.BadRequest("donation_amount_invalid", fmt.Errorf("amount must be positive, got %s", in.Amount))
	}
	if in.DonationDate.IsZero() {
		return nil, apierr.BadRequest("donation_date_required", errors.New("donation_date is required"))
	}

	donor, err := s.donorRepo.GetByID(dbctx.Context{Ctx: ctx}, orgID, in.DonorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("donor_not_found", err)
		}
		return nil, fmt.Errorf("load donor: %w", err)
	}

	if in.CampaignID != nil {
		if _, err := s.campaignRepo.GetByID(dbctx.Context{Ctx: ctx}, orgID, *in.CampaignID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound("campaign_not_found", err)
			}
			return nil, fmt.Errorf("load campaign: %w", err)
		}
	}

	donation := &types.Donation{
		ID:             uuid.New(),
		OrganizationID: orgID,
		DonorID:        in.DonorID,
		CampaignID:     in.CampaignID,
		Amount:         in.Amount,
		DonationDate:   in.DonationDate,
		Method:         in.Method,
		Note:           in.Note,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.donationRepo.Create(dbc, []*types.Donation{donation}); err != nil {
			return fmt.Errorf("create donation: %w", err)
		}

		summary := repos.ScoringSummary{
			TotalDonated:      donor.TotalDonated.Add(in.Amount),
			DonorLevel:        donor.DonorLevel,
			LargestGiftAmount: donor.LargestGiftAmount,
			LastGiftDate:      donor.LastGiftDate,
		}
		if in.Amount.GreaterThan(donor.LargestGiftAmount) {
			summary.LargestGiftAmount = in.Amount
		}
		if donor.LastGiftDate == nil || in.DonationDate.After(*donor.LastGiftDate) {
			d := in.DonationDate
			summary.LastGiftDate = &d
		}
		if err := s.donorRepo.UpdateScoringSummary(dbc, orgID, in.DonorID, summary); err != nil {
			return fmt.Errorf("update donor summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.stats != nil {
		if err := s.stats.InvalidateOrg(ctx, orgID); err != nil {
			s.log.Warn("stats cache invalidation failed", "org_id", orgID.String(), "error", err)
		}
	}

	s.log.Info("donation recorded",
		"org_id", orgID.String(),
		"donor_id", in.DonorID.String(),
		"amount", in.Amount.String(),
	)
	return donation, nil
}

func (s *donationService) List(ctx context.Context, orgID uuid.UUID, filter repos.DonationListFilter) ([]*types.Donation, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	donations, err := s.donationRepo.List(dbctx.Context{Ctx: ctx}, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}
