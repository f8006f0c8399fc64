package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
)

func SeedOrganization(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Organization {
	tb.Helper()
	o := &types.Organization{
		ID:       uuid.New(),
		Name:     "Org " + slug,
		Slug:     slug,
		Timezone: "UTC",
		Active:   true,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed organization: %v", err)
	}
	return o
}

func SeedDonor(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID) *types.Donor {
	tb.Helper()
	d := &types.Donor{
		ID:             uuid.New(),
		OrganizationID: orgID,
		FirstName:      "A",
		LastName:       "B",
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed donor: %v", err)
	}
	return d
}

func SeedDonation(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, donorID uuid.UUID, amount string, date time.Time) *types.Donation {
	tb.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		tb.Fatalf("parse amount %q: %v", amount, err)
	}
	dn := &types.Donation{
		ID:             uuid.New(),
		OrganizationID: orgID,
		DonorID:        donorID,
		Amount:         amt,
		DonationDate:   date,
	}
	if err := tx.WithContext(ctx).Create(dn).Error; err != nil {
		tb.Fatalf("seed donation: %v", err)
	}
	return dn
}

func SeedCampaign(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, status string) *types.Campaign {
	tb.Helper()
	c := &types.Campaign{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           "campaign",
		GoalAmount:     decimal.NewFromInt(10000),
		StartDate:      time.Now().AddDate(0, -1, 0),
		Status:         status,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed campaign: %v", err)
	}
	return c
}

func SeedExclusionTag(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, donorID uuid.UUID, active bool) *types.ExclusionTag {
	tb.Helper()
	t := &types.ExclusionTag{
		ID:             uuid.New(),
		OrganizationID: orgID,
		DonorID:        donorID,
		Reason:         "planned gift committed",
		Active:         active,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed exclusion tag: %v", err)
	}
	return t
}

func SeedGeneration(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, status string) *types.ScoreGeneration {
	tb.Helper()
	g := &types.ScoreGeneration{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Status:         status,
		RunAt:          time.Now(),
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed generation: %v", err)
	}
	return g
}

func SeedCacheEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID, donorID, genID uuid.UUID, isCurrent bool) *types.PriorityCacheEntry {
	tb.Helper()
	e := &types.PriorityCacheEntry{
		ID:                uuid.New(),
		OrganizationID:    orgID,
		DonorID:           donorID,
		GenerationID:      genID,
		DonorLevel:        "lower_donor",
		PriorityLevel:     "priority_5",
		OpportunityAmount: decimal.Zero,
		OpportunityBasis:  "20% growth opportunity",
		IsCurrent:         isCurrent,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed cache entry: %v", err)
	}
	return e
}
