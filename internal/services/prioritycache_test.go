package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/data/repos/testutil"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/scoring"
)

func newRefreshHarness(t *testing.T) (*gorm.DB, PriorityCacheService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	donorRepo := repos.NewDonorRepo(db, log)
	donationRepo := repos.NewDonationRepo(db, log)
	tagRepo := repos.NewExclusionTagRepo(db, log)
	cacheRepo := repos.NewPriorityCacheRepo(db, log)

	svc := NewPriorityCacheService(
		db, log,
		scoring.NewEngine(scoring.DefaultThresholds()),
		donorRepo, donationRepo, tagRepo, cacheRepo,
		nil,
	)
	return db, svc
}

func seedRefreshOrg(t *testing.T, db *gorm.DB) *types.Organization {
	t.Helper()
	ctx := context.Background()
	org := testutil.SeedOrganization(t, ctx, db, "refresh-"+uuid.NewString())
	t.Cleanup(func() {
		for _, model := range []interface{}{
			&types.PriorityCacheEntry{},
			&types.ScoreGeneration{},
			&types.ExclusionTag{},
			&types.Donation{},
			&types.Donor{},
		} {
			db.Unscoped().Where("organization_id = ?", org.ID).Delete(model)
		}
		db.Unscoped().Where("id = ?", org.ID).Delete(&types.Organization{})
	})
	return org
}

func TestRefreshOrganization(t *testing.T) {
	db, svc := newRefreshHarness(t)
	ctx := context.Background()
	org := seedRefreshOrg(t, db)

	runAt := time.Now().UTC()

	// Lapsed donor: gave last window only.
	lapsed := testutil.SeedDonor(t, ctx, db, org.ID)
	testutil.SeedDonation(t, ctx, db, org.ID, lapsed.ID, "500", runAt.AddDate(0, -15, 0))

	// Declining donor: 1000 last window, 400 this window.
	declining := testutil.SeedDonor(t, ctx, db, org.ID)
	testutil.SeedDonation(t, ctx, db, org.ID, declining.ID, "1000", runAt.AddDate(0, -14, 0))
	testutil.SeedDonation(t, ctx, db, org.ID, declining.ID, "400", runAt.AddDate(0, -2, 0))

	// Excluded donor: current giving plus an active exclusion tag.
	excluded := testutil.SeedDonor(t, ctx, db, org.ID)
	testutil.SeedDonation(t, ctx, db, org.ID, excluded.ID, "250", runAt.AddDate(0, -1, 0))
	testutil.SeedExclusionTag(t, ctx, db, org.ID, excluded.ID, true)

	report, err := svc.RefreshOrganization(ctx, org.ID, runAt)
	if err != nil {
		t.Fatalf("RefreshOrganization: %v", err)
	}
	if report.DonorCount != 3 {
		t.Fatalf("DonorCount: expected 3, got %d", report.DonorCount)
	}
	if report.SkippedCount != 0 {
		t.Fatalf("SkippedCount: expected 0, got %d", report.SkippedCount)
	}

	lapsedEntry, err := svc.GetDonorEntry(ctx, org.ID, lapsed.ID)
	if err != nil {
		t.Fatalf("GetDonorEntry lapsed: %v", err)
	}
	if lapsedEntry.PriorityLevel != "priority_1" {
		t.Fatalf("lapsed priority: expected priority_1, got %q", lapsedEntry.PriorityLevel)
	}
	if want := decimal.RequireFromString("500"); !lapsedEntry.OpportunityAmount.Equal(want) {
		t.Fatalf("lapsed opportunity: expected %s, got %s", want, lapsedEntry.OpportunityAmount)
	}

	decliningEntry, err := svc.GetDonorEntry(ctx, org.ID, declining.ID)
	if err != nil {
		t.Fatalf("GetDonorEntry declining: %v", err)
	}
	if decliningEntry.PriorityLevel != "priority_2" {
		t.Fatalf("declining priority: expected priority_2, got %q", decliningEntry.PriorityLevel)
	}
	if want := decimal.RequireFromString("600"); !decliningEntry.OpportunityAmount.Equal(want) {
		t.Fatalf("declining opportunity: expected %s, got %s", want, decliningEntry.OpportunityAmount)
	}
	if decliningEntry.YoYPercentChange == nil || !decliningEntry.YoYPercentChange.Equal(decimal.RequireFromString("-60")) {
		t.Fatalf("declining YoY pct: expected -60, got %v", decliningEntry.YoYPercentChange)
	}

	// Excluded donors are scored and cached but hidden from default listings.
	opportunities, err := svc.ListOpportunities(ctx, org.ID, repos.OpportunityFilter{})
	if err != nil {
		t.Fatalf("ListOpportunities: %v", err)
	}
	for _, e := range opportunities {
		if e.DonorID == excluded.ID {
			t.Fatalf("excluded donor appeared in default opportunity listing")
		}
	}
	excludedEntry, err := svc.GetDonorEntry(ctx, org.ID, excluded.ID)
	if err != nil {
		t.Fatalf("GetDonorEntry excluded: %v", err)
	}
	if !excludedEntry.HasExclusionTag {
		t.Fatalf("excluded entry should carry the exclusion flag")
	}

	// Donor summary columns move with the refresh.
	var refreshed types.Donor
	if err := db.Where("id = ?", lapsed.ID).First(&refreshed).Error; err != nil {
		t.Fatalf("reload lapsed donor: %v", err)
	}
	if !refreshed.TotalDonated.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("lapsed TotalDonated: expected 500, got %s", refreshed.TotalDonated)
	}
	if refreshed.DonorLevel != "upper_donor" {
		t.Fatalf("lapsed DonorLevel: expected upper_donor, got %q", refreshed.DonorLevel)
	}

	// A second refresh retires the first generation and keeps exactly one
	// current entry per donor.
	report2, err := svc.RefreshOrganization(ctx, org.ID, runAt)
	if err != nil {
		t.Fatalf("second RefreshOrganization: %v", err)
	}
	if report2.GenerationID == report.GenerationID {
		t.Fatalf("expected a new generation id")
	}
	gens, err := svc.ListGenerations(ctx, org.ID, 10)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	byStatus := map[string]int{}
	for _, g := range gens {
		byStatus[g.Status]++
	}
	if byStatus[types.GenerationStatusCurrent] != 1 {
		t.Fatalf("expected exactly 1 current generation, got %d", byStatus[types.GenerationStatusCurrent])
	}
	if byStatus[types.GenerationStatusRetired] != 1 {
		t.Fatalf("expected 1 retired generation, got %d", byStatus[types.GenerationStatusRetired])
	}

	var currentCount int64
	if err := db.Model(&types.PriorityCacheEntry{}).
		Where("organization_id = ? AND is_current = ?", org.ID, true).
		Count(&currentCount).Error; err != nil {
		t.Fatalf("count current entries: %v", err)
	}
	if currentCount != 3 {
		t.Fatalf("expected 3 current entries after second refresh, got %d", currentCount)
	}
}

func TestRefreshAbortsWhenTooManySkipped(t *testing.T) {
	db, svc := newRefreshHarness(t)
	ctx := context.Background()
	org := seedRefreshOrg(t, db)

	runAt := time.Now().UTC()

	donor := testutil.SeedDonor(t, ctx, db, org.ID)
	// A negative amount slips past upstream validation only via direct load;
	// the engine rejects it and the skip ceiling aborts the run.
	bad := &types.Donation{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		DonorID:        donor.ID,
		Amount:         decimal.RequireFromString("-100"),
		DonationDate:   runAt.AddDate(0, -2, 0),
	}
	if err := db.Create(bad).Error; err != nil {
		t.Fatalf("seed bad donation: %v", err)
	}

	_, err := svc.RefreshOrganization(ctx, org.ID, runAt)
	if !errors.Is(err, ErrTooManySkipped) {
		t.Fatalf("expected ErrTooManySkipped, got %v", err)
	}

	gens, err := svc.ListGenerations(ctx, org.ID, 10)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	if len(gens) != 1 || gens[0].Status != types.GenerationStatusFailed {
		t.Fatalf("expected a single failed generation, got %+v", gens)
	}

	var currentCount int64
	if err := db.Model(&types.PriorityCacheEntry{}).
		Where("organization_id = ? AND is_current = ?", org.ID, true).
		Count(&currentCount).Error; err != nil {
		t.Fatalf("count current entries: %v", err)
	}
	if currentCount != 0 {
		t.Fatalf("failed refresh must not publish entries, got %d current", currentCount)
	}
}
