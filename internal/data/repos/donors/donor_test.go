package donors

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/altruvue/fundraiser-backend/internal/data/repos/testutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
)

func TestDonorRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewDonorRepo(db, testutil.Logger(t))

	org := testutil.SeedOrganization(t, ctx, tx, "donor-repo-test")
	otherOrg := testutil.SeedOrganization(t, ctx, tx, "donor-repo-other")

	d1 := testutil.SeedDonor(t, ctx, tx, org.ID)
	d2 := testutil.SeedDonor(t, ctx, tx, org.ID)
	testutil.SeedDonor(t, ctx, tx, otherOrg.ID)

	got, err := repo.GetByID(dbc, org.ID, d1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != d1.ID {
		t.Fatalf("GetByID: expected %s, got %s", d1.ID, got.ID)
	}

	// Tenant scoping: a donor is not visible under another org.
	if _, err := repo.GetByID(dbc, otherOrg.ID, d1.ID); err == nil {
		t.Fatalf("GetByID: expected error for cross-org lookup")
	}

	count, err := repo.CountByOrg(dbc, org.ID)
	if err != nil {
		t.Fatalf("CountByOrg: %v", err)
	}
	if count != 2 {
		t.Fatalf("CountByOrg: expected 2, got %d", count)
	}

	ids, err := repo.ListIDs(dbc, org.ID)
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ListIDs: expected 2, got %d", len(ids))
	}

	lastGift := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	summary := ScoringSummary{
		TotalDonated:      decimal.RequireFromString("1250.50"),
		DonorLevel:        "mid_level",
		LargestGiftAmount: decimal.RequireFromString("1000"),
		LastGiftDate:      &lastGift,
	}
	if err := repo.UpdateScoringSummary(dbc, org.ID, d2.ID, summary); err != nil {
		t.Fatalf("UpdateScoringSummary: %v", err)
	}

	updated, err := repo.GetByID(dbc, org.ID, d2.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if !updated.TotalDonated.Equal(summary.TotalDonated) {
		t.Fatalf("TotalDonated: expected %s, got %s", summary.TotalDonated, updated.TotalDonated)
	}
	if updated.DonorLevel != "mid_level" {
		t.Fatalf("DonorLevel: expected mid_level, got %q", updated.DonorLevel)
	}
	if updated.LastGiftDate == nil || !updated.LastGiftDate.Equal(lastGift) {
		t.Fatalf("LastGiftDate: expected %v, got %v", lastGift, updated.LastGiftDate)
	}

	byLevel, err := repo.List(dbc, org.ID, DonorListFilter{Level: "mid_level"})
	if err != nil {
		t.Fatalf("List by level: %v", err)
	}
	if len(byLevel) != 1 || byLevel[0].ID != d2.ID {
		t.Fatalf("List by level: expected only %s, got %d rows", d2.ID, len(byLevel))
	}

	if err := repo.SoftDelete(dbc, org.ID, d1.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := repo.GetByID(dbc, org.ID, d1.ID); err == nil {
		t.Fatalf("GetByID: expected error after soft delete")
	}
	count, err = repo.CountByOrg(dbc, org.ID)
	if err != nil {
		t.Fatalf("CountByOrg after delete: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountByOrg after delete: expected 1, got %d", count)
	}
}
