package donors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/altruvue/fundraiser-backend/internal/data/repos/testutil"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
)

func TestDonationRepoWindowTotals(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewDonationRepo(db, testutil.Logger(t))

	org := testutil.SeedOrganization(t, ctx, tx, "donation-windows")
	donor := testutil.SeedDonor(t, ctx, tx, org.ID)

	runAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Current window (0-12 months back).
	testutil.SeedDonation(t, ctx, tx, org.ID, donor.ID, "100", runAt.AddDate(0, -2, 0))
	testutil.SeedDonation(t, ctx, tx, org.ID, donor.ID, "150.25", runAt.AddDate(0, -11, 0))
	// Last window (12-24 months back).
	testutil.SeedDonation(t, ctx, tx, org.ID, donor.ID, "500", runAt.AddDate(0, -18, 0))
	// Two-years-ago window (24-36 months back).
	testutil.SeedDonation(t, ctx, tx, org.ID, donor.ID, "750", runAt.AddDate(0, -30, 0))
	// Older window (36-48 months back).
	testutil.SeedDonation(t, ctx, tx, org.ID, donor.ID, "1000", runAt.AddDate(0, -40, 0))
	// Outside all windows: counts toward largest gift only.
	testutil.SeedDonation(t, ctx, tx, org.ID, donor.ID, "2000", runAt.AddDate(-5, 0, 0))

	rows, err := repo.WindowTotals(dbc, org.ID, runAt)
	if err != nil {
		t.Fatalf("WindowTotals: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("WindowTotals: expected 1 row, got %d", len(rows))
	}
	row := rows[0]

	if row.DonorID != donor.ID {
		t.Fatalf("DonorID: expected %s, got %s", donor.ID, row.DonorID)
	}
	if want := decimal.RequireFromString("250.25"); !row.CurrentYearTotal.Equal(want) {
		t.Fatalf("CurrentYearTotal: expected %s, got %s", want, row.CurrentYearTotal)
	}
	if want := decimal.RequireFromString("500"); !row.LastYearTotal.Equal(want) {
		t.Fatalf("LastYearTotal: expected %s, got %s", want, row.LastYearTotal)
	}
	if want := decimal.RequireFromString("750"); !row.TwoYearsAgoTotal.Equal(want) {
		t.Fatalf("TwoYearsAgoTotal: expected %s, got %s", want, row.TwoYearsAgoTotal)
	}
	if want := decimal.RequireFromString("1000"); !row.OlderYearTotal.Equal(want) {
		t.Fatalf("OlderYearTotal: expected %s, got %s", want, row.OlderYearTotal)
	}
	if want := decimal.RequireFromString("2000"); !row.LargestGiftAmount.Equal(want) {
		t.Fatalf("LargestGiftAmount: expected %s, got %s", want, row.LargestGiftAmount)
	}
	if want := decimal.RequireFromString("4500.25"); !row.LifetimeTotal.Equal(want) {
		t.Fatalf("LifetimeTotal: expected %s, got %s", want, row.LifetimeTotal)
	}
	if row.LastGiftDate == nil {
		t.Fatalf("LastGiftDate: expected non-nil")
	}
}

func TestDonationRepoWindowEdges(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewDonationRepo(db, testutil.Logger(t))

	org := testutil.SeedOrganization(t, ctx, tx, "donation-edges")
	donor := testutil.SeedDonor(t, ctx, tx, org.ID)

	runAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	boundary := runAt.AddDate(-1, 0, 0)

	// A donation exactly 12 months back lands in the last-year window, not
	// the current one (windows are half-open on the older edge).
	testutil.SeedDonation(t, ctx, tx, org.ID, donor.ID, "300", boundary)

	rows, err := repo.WindowTotals(dbc, org.ID, runAt)
	if err != nil {
		t.Fatalf("WindowTotals: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("WindowTotals: expected 1 row, got %d", len(rows))
	}
	if !rows[0].CurrentYearTotal.IsZero() {
		t.Fatalf("CurrentYearTotal: expected 0, got %s", rows[0].CurrentYearTotal)
	}
	if want := decimal.RequireFromString("300"); !rows[0].LastYearTotal.Equal(want) {
		t.Fatalf("LastYearTotal: expected %s, got %s", want, rows[0].LastYearTotal)
	}
}

func TestDonationRepoCampaignAndRetention(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewDonationRepo(db, testutil.Logger(t))

	org := testutil.SeedOrganization(t, ctx, tx, "donation-analytics")
	campaign := testutil.SeedCampaign(t, ctx, tx, org.ID, "active")

	retained := testutil.SeedDonor(t, ctx, tx, org.ID)
	lapsed := testutil.SeedDonor(t, ctx, tx, org.ID)

	runAt := time.Now().UTC()

	// Both donors gave in the previous annual window; only one came back.
	testutil.SeedDonation(t, ctx, tx, org.ID, retained.ID, "50", runAt.AddDate(0, -15, 0))
	testutil.SeedDonation(t, ctx, tx, org.ID, lapsed.ID, "75", runAt.AddDate(0, -14, 0))
	cur := &types.Donation{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		DonorID:        retained.ID,
		CampaignID:     &campaign.ID,
		Amount:         decimal.RequireFromString("60"),
		DonationDate:   runAt.AddDate(0, -1, 0),
	}
	if err := tx.WithContext(ctx).Create(cur).Error; err != nil {
		t.Fatalf("seed campaign donation: %v", err)
	}

	totals, err := repo.CampaignTotals(dbc, org.ID, campaign.ID)
	if err != nil {
		t.Fatalf("CampaignTotals: %v", err)
	}
	if want := decimal.RequireFromString("60"); !totals.Raised.Equal(want) {
		t.Fatalf("Raised: expected %s, got %s", want, totals.Raised)
	}
	if totals.DonorCount != 1 {
		t.Fatalf("DonorCount: expected 1, got %d", totals.DonorCount)
	}

	retention, err := repo.RetentionCounts(dbc, org.ID, runAt)
	if err != nil {
		t.Fatalf("RetentionCounts: %v", err)
	}
	if retention.LastWindowDonors != 2 {
		t.Fatalf("LastWindowDonors: expected 2, got %d", retention.LastWindowDonors)
	}
	if retention.RetainedDonors != 1 {
		t.Fatalf("RetainedDonors: expected 1, got %d", retention.RetainedDonors)
	}
}
