package scoring

import (
	"context"
	"testing"

	"github.com/altruvue/fundraiser-backend/internal/data/repos/testutil"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
)

func TestActivateGenerationSwap(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPriorityCacheRepo(db, testutil.Logger(t))

	org := testutil.SeedOrganization(t, ctx, tx, "cache-swap")
	d1 := testutil.SeedDonor(t, ctx, tx, org.ID)
	d2 := testutil.SeedDonor(t, ctx, tx, org.ID)

	oldGen := testutil.SeedGeneration(t, ctx, tx, org.ID, types.GenerationStatusCurrent)
	testutil.SeedCacheEntry(t, ctx, tx, org.ID, d1.ID, oldGen.ID, true)
	testutil.SeedCacheEntry(t, ctx, tx, org.ID, d2.ID, oldGen.ID, true)

	newGen := testutil.SeedGeneration(t, ctx, tx, org.ID, types.GenerationStatusBuilding)
	testutil.SeedCacheEntry(t, ctx, tx, org.ID, d1.ID, newGen.ID, false)
	testutil.SeedCacheEntry(t, ctx, tx, org.ID, d2.ID, newGen.ID, false)

	if err := repo.ActivateGeneration(dbc, org.ID, newGen.ID); err != nil {
		t.Fatalf("ActivateGeneration: %v", err)
	}

	// Exactly one current entry per donor, all from the new generation.
	for _, donorID := range []interface{}{d1.ID, d2.ID} {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&types.PriorityCacheEntry{}).
			Where("organization_id = ? AND donor_id = ? AND is_current = ?", org.ID, donorID, true).
			Count(&count).Error; err != nil {
			t.Fatalf("count current entries: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected exactly 1 current entry for donor %v, got %d", donorID, count)
		}
	}

	current, err := repo.ListCurrentEntries(dbc, org.ID, OpportunityFilter{})
	if err != nil {
		t.Fatalf("ListCurrentEntries: %v", err)
	}
	if len(current) != 2 {
		t.Fatalf("expected 2 current entries, got %d", len(current))
	}
	for _, e := range current {
		if e.GenerationID != newGen.ID {
			t.Fatalf("current entry %s belongs to generation %s, expected %s", e.ID, e.GenerationID, newGen.ID)
		}
	}

	// Old rows are retired, not deleted.
	var total int64
	if err := tx.WithContext(ctx).
		Model(&types.PriorityCacheEntry{}).
		Where("organization_id = ?", org.ID).
		Count(&total).Error; err != nil {
		t.Fatalf("count all entries: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 total entries, got %d", total)
	}

	gens, err := repo.ListGenerations(dbc, org.ID, 0)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	statuses := map[string]string{}
	for _, g := range gens {
		statuses[g.ID.String()] = g.Status
	}
	if statuses[newGen.ID.String()] != types.GenerationStatusCurrent {
		t.Fatalf("new generation status: expected current, got %q", statuses[newGen.ID.String()])
	}
	if statuses[oldGen.ID.String()] != types.GenerationStatusRetired {
		t.Fatalf("old generation status: expected retired, got %q", statuses[oldGen.ID.String()])
	}
}

func TestListCurrentEntriesFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPriorityCacheRepo(db, testutil.Logger(t))

	org := testutil.SeedOrganization(t, ctx, tx, "cache-filters")
	gen := testutil.SeedGeneration(t, ctx, tx, org.ID, types.GenerationStatusCurrent)

	plain := testutil.SeedDonor(t, ctx, tx, org.ID)
	tagged := testutil.SeedDonor(t, ctx, tx, org.ID)

	testutil.SeedCacheEntry(t, ctx, tx, org.ID, plain.ID, gen.ID, true)
	taggedEntry := testutil.SeedCacheEntry(t, ctx, tx, org.ID, tagged.ID, gen.ID, true)
	if err := tx.WithContext(ctx).
		Model(&types.PriorityCacheEntry{}).
		Where("id = ?", taggedEntry.ID).
		Update("has_exclusion_tag", true).Error; err != nil {
		t.Fatalf("mark entry excluded: %v", err)
	}

	visible, err := repo.ListCurrentEntries(dbc, org.ID, OpportunityFilter{})
	if err != nil {
		t.Fatalf("ListCurrentEntries: %v", err)
	}
	if len(visible) != 1 || visible[0].DonorID != plain.ID {
		t.Fatalf("default listing should hide excluded donors, got %d rows", len(visible))
	}

	all, err := repo.ListCurrentEntries(dbc, org.ID, OpportunityFilter{IncludeExcluded: true})
	if err != nil {
		t.Fatalf("ListCurrentEntries include excluded: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows with IncludeExcluded, got %d", len(all))
	}

	entry, err := repo.GetCurrentEntryByDonor(dbc, org.ID, tagged.ID)
	if err != nil {
		t.Fatalf("GetCurrentEntryByDonor: %v", err)
	}
	if !entry.HasExclusionTag {
		t.Fatalf("expected excluded entry for tagged donor")
	}

	dist, err := repo.LevelDistribution(dbc, org.ID)
	if err != nil {
		t.Fatalf("LevelDistribution: %v", err)
	}
	if len(dist) != 1 || dist[0].Count != 2 {
		t.Fatalf("LevelDistribution: expected one bucket of 2, got %+v", dist)
	}
}
