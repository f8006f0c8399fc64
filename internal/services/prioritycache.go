package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/envutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
	"github.com/altruvue/fundraiser-backend/internal/scoring"
)

// RefreshReport summarizes one priority-cache refresh run.
type RefreshReport struct {
	GenerationID uuid.UUID `json:"generation_id"`
	RunAt        time.Time `json:"run_at"`
	DonorCount   int       `json:"donor_count"`
	SkippedCount int       `json:"skipped_count"`
	SkippedIDs   []string  `json:"skipped_ids,omitempty"`
	Duration     string    `json:"duration"`
}

// ErrTooManySkipped aborts a refresh when the skip fraction crosses the
// configured ceiling; a run that rejects that much of the donor base points
// at corrupted upstream data, not a few bad rows.
var ErrTooManySkipped = errors.New("refresh aborted: skipped donor fraction over limit")

type PriorityCacheService interface {
	RefreshOrganization(ctx context.Context, orgID uuid.UUID, runAt time.Time) (*RefreshReport, error)
	ScoreDonor(ctx context.Context, orgID, donorID uuid.UUID, runAt time.Time) (*scoring.Result, error)
	ListOpportunities(ctx context.Context, orgID uuid.UUID, filter repos.OpportunityFilter) ([]*types.PriorityCacheEntry, error)
	GetDonorEntry(ctx context.Context, orgID, donorID uuid.UUID) (*types.PriorityCacheEntry, error)
	ListGenerations(ctx context.Context, orgID uuid.UUID, limit int) ([]*types.ScoreGeneration, error)
}

type priorityCacheService struct {
	db           *gorm.DB
	log          *logger.Logger
	engine       *scoring.Engine
	donorRepo    repos.DonorRepo
	donationRepo repos.DonationRepo
	tagRepo      repos.ExclusionTagRepo
	cacheRepo    repos.PriorityCacheRepo
	stats        StatsCache

	concurrency  int
	skipFraction decimal.Decimal
}

func NewPriorityCacheService(
	db *gorm.DB,
	baseLog *logger.Logger,
	engine *scoring.Engine,
	donorRepo repos.DonorRepo,
	donationRepo repos.DonationRepo,
	tagRepo repos.ExclusionTagRepo,
	cacheRepo repos.PriorityCacheRepo,
	stats StatsCache,
) PriorityCacheService {
	return &priorityCacheService{
		db:           db,
		log:          baseLog.With("service", "PriorityCacheService"),
		engine:       engine,
		donorRepo:    donorRepo,
		donationRepo: donationRepo,
		tagRepo:      tagRepo,
		cacheRepo:    cacheRepo,
		stats:        stats,
		concurrency:  envutil.Int("SCORING_CONCURRENCY", 8),
		skipFraction: decimal.NewFromFloat(envutil.Float("SCORING_SKIP_FRACTION_LIMIT", 0.25)),
	}
}

// RefreshOrganization recomputes every donor's cache entry under a fresh
// generation and atomically swaps it in. Donors that fail validation are
// skipped and reported; the previous generation stays current if the run
// fails or skips too much of the donor base.
func (s *priorityCacheService) RefreshOrganization(ctx context.Context, orgID uuid.UUID, runAt time.Time) (*RefreshReport, error) {
	started := time.Now()
	if runAt.IsZero() {
		runAt = started.UTC()
	}
	dbc := dbctx.Context{Ctx: ctx}

	gen, err := s.cacheRepo.CreateGeneration(dbc, &types.ScoreGeneration{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Status:         types.GenerationStatusBuilding,
		RunAt:          runAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}

	report, err := s.buildGeneration(ctx, orgID, gen, runAt)
	if err != nil {
		failUpdates := map[string]interface{}{
			"status": types.GenerationStatusFailed,
			"error":  err.Error(),
		}
		if uErr := s.cacheRepo.UpdateGenerationFields(dbc, gen.ID, failUpdates); uErr != nil {
			s.log.Error("mark generation failed", "generation_id", gen.ID.String(), "error", uErr)
		}
		return nil, err
	}

	report.Duration = time.Since(started).String()
	s.log.Info("priority cache refreshed",
		"org_id", orgID.String(),
		"generation_id", gen.ID.String(),
		"donors", report.DonorCount,
		"skipped", report.SkippedCount,
		"duration", report.Duration,
	)

	if s.stats != nil {
		if err := s.stats.InvalidateOrg(ctx, orgID); err != nil {
			s.log.Warn("stats cache invalidation failed", "org_id", orgID.String(), "error", err)
		}
	}
	return report, nil
}

func (s *priorityCacheService) buildGeneration(ctx context.Context, orgID uuid.UUID, gen *types.ScoreGeneration, runAt time.Time) (*RefreshReport, error) {
	dbc := dbctx.Context{Ctx: ctx}

	donorIDs, err := s.donorRepo.ListIDs(dbc, orgID)
	if err != nil {
		return nil, fmt.Errorf("list donor ids: %w", err)
	}

	windowRows, err := s.donationRepo.WindowTotals(dbc, orgID, runAt)
	if err != nil {
		return nil, fmt.Errorf("window totals: %w", err)
	}
	windows := make(map[uuid.UUID]repos.DonorWindowTotals, len(windowRows))
	for _, row := range windowRows {
		windows[row.DonorID] = row
	}

	excludedIDs, err := s.tagRepo.ActiveDonorIDs(dbc, orgID)
	if err != nil {
		return nil, fmt.Errorf("active exclusion tags: %w", err)
	}
	excluded := make(map[uuid.UUID]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}

	var (
		mu      sync.Mutex
		entries = make([]*types.PriorityCacheEntry, 0, len(donorIDs))
		skipped []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, donorID := range donorIDs {
		donorID := donorID
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			w := windows[donorID]
			res, err := s.engine.Score(scoring.Input{
				DonorID:           donorID.String(),
				CurrentYearTotal:  w.CurrentYearTotal,
				LastYearTotal:     w.LastYearTotal,
				TwoYearsAgoTotal:  w.TwoYearsAgoTotal,
				OlderYearTotal:    w.OlderYearTotal,
				LargestGiftAmount: w.LargestGiftAmount,
				LastGiftDate:      w.LastGiftDate,
				HasExclusionTag:   excluded[donorID],
			})
			if err != nil {
				var vErr *scoring.ValidationError
				if errors.As(err, &vErr) {
					s.log.Warn("donor skipped", "org_id", orgID.String(), "donor_id", donorID.String(), "error", vErr.Error())
					mu.Lock()
					skipped = append(skipped, donorID.String())
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("score donor %s: %w", donorID, err)
			}

			entry := &types.PriorityCacheEntry{
				ID:                uuid.New(),
				OrganizationID:    orgID,
				DonorID:           donorID,
				GenerationID:      gen.ID,
				CurrentYearTotal:  w.CurrentYearTotal,
				LastYearTotal:     w.LastYearTotal,
				TwoYearsAgoTotal:  w.TwoYearsAgoTotal,
				OlderYearTotal:    w.OlderYearTotal,
				LargestGiftAmount: w.LargestGiftAmount,
				LastGiftDate:      w.LastGiftDate,
				DonorLevel:        string(res.DonorLevel),
				PriorityLevel:     string(res.PriorityLevel),
				OpportunityAmount: res.OpportunityAmount,
				OpportunityBasis:  res.OpportunityBasis,
				YoYDollarChange:   res.YoYDollarChange,
				YoYPercentChange:  res.YoYPercentChange,
				HasExclusionTag:   res.HasExclusionTag,
			}
			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(donorIDs) > 0 {
		fraction := decimal.NewFromInt(int64(len(skipped))).Div(decimal.NewFromInt(int64(len(donorIDs))))
		if fraction.GreaterThan(s.skipFraction) {
			return nil, fmt.Errorf("%w: %d of %d donors", ErrTooManySkipped, len(skipped), len(donorIDs))
		}
	}

	skippedJSON, _ := json.Marshal(skipped)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.cacheRepo.InsertEntries(txc, entries); err != nil {
			return fmt.Errorf("insert cache entries: %w", err)
		}
		if err := s.cacheRepo.UpdateGenerationFields(txc, gen.ID, map[string]interface{}{
			"donor_count":   len(entries),
			"skipped_count": len(skipped),
			"skipped_ids":   datatypes.JSON(skippedJSON),
		}); err != nil {
			return fmt.Errorf("update generation counts: %w", err)
		}
		if err := s.cacheRepo.ActivateGeneration(txc, orgID, gen.ID); err != nil {
			return fmt.Errorf("activate generation: %w", err)
		}
		for _, entry := range entries {
			summary := repos.ScoringSummary{
				TotalDonated:      windows[entry.DonorID].LifetimeTotal,
				DonorLevel:        entry.DonorLevel,
				LargestGiftAmount: entry.LargestGiftAmount,
				LastGiftDate:      entry.LastGiftDate,
			}
			if err := s.donorRepo.UpdateScoringSummary(txc, orgID, entry.DonorID, summary); err != nil {
				return fmt.Errorf("update donor summary %s: %w", entry.DonorID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RefreshReport{
		GenerationID: gen.ID,
		RunAt:        runAt,
		DonorCount:   len(entries),
		SkippedCount: len(skipped),
		SkippedIDs:   skipped,
	}, nil
}

// ScoreDonor runs the engine for one donor on the fly without touching the
// cache. Used for previews and spot checks.
func (s *priorityCacheService) ScoreDonor(ctx context.Context, orgID, donorID uuid.UUID, runAt time.Time) (*scoring.Result, error) {
	if runAt.IsZero() {
		runAt = time.Now().UTC()
	}
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.donorRepo.GetByID(dbc, orgID, donorID); err != nil {
		return nil, fmt.Errorf("load donor: %w", err)
	}

	windowRows, err := s.donationRepo.WindowTotals(dbc, orgID, runAt)
	if err != nil {
		return nil, fmt.Errorf("window totals: %w", err)
	}
	var w repos.DonorWindowTotals
	for _, row := range windowRows {
		if row.DonorID == donorID {
			w = row
			break
		}
	}

	tags, err := s.tagRepo.ListByDonor(dbc, orgID, donorID, true)
	if err != nil {
		return nil, fmt.Errorf("load exclusion tags: %w", err)
	}

	res, err := s.engine.Score(scoring.Input{
		DonorID:           donorID.String(),
		CurrentYearTotal:  w.CurrentYearTotal,
		LastYearTotal:     w.LastYearTotal,
		TwoYearsAgoTotal:  w.TwoYearsAgoTotal,
		OlderYearTotal:    w.OlderYearTotal,
		LargestGiftAmount: w.LargestGiftAmount,
		LastGiftDate:      w.LastGiftDate,
		HasExclusionTag:   len(tags) > 0,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *priorityCacheService) ListOpportunities(ctx context.Context, orgID uuid.UUID, filter repos.OpportunityFilter) ([]*types.PriorityCacheEntry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	entries, err := s.cacheRepo.ListCurrentEntries(dbctx.Context{Ctx: ctx}, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	return entries, nil
}

func (s *priorityCacheService) GetDonorEntry(ctx context.Context, orgID, donorID uuid.UUID) (*types.PriorityCacheEntry, error) {
	entry, err := s.cacheRepo.GetCurrentEntryByDonor(dbctx.Context{Ctx: ctx}, orgID, donorID)
	if err != nil {
		return nil, fmt.Errorf("get donor entry: %w", err)
	}
	return entry, nil
}

func (s *priorityCacheService) ListGenerations(ctx context.Context, orgID uuid.UUID, limit int) ([]*types.ScoreGeneration, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	gens, err := s.cacheRepo.ListGenerations(dbctx.Context{Ctx: ctx}, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return gens, nil
}
