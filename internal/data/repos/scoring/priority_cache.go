package scoring

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type OpportunityFilter struct {
	PriorityLevel   string
	IncludeExcluded bool
	Limit           int
	Offset          int
}

type LevelCount struct {
	DonorLevel string `gorm:"column:donor_level"`
	Count      int64  `gorm:"column:count"`
}

type PriorityCacheRepo interface {
	CreateGeneration(dbc dbctx.Context, gen *types.ScoreGeneration) (*types.ScoreGeneration, error)
	UpdateGenerationFields(dbc dbctx.Context, genID uuid.UUID, updates map[string]interface{}) error
	ListGenerations(dbc dbctx.Context, orgID uuid.UUID, limit int) ([]*types.ScoreGeneration, error)

	InsertEntries(dbc dbctx.Context, entries []*types.PriorityCacheEntry) error
	ActivateGeneration(dbc dbctx.Context, orgID, genID uuid.UUID) error

	ListCurrentEntries(dbc dbctx.Context, orgID uuid.UUID, filter OpportunityFilter) ([]*types.PriorityCacheEntry, error)
	GetCurrentEntryByDonor(dbc dbctx.Context, orgID, donorID uuid.UUID) (*types.PriorityCacheEntry, error)
	LevelDistribution(dbc dbctx.Context, orgID uuid.UUID) ([]LevelCount, error)
}

type priorityCacheRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPriorityCacheRepo(db *gorm.DB, baseLog *logger.Logger) PriorityCacheRepo {
	return &priorityCacheRepo{db: db, log: baseLog.With("repo", "PriorityCacheRepo")}
}

func (r *priorityCacheRepo) CreateGeneration(dbc dbctx.Context, gen *types.ScoreGeneration) (*types.ScoreGeneration, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(gen).Error; err != nil {
		return nil, err
	}
	return gen, nil
}

func (r *priorityCacheRepo) UpdateGenerationFields(dbc dbctx.Context, genID uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.ScoreGeneration{}).
		Where("id = ?", genID).
		Updates(updates).Error
}

func (r *priorityCacheRepo) ListGenerations(dbc dbctx.Context, orgID uuid.UUID, limit int) ([]*types.ScoreGeneration, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.ScoreGeneration
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *priorityCacheRepo) InsertEntries(dbc dbctx.Context, entries []*types.PriorityCacheEntry) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(entries) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).CreateInBatches(&entries, 500).Error
}

// ActivateGeneration swaps the organization's current cache generation in a
// single transaction: old current entries are retired, the new generation's
// entries become current, and the generation rows record the transition.
// Readers never observe a mix of generations, and at most one entry per
// (organization, donor) is current when the transaction commits.
func (r *priorityCacheRepo) ActivateGeneration(dbc dbctx.Context, orgID, genID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now()
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&types.PriorityCacheEntry{}).
			Where("organization_id = ? AND is_current = ?", orgID, true).
			Updates(map[string]interface{}{
				"is_current": false,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&types.PriorityCacheEntry{}).
			Where("organization_id = ? AND generation_id = ?", orgID, genID).
			Updates(map[string]interface{}{
				"is_current": true,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&types.ScoreGeneration{}).
			Where("organization_id = ? AND status = ? AND id <> ?", orgID, types.GenerationStatusCurrent, genID).
			Updates(map[string]interface{}{
				"status":     types.GenerationStatusRetired,
				"retired_at": now,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&types.ScoreGeneration{}).
			Where("id = ?", genID).
			Updates(map[string]interface{}{
				"status":       types.GenerationStatusCurrent,
				"activated_at": now,
				"updated_at":   now,
			}).Error
	})
}

func (r *priorityCacheRepo) ListCurrentEntries(dbc dbctx.Context, orgID uuid.UUID, filter OpportunityFilter) ([]*types.PriorityCacheEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ? AND is_current = ?", orgID, true).
		Order("opportunity_amount DESC")
	if filter.PriorityLevel != "" {
		q = q.Where("priority_level = ?", filter.PriorityLevel)
	}
	if !filter.IncludeExcluded {
		q = q.Where("has_exclusion_tag = ?", false)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var out []*types.PriorityCacheEntry
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *priorityCacheRepo) GetCurrentEntryByDonor(dbc dbctx.Context, orgID, donorID uuid.UUID) (*types.PriorityCacheEntry, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.PriorityCacheEntry
	if err := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ? AND donor_id = ? AND is_current = ?", orgID, donorID, true).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *priorityCacheRepo) LevelDistribution(dbc dbctx.Context, orgID uuid.UUID) ([]LevelCount, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []LevelCount
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT donor_level, COUNT(*) AS count
		FROM priority_cache_entry
		WHERE organization_id = ? AND is_current = TRUE
		GROUP BY donor_level
		ORDER BY count DESC
	`, orgID).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
