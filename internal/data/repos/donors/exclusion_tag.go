package donors

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type ExclusionTagRepo interface {
	Create(dbc dbctx.Context, tags []*types.ExclusionTag) ([]*types.ExclusionTag, error)
	ListByDonor(dbc dbctx.Context, orgID, donorID uuid.UUID, activeOnly bool) ([]*types.ExclusionTag, error)
	Deactivate(dbc dbctx.Context, orgID, tagID uuid.UUID) error
	ActiveDonorIDs(dbc dbctx.Context, orgID uuid.UUID) ([]uuid.UUID, error)
}

type exclusionTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExclusionTagRepo(db *gorm.DB, baseLog *logger.Logger) ExclusionTagRepo {
	return &exclusionTagRepo{db: db, log: baseLog.With("repo", "ExclusionTagRepo")}
}

func (r *exclusionTagRepo) Create(dbc dbctx.Context, tags []*types.ExclusionTag) ([]*types.ExclusionTag, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(tags) == 0 {
		return []*types.ExclusionTag{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *exclusionTagRepo) ListByDonor(dbc dbctx.Context, orgID, donorID uuid.UUID, activeOnly bool) ([]*types.ExclusionTag, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ? AND donor_id = ?", orgID, donorID).
		Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []*types.ExclusionTag
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *exclusionTagRepo) Deactivate(dbc dbctx.Context, orgID, tagID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.ExclusionTag{}).
		Where("organization_id = ? AND id = ?", orgID, tagID).
		Update("active", false).Error
}

func (r *exclusionTagRepo) ActiveDonorIDs(dbc dbctx.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []uuid.UUID
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ExclusionTag{}).
		Distinct("donor_id").
		Where("organization_id = ? AND active = ?", orgID, true).
		Pluck("donor_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
