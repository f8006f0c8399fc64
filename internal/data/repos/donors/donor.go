package donors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type DonorListFilter struct {
	Level  string
	Limit  int
	Offset int
}

// ScoringSummary is the slice of donor columns the priority-cache refresh
// recomputes on every run.
type ScoringSummary struct {
	TotalDonated      decimal.Decimal
	DonorLevel        string
	LargestGiftAmount decimal.Decimal
	LastGiftDate      *time.Time
}

type DonorRepo interface {
	Create(dbc dbctx.Context, donors []*types.Donor) ([]*types.Donor, error)
	GetByID(dbc dbctx.Context, orgID, donorID uuid.UUID) (*types.Donor, error)
	List(dbc dbctx.Context, orgID uuid.UUID, filter DonorListFilter) ([]*types.Donor, error)
	ListIDs(dbc dbctx.Context, orgID uuid.UUID) ([]uuid.UUID, error)
	CountByOrg(dbc dbctx.Context, orgID uuid.UUID) (int64, error)
	UpdateContact(dbc dbctx.Context, orgID, donorID uuid.UUID, updates map[string]interface{}) error
	UpdateScoringSummary(dbc dbctx.Context, orgID, donorID uuid.UUID, summary ScoringSummary) error
	SoftDelete(dbc dbctx.Context, orgID, donorID uuid.UUID) error
}

type donorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDonorRepo(db *gorm.DB, baseLog *logger.Logger) DonorRepo {
	return &donorRepo{db: db, log: baseLog.With("repo", "DonorRepo")}
}

func (r *donorRepo) Create(dbc dbctx.Context, donors []*types.Donor) ([]*types.Donor, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(donors) == 0 {
		return []*types.Donor{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&donors).Error; err != nil {
		return nil, err
	}
	return donors, nil
}

func (r *donorRepo) GetByID(dbc dbctx.Context, orgID, donorID uuid.UUID) (*types.Donor, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Donor
	if err := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ? AND id = ?", orgID, donorID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *donorRepo) List(dbc dbctx.Context, orgID uuid.UUID, filter DonorListFilter) ([]*types.Donor, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ?", orgID).
		Order("last_name ASC, first_name ASC")
	if filter.Level != "" {
		q = q.Where("donor_level = ?", filter.Level)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var out []*types.Donor
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *donorRepo) ListIDs(dbc dbctx.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []uuid.UUID
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Donor{}).
		Where("organization_id = ?", orgID).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *donorRepo) CountByOrg(dbc dbctx.Context, orgID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Donor{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *donorRepo) UpdateContact(dbc dbctx.Context, orgID, donorID uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Donor{}).
		Where("organization_id = ? AND id = ?", orgID, donorID).
		Updates(updates).Error
}

func (r *donorRepo) UpdateScoringSummary(dbc dbctx.Context, orgID, donorID uuid.UUID, summary ScoringSummary) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Donor{}).
		Where("organization_id = ? AND id = ?", orgID, donorID).
		Updates(map[string]interface{}{
			"total_donated":       summary.TotalDonated,
			"donor_level":         summary.DonorLevel,
			"largest_gift_amount": summary.LargestGiftAmount,
			"last_gift_date":      summary.LastGiftDate,
		}).Error
}

func (r *donorRepo) SoftDelete(dbc dbctx.Context, orgID, donorID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("organization_id = ? AND id = ?", orgID, donorID).
		Delete(&types.Donor{}).Error
}
