package marketing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

// AdSpendRepo backs an optional analytics capability; deployments without ad
// platform ingestion never construct it.
type AdSpendRepo interface {
	Create(dbc dbctx.Context, rows []*types.AdSpend) ([]*types.AdSpend, error)
	SumByCampaign(dbc dbctx.Context, orgID, campaignID uuid.UUID) (decimal.Decimal, error)
}

type adSpendRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdSpendRepo(db *gorm.DB, baseLog *logger.Logger) AdSpendRepo {
	return &adSpendRepo{db: db, log: baseLog.With("repo", "AdSpendRepo")}
}

func (r *adSpendRepo) Create(dbc dbctx.Context, rows []*types.AdSpend) ([]*types.AdSpend, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.AdSpend{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *adSpendRepo) SumByCampaign(dbc dbctx.Context, orgID, campaignID uuid.UUID) (decimal.Decimal, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT COALESCE(SUM(spend), 0) AS total
		FROM ad_spend
		WHERE organization_id = ? AND campaign_id = ?
	`, orgID, campaignID).Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	return out.Total, nil
}
