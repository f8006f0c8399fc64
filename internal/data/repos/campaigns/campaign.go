package campaigns

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type CampaignListFilter struct {
	Status string
	Limit  int
	Offset int
}

type CampaignRepo interface {
	Create(dbc dbctx.Context, campaigns []*types.Campaign) ([]*types.Campaign, error)
	GetByID(dbc dbctx.Context, orgID, campaignID uuid.UUID) (*types.Campaign, error)
	List(dbc dbctx.Context, orgID uuid.UUID, filter CampaignListFilter) ([]*types.Campaign, error)
	UpdateFields(dbc dbctx.Context, orgID, campaignID uuid.UUID, updates map[string]interface{}) error
}

type campaignRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignRepo(db *gorm.DB, baseLog *logger.Logger) CampaignRepo {
	return &campaignRepo{db: db, log: baseLog.With("repo", "CampaignRepo")}
}

func (r *campaignRepo) Create(dbc dbctx.Context, campaigns []*types.Campaign) ([]*types.Campaign, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(campaigns) == 0 {
		return []*types.Campaign{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *campaignRepo) GetByID(dbc dbctx.Context, orgID, campaignID uuid.UUID) (*types.Campaign, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Campaign
	if err := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ? AND id = ?", orgID, campaignID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *campaignRepo) List(dbc dbctx.Context, orgID uuid.UUID, filter CampaignListFilter) ([]*types.Campaign, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ?", orgID).
		Order("start_date DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var out []*types.Campaign
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *campaignRepo) UpdateFields(dbc dbctx.Context, orgID, campaignID uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Campaign{}).
		Where("organization_id = ? AND id = ?", orgID, campaignID).
		Updates(updates).Error
}
