package orgs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type OrganizationRepo interface {
	Create(dbc dbctx.Context, orgs []*types.Organization) ([]*types.Organization, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Organization, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Organization, error)
	ListActive(dbc dbctx.Context) ([]*types.Organization, error)
}

type organizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	return &organizationRepo{db: db, log: baseLog.With("repo", "OrganizationRepo")}
}

func (r *organizationRepo) Create(dbc dbctx.Context, orgs []*types.Organization) ([]*types.Organization, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(orgs) == 0 {
		return []*types.Organization{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organizationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Organization, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Organization
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *organizationRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Organization, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Organization
	if err := transaction.WithContext(dbc.Ctx).
		Where("slug = ?", slug).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *organizationRepo) ListActive(dbc dbctx.Context) ([]*types.Organization, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Organization
	if err := transaction.WithContext(dbc.Ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
