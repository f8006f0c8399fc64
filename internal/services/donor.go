package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/apierr"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type CreateDonorInput struct {
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	AssignedOfficerID *uuid.UUID `json:"assigned_officer_id"`
}

type UpdateDonorInput struct {
	FirstName         *string    `json:"first_name"`
	LastName          *string    `json:"last_name"`
	Email             *string    `json:"email"`
	Phone             *string    `json:"phone"`
	AssignedOfficerID *uuid.UUID `json:"assigned_officer_id"`
}

type DonorService interface {
	Create(ctx context.Context, orgID uuid.UUID, in CreateDonorInput) (*types.Donor, error)
	Get(ctx context.Context, orgID, donorID uuid.UUID) (*types.Donor, error)
	List(ctx context.Context, orgID uuid.UUID, filter repos.DonorListFilter) ([]*types.Donor, error)
	Update(ctx context.Context, orgID, donorID uuid.UUID, in UpdateDonorInput) (*types.Donor, error)
	Delete(ctx context.Context, orgID, donorID uuid.UUID) error

	AddExclusionTag(ctx context.Context, orgID, donorID uuid.UUID, reason string) (*types.ExclusionTag, error)
	ListExclusionTags(ctx context.Context, orgID, donorID uuid.UUID, activeOnly bool) ([]*types.ExclusionTag, error)
	RemoveExclusionTag(ctx context.Context, orgID, tagID uuid.UUID) error
}

type donorService struct {
	db        *gorm.DB
	log       *logger.Logger
	donorRepo repos.DonorRepo
	tagRepo   repos.ExclusionTagRepo
}

func NewDonorService(
	db *gorm.DB,
	baseLog *logger.Logger,
	donorRepo repos.DonorRepo,
	tagRepo repos.ExclusionTagRepo,
) DonorService {
	return &donorService{
		db:        db,
		log:       baseLog.With("service", "DonorService"),
		donorRepo: donorRepo,
		tagRepo:   tagRepo,
	}
}

func (s *donorService) Create(ctx context.Context, orgID uuid.UUID, in CreateDonorInput) (*types.Donor, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, apierr.BadRequest("donor_name_required", errors.New("first_name and last_name are required"))
	}
	donor := &types.Donor{
		ID:                uuid.New(),
		OrganizationID:    orgID,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		Phone:             in.Phone,
		AssignedOfficerID: in.AssignedOfficerID,
	}
	if _, err := s.donorRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Donor{donor}); err != nil {
		return nil, fmt.Errorf("create donor: %w", err)
	}
	s.log.Info("donor created", "org_id", orgID.String(), "donor_id", donor.ID.String())
	return donor, nil
}

func (s *donorService) Get(ctx context.Context, orgID, donorID uuid.UUID) (*types.Donor, error) {
	donor, err := s.donorRepo.GetByID(dbctx.Context{Ctx: ctx}, orgID, donorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("donor_not_found", err)
		}
		return nil, fmt.Errorf("get donor: %w", err)
	}
	return donor, nil
}

func (s *donorService) List(ctx context.Context, orgID uuid.UUID, filter repos.DonorListFilter) ([]*types.Donor, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	donors, err := s.donorRepo.List(dbctx.Context{Ctx: ctx}, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	return donors, nil
}

func (s *donorService) Update(ctx context.Context, orgID, donorID uuid.UUID, in UpdateDonorInput) (*types.Donor, error) {
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.AssignedOfficerID != nil {
		updates["assigned_officer_id"] = *in.AssignedOfficerID
	}
	if len(updates) == 0 {
		return s.Get(ctx, orgID, donorID)
	}
	if err := s.donorRepo.UpdateContact(dbctx.Context{Ctx: ctx}, orgID, donorID, updates); err != nil {
		return nil, fmt.Errorf("update donor: %w", err)
	}
	return s.Get(ctx, orgID, donorID)
}

func (s *donorService) Delete(ctx context.Context, orgID, donorID uuid.UUID) error {
	if _, err := s.Get(ctx, orgID, donorID); err != nil {
		return err
	}
	if err := s.donorRepo.SoftDelete(dbctx.Context{Ctx: ctx}, orgID, donorID); err != nil {
		return fmt.Errorf("delete donor: %w", err)
	}
	s.log.Info("donor deleted", "org_id", orgID.String(), "donor_id", donorID.String())
	return nil
}

func (s *donorService) AddExclusionTag(ctx context.Context, orgID, donorID uuid.UUID, reason string) (*types.ExclusionTag, error) {
	if reason == "" {
		return nil, apierr.BadRequest("exclusion_reason_required", errors.New("reason is required"))
	}
	if _, err := s.Get(ctx, orgID, donorID); err != nil {
		return nil, err
	}
	tag := &types.ExclusionTag{
		ID:             uuid.New(),
		OrganizationID: orgID,
		DonorID:        donorID,
		Reason:         reason,
		Active:         true,
	}
	if _, err := s.tagRepo.Create(dbctx.Context{Ctx: ctx}, []*types.ExclusionTag{tag}); err != nil {
		return nil, fmt.Errorf("create exclusion tag: %w", err)
	}
	s.log.Info("exclusion tag added", "org_id", orgID.String(), "donor_id", donorID.String())
	return tag, nil
}

func (s *donorService) ListExclusionTags(ctx context.Context, orgID, donorID uuid.UUID, activeOnly bool) ([]*types.ExclusionTag, error) {
	tags, err := s.tagRepo.ListByDonor(dbctx.Context{Ctx: ctx}, orgID, donorID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list exclusion tags: %w", err)
	}
	return tags, nil
}

func (s *donorService) RemoveExclusionTag(ctx context.Context, orgID, tagID uuid.UUID) error {
	if err := s.tagRepo.Deactivate(dbctx.Context{Ctx: ctx}, orgID, tagID); err != nil {
		return fmt.Errorf("deactivate exclusion tag: %w", err)
	}
	return nil
}
