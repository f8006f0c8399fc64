package donors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Donor summary fields (TotalDonated, DonorLevel, LargestGiftAmount,
// LastGiftDate) are derived from donations. They are refreshed by the
// priority-cache batch run and must not be treated as authoritative at
// write time.
type Donor struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_donor_org;index:idx_donor_org_level,priority:1" json:"organization_id"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"index" json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	TotalDonated      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_donated"`
	DonorLevel        string          `gorm:"index:idx_donor_org_level,priority:2" json:"donor_level,omitempty"`
	LargestGiftAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"largest_gift_amount"`
	LastGiftDate      *time.Time      `gorm:"index" json:"last_gift_date,omitempty"`

	AssignedOfficerID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_officer_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Donor) TableName() string { return "donor" }
