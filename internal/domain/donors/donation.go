package donors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Donation is an immutable financial event and the source of truth for all
// period totals used in scoring. Rows are never updated or soft-deleted;
// corrections are modeled as new offsetting events upstream.
type Donation struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_donation_org_date,priority:1" json:"organization_id"`
	DonorID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_donation_donor_date,priority:1" json:"donor_id"`
	CampaignID     *uuid.UUID `gorm:"type:uuid;index" json:"campaign_id,omitempty"`

	Amount       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	DonationDate time.Time       `gorm:"not null;index:idx_donation_org_date,priority:2;index:idx_donation_donor_date,priority:2" json:"donation_date"`
	Method       string          `json:"method,omitempty"`
	Note         string          `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Donation) TableName() string { return "donation" }
