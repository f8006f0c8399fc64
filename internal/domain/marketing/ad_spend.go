package marketing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdSpend is an optional analytics table. Not every deployment ingests ad
// platform exports, so the analytics service treats its repo as an optional
// capability and reports the section as unavailable when absent.
type AdSpend struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_ad_spend_org_date,priority:1" json:"organization_id"`
	CampaignID     *uuid.UUID `gorm:"type:uuid;index" json:"campaign_id,omitempty"`

	Channel   string          `gorm:"not null" json:"channel"`
	Spend     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"spend"`
	SpendDate time.Time       `gorm:"not null;index:idx_ad_spend_org_date,priority:2" json:"spend_date"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (AdSpend) TableName() string { return "ad_spend" }
