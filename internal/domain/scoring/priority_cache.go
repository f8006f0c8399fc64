package scoring

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriorityCacheEntry is a derived snapshot of one donor's scoring output for
// one generation. Exactly one entry per (organization, donor) is current at
// any time; superseded generations keep their rows for audit history.
//
// PriorityLevel and OpportunityAmount are always computed from the period
// totals stored alongside them, never hand-edited.
type PriorityCacheEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_cache_org_current,priority:1" json:"organization_id"`
	DonorID        uuid.UUID `gorm:"type:uuid;not null;index:idx_cache_donor_current,priority:1" json:"donor_id"`
	GenerationID   uuid.UUID `gorm:"type:uuid;not null;index" json:"generation_id"`

	// Rolling windows anchored at the generation's run time:
	// current 0-12 months back, last 12-24, two-years-ago 24-36, older 36-48.
	CurrentYearTotal decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"current_year_total"`
	LastYearTotal    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"last_year_total"`
	TwoYearsAgoTotal decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"two_years_ago_total"`
	OlderYearTotal   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"older_year_total"`

	LargestGiftAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"largest_gift_amount"`
	LastGiftDate      *time.Time      `json:"last_gift_date,omitempty"`

	DonorLevel        string          `gorm:"not null;index" json:"donor_level"`
	PriorityLevel     string          `gorm:"not null;index" json:"priority_level"`
	OpportunityAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"opportunity_amount"`
	OpportunityBasis  string          `gorm:"not null" json:"opportunity_basis"`

	YoYDollarChange  decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"yoy_dollar_change"`
	YoYPercentChange *decimal.Decimal `gorm:"type:decimal(20,4)" json:"yoy_percent_change,omitempty"`

	HasExclusionTag   bool       `gorm:"not null;default:false;index" json:"has_exclusion_tag"`
	AssignedOfficerID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_officer_id,omitempty"`

	IsCurrent bool `gorm:"not null;default:false;index:idx_cache_org_current,priority:2;index:idx_cache_donor_current,priority:2" json:"is_current"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PriorityCacheEntry) TableName() string { return "priority_cache_entry" }
