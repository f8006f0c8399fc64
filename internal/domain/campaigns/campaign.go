package campaigns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusArchived  = "archived"
)

type Campaign struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_campaign_org_status,priority:1" json:"organization_id"`

	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	GoalAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"goal_amount"`
	StartDate   time.Time       `gorm:"not null;index" json:"start_date"`
	EndDate     *time.Time      `gorm:"index" json:"end_date,omitempty"`
	Status      string          `gorm:"not null;default:'draft';index:idx_campaign_org_status,priority:2" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Campaign) TableName() string { return "campaign" }
