package donors

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExclusionTag marks a donor as out of scope for opportunity outreach
// (planned gift already committed, foundation grant, etc). Tags are
// deactivated rather than deleted so the history stays auditable.
type ExclusionTag struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	DonorID        uuid.UUID `gorm:"type:uuid;not null;index:idx_exclusion_donor_active,priority:1" json:"donor_id"`

	Reason string `gorm:"not null" json:"reason"`
	Active bool   `gorm:"not null;default:true;index:idx_exclusion_donor_active,priority:2" json:"active"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ExclusionTag) TableName() string { return "exclusion_tag" }
