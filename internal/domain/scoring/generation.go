package scoring

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	GenerationStatusBuilding = "building"
	GenerationStatusCurrent  = "current"
	GenerationStatusRetired  = "retired"
	GenerationStatusFailed   = "failed"
)

// ScoreGeneration is one full recomputation cycle of the priority cache for
// an organization. A refresh writes every entry under a new generation and
// activates it in a single transaction; a failed run never retires the
// previous current generation.
type ScoreGeneration struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_generation_org_status,priority:1" json:"organization_id"`

	Status       string         `gorm:"not null;default:'building';index:idx_generation_org_status,priority:2" json:"status"`
	RunAt        time.Time      `gorm:"not null;index" json:"run_at"`
	DonorCount   int            `gorm:"not null;default:0" json:"donor_count"`
	SkippedCount int            `gorm:"not null;default:0" json:"skipped_count"`
	SkippedIDs   datatypes.JSON `gorm:"type:jsonb" json:"skipped_ids,omitempty"`
	Error        string         `gorm:"type:text" json:"error,omitempty"`

	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	RetiredAt   *time.Time `json:"retired_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScoreGeneration) TableName() string { return "score_generation" }
