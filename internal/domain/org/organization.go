package org

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant boundary. Every donor, donation, campaign and
// cache row hangs off exactly one organization.
type Organization struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Slug     string    `gorm:"not null;uniqueIndex" json:"slug"`
	Timezone string    `gorm:"not null;default:'UTC'" json:"timezone"`
	Active   bool      `gorm:"not null;default:true;index" json:"active"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Organization) TableName() string { return "organization" }
