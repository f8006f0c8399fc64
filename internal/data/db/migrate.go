package db

import (
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Tenancy
		&types.Organization{},

		// Donor book
		&types.Donor{},
		&types.Donation{},
		&types.ExclusionTag{},

		// Campaigns
		&types.Campaign{},

		// Derived scoring snapshots
		&types.ScoreGeneration{},
		&types.PriorityCacheEntry{},

		// Optional analytics inputs
		&types.AdSpend{},

		// Background jobs
		&types.JobRun{},
	)
}
