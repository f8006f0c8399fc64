package app

import (
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type Repos struct {
	Organization  repos.OrganizationRepo
	Donor         repos.DonorRepo
	Donation      repos.DonationRepo
	ExclusionTag  repos.ExclusionTagRepo
	Campaign      repos.CampaignRepo
	AdSpend       repos.AdSpendRepo
	PriorityCache repos.PriorityCacheRepo
	JobRun        repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Organization:  repos.NewOrganizationRepo(db, log),
		Donor:         repos.NewDonorRepo(db, log),
		Donation:      repos.NewDonationRepo(db, log),
		ExclusionTag:  repos.NewExclusionTagRepo(db, log),
		Campaign:      repos.NewCampaignRepo(db, log),
		AdSpend:       repos.NewAdSpendRepo(db, log),
		PriorityCache: repos.NewPriorityCacheRepo(db, log),
		JobRun:        repos.NewJobRunRepo(db, log),
	}
}
