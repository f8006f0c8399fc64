package repos

import (
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos/campaigns"
	"github.com/altruvue/fundraiser-backend/internal/data/repos/donors"
	"github.com/altruvue/fundraiser-backend/internal/data/repos/jobs"
	"github.com/altruvue/fundraiser-backend/internal/data/repos/marketing"
	"github.com/altruvue/fundraiser-backend/internal/data/repos/orgs"
	"github.com/altruvue/fundraiser-backend/internal/data/repos/scoring"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type OrganizationRepo = orgs.OrganizationRepo

type DonorRepo = donors.DonorRepo
type DonationRepo = donors.DonationRepo
type ExclusionTagRepo = donors.ExclusionTagRepo

type CampaignRepo = campaigns.CampaignRepo
type AdSpendRepo = marketing.AdSpendRepo

type PriorityCacheRepo = scoring.PriorityCacheRepo

type JobRunRepo = jobs.JobRunRepo

type DonorListFilter = donors.DonorListFilter
type DonationListFilter = donors.DonationListFilter
type DonorWindowTotals = donors.DonorWindowTotals
type CampaignTotals = donors.CampaignTotals
type RetentionCounts = donors.RetentionCounts
type ScoringSummary = donors.ScoringSummary
type CampaignListFilter = campaigns.CampaignListFilter
type OpportunityFilter = scoring.OpportunityFilter
type LevelCount = scoring.LevelCount

func NewOrganizationRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	return orgs.NewOrganizationRepo(db, baseLog)
}

func NewDonorRepo(db *gorm.DB, baseLog *logger.Logger) DonorRepo {
	return donors.NewDonorRepo(db, baseLog)
}
func NewDonationRepo(db *gorm.DB, baseLog *logger.Logger) DonationRepo {
	return donors.NewDonationRepo(db, baseLog)
}
func NewExclusionTagRepo(db *gorm.DB, baseLog *logger.Logger) ExclusionTagRepo {
	return donors.NewExclusionTagRepo(db, baseLog)
}

func NewCampaignRepo(db *gorm.DB, baseLog *logger.Logger) CampaignRepo {
	return campaigns.NewCampaignRepo(db, baseLog)
}
func NewAdSpendRepo(db *gorm.DB, baseLog *logger.Logger) AdSpendRepo {
	return marketing.NewAdSpendRepo(db, baseLog)
}

func NewPriorityCacheRepo(db *gorm.DB, baseLog *logger.Logger) PriorityCacheRepo {
	return scoring.NewPriorityCacheRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}
