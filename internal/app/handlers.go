package app

import (
	"github.com/altruvue/fundraiser-backend/internal/http/handlers"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Org       *handlers.OrgHandler
	Donor     *handlers.DonorHandler
	Donation  *handlers.DonationHandler
	Campaign  *handlers.CampaignHandler
	Priority  *handlers.PriorityHandler
	Analytics *handlers.AnalyticsHandler
	Job       *handlers.JobHandler
}

func wireHandlers(log *logger.Logger, r Repos, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(),
		Org:       handlers.NewOrgHandler(r.Organization),
		Donor:     handlers.NewDonorHandler(s.Donor),
		Donation:  handlers.NewDonationHandler(s.Donation),
		Campaign:  handlers.NewCampaignHandler(s.Campaign, s.Analytics),
		Priority:  handlers.NewPriorityHandler(s.PriorityCache, s.Job),
		Analytics: handlers.NewAnalyticsHandler(s.Analytics),
		Job:       handlers.NewJobHandler(s.Job),
	}
}
