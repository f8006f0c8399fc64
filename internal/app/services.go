package app

import (
	"gorm.io/gorm"

	jobscoring "github.com/altruvue/fundraiser-backend/internal/jobs/scoring"

	"github.com/altruvue/fundraiser-backend/internal/jobs/runtime"
	"github.com/altruvue/fundraiser-backend/internal/jobs/worker"
	"github.com/altruvue/fundraiser-backend/internal/platform/envutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
	"github.com/altruvue/fundraiser-backend/internal/scheduler"
	"github.com/altruvue/fundraiser-backend/internal/scoring"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

type Services struct {
	Donor         services.DonorService
	Donation      services.DonationService
	Campaign      services.CampaignService
	PriorityCache services.PriorityCacheService
	Analytics     services.AnalyticsService
	Job           services.JobService

	StatsCache services.StatsCache
	JobWorker  *worker.Worker
	Scheduler  *scheduler.Manager
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	stats, err := services.NewStatsCacheFromEnv(log)
	if err != nil {
		return Services{}, err
	}
	if stats == nil {
		log.Info("stats cache disabled (REDIS_ADDR unset)")
	}

	engine := scoring.NewEngine(cfg.Thresholds)

	cache := services.NewPriorityCacheService(db, log, engine, r.Donor, r.Donation, r.ExclusionTag, r.PriorityCache, stats)
	jobSvc := services.NewJobService(db, log, r.JobRun)

	// Ad spend ingestion is optional; the analytics service reports the
	// section as untracked when the table is not in use.
	var adSpend = r.AdSpend
	if !envutil.Bool("AD_SPEND_ENABLED", false) {
		adSpend = nil
	}

	svcs := Services{
		Donor:         services.NewDonorService(db, log, r.Donor, r.ExclusionTag),
		Donation:      services.NewDonationService(db, log, r.Donor, r.Donation, r.Campaign, stats),
		Campaign:      services.NewCampaignService(db, log, r.Campaign),
		PriorityCache: cache,
		Analytics:     services.NewAnalyticsService(db, log, r.Campaign, r.Donation, r.PriorityCache, adSpend, stats),
		Job:           jobSvc,
		StatsCache:    stats,
	}

	if cfg.WorkerEnabled {
		registry := runtime.NewRegistry()
		if err := registry.Register(jobscoring.NewRefreshHandler(log, cache)); err != nil {
			return Services{}, err
		}
		svcs.JobWorker = worker.NewWorker(db, log, r.JobRun, registry)
	}

	if cfg.SchedulerEnabled {
		sched, err := scheduler.NewManager(log, r.Organization, jobSvc)
		if err != nil {
			return Services{}, err
		}
		svcs.Scheduler = sched
	}

	return svcs, nil
}
