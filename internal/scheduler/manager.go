package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/platform/apierr"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/envutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

// Manager owns the cron scheduler. Its single job enqueues a nightly
// priority-cache refresh for every active organization; the worker pool does
// the actual computation, so a slow refresh never blocks the schedule.
type Manager struct {
	scheduler gocron.Scheduler
	log       *logger.Logger
	orgRepo   repos.OrganizationRepo
	jobs      services.JobService
}

func NewManager(baseLog *logger.Logger, orgRepo repos.OrganizationRepo, jobs services.JobService) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Manager{
		scheduler: s,
		log:       baseLog.With("component", "Scheduler"),
		orgRepo:   orgRepo,
		jobs:      jobs,
	}, nil
}

func (m *Manager) Start() error {
	// Default 02:00 UTC, when the previous giving day is fully recorded.
	hour := envutil.Int("REFRESH_CRON_HOUR", 2)
	minute := envutil.Int("REFRESH_CRON_MINUTE", 0)

	_, err := m.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(m.enqueueAllRefreshes),
		gocron.WithName("nightly_priority_cache_refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register nightly refresh job: %w", err)
	}

	m.scheduler.Start()
	m.log.Info("scheduler started", "refresh_hour", hour, "refresh_minute", minute)
	return nil
}

func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		m.log.Error("scheduler shutdown failed", "error", err)
		return
	}
	m.log.Info("scheduler stopped")
}

func (m *Manager) enqueueAllRefreshes() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	orgs, err := m.orgRepo.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		m.log.Error("list active organizations failed", "error", err)
		return
	}

	runAt := time.Now().UTC()
	enqueued := 0
	for _, org := range orgs {
		if _, err := m.jobs.EnqueueRefresh(ctx, org.ID, runAt); err != nil {
			// An already queued refresh is fine; anything else is not.
			if ae, ok := apierr.As(err); ok && ae.Code == "refresh_already_queued" {
				m.log.Debug("refresh already queued", "org_id", org.ID.String())
				continue
			}
			m.log.Error("enqueue refresh failed", "org_id", org.ID.String(), "error", err)
			continue
		}
		enqueued++
	}
	m.log.Info("nightly refreshes enqueued", "orgs", len(orgs), "enqueued", enqueued)
}
