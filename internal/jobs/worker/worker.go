package worker

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	"github.com/altruvue/fundraiser-backend/internal/jobs/runtime"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/envutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type Worker struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.JobRunRepo
	registry *runtime.Registry
}

func NewWorker(db *gorm.DB, baseLog *logger.Logger, repo repos.JobRunRepo, registry *runtime.Registry) *Worker {
	return &Worker{
		db:       db,
		log:      baseLog.With("component", "JobWorker"),
		repo:     repo,
		registry: registry,
	}
}

func (w *Worker) Start(ctx context.Context) {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 2)
	if concurrency < 1 {
		concurrency = 1
	}
	w.log.Info("starting job worker pool", "concurrency", concurrency)

	for i := 0; i < concurrency; i++ {
		workerID := i + 1
		go w.runLoop(ctx, workerID)
	}
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	maxAttempts := envutil.Int("WORKER_MAX_ATTEMPTS", 5)
	retryDelay := envutil.Duration("WORKER_RETRY_DELAY", 30*time.Second)
	staleRunning := envutil.Duration("WORKER_STALE_RUNNING", 30*time.Minute)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker loop stopped", "worker_id", workerID)
			return
		case <-ticker.C:
			job, err := w.repo.ClaimNextRunnable(dbctx.Context{Ctx: ctx}, maxAttempts, retryDelay, staleRunning)
			if err != nil {
				w.log.Warn("claim next runnable failed", "worker_id", workerID, "error", err)
				continue
			}
			if job == nil {
				continue
			}

			jc := runtime.NewContext(ctx, w.db, job, w.repo)
			h, ok := w.registry.Get(job.JobType)
			if !ok {
				w.log.Warn("no handler registered",
					"worker_id", workerID,
					"job_type", job.JobType,
					"job_id", job.ID.String(),
				)
				jc.Fail("dispatch", &missingHandlerError{JobType: job.JobType})
				continue
			}

			func() {
				defer func() {
					if r := recover(); r != nil {
						w.log.Error("job handler panic",
							"worker_id", workerID,
							"job_id", job.ID.String(),
							"job_type", job.JobType,
							"panic", r,
						)
						jc.Fail("panic", &panicError{Val: r})
					}
				}()

				// Handlers usually call jc.Fail themselves; this is a safety
				// net for errors that escape.
				if runErr := h.Run(jc); runErr != nil {
					jc.Fail("run", runErr)
				}
			}()
		}
	}
}

type missingHandlerError struct{ JobType string }

func (e *missingHandlerError) Error() string { return "no handler registered for job_type=" + e.JobType }

type panicError struct{ Val any }

func (e *panicError) Error() string { return "panic: unexpected error" }
