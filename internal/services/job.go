package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/altruvue/fundraiser-backend/internal/data/repos"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/apierr"
	"github.com/altruvue/fundraiser-backend/internal/platform/ctxutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

type JobService interface {
	EnqueueRefresh(ctx context.Context, orgID uuid.UUID, runAt time.Time) (*types.JobRun, error)
	Get(ctx context.Context, orgID, jobID uuid.UUID) (*types.JobRun, error)
}

type jobService struct {
	db      *gorm.DB
	log     *logger.Logger
	jobRepo repos.JobRunRepo
}

func NewJobService(db *gorm.DB, baseLog *logger.Logger, jobRepo repos.JobRunRepo) JobService {
	return &jobService{
		db:      db,
		log:     baseLog.With("service", "JobService"),
		jobRepo: jobRepo,
	}
}

// EnqueueRefresh queues a priority-cache rebuild unless one is already
// queued or running for the org. The originating trace identifiers ride in
// the payload so worker logs correlate with the request.
func (s *jobService) EnqueueRefresh(ctx context.Context, orgID uuid.UUID, runAt time.Time) (*types.JobRun, error) {
	dbc := dbctx.Context{Ctx: ctx}

	exists, err := s.jobRepo.ExistsRunnable(dbc, orgID, types.JobTypePriorityCacheRefresh)
	if err != nil {
		return nil, fmt.Errorf("check runnable jobs: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("refresh_already_queued", errors.New("a refresh is already queued or running for this organization"))
	}

	if runAt.IsZero() {
		runAt = time.Now().UTC()
	}
	payload := map[string]any{
		"org_id": orgID.String(),
		"run_at": runAt.Format(time.RFC3339),
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			payload["trace_id"] = td.TraceID
		}
		if td.RequestID != "" {
			payload["request_id"] = td.RequestID
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	job := &types.JobRun{
		ID:             uuid.New(),
		OrganizationID: orgID,
		JobType:        types.JobTypePriorityCacheRefresh,
		Status:         types.JobStatusQueued,
		Stage:          "queued",
		Payload:        datatypes.JSON(raw),
		Result:         datatypes.JSON([]byte("{}")),
	}
	if _, err := s.jobRepo.Create(dbc, []*types.JobRun{job}); err != nil {
		return nil, fmt.Errorf("create job run: %w", err)
	}
	s.log.Info("refresh enqueued", "org_id", orgID.String(), "job_id", job.ID.String())
	return job, nil
}

func (s *jobService) Get(ctx context.Context, orgID, jobID uuid.UUID) (*types.JobRun, error) {
	job, err := s.jobRepo.GetByID(dbctx.Context{Ctx: ctx}, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("job_not_found", err)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.OrganizationID != orgID {
		return nil, apierr.NotFound("job_not_found", errors.New("job does not belong to organization"))
	}
	return job, nil
}
