package scoring

import (
	"errors"
	"fmt"
	"time"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/jobs/runtime"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
	"github.com/altruvue/fundraiser-backend/internal/services"
)

// RefreshHandler runs a full priority-cache rebuild for one organization.
// Payload fields: org_id (required), run_at (optional RFC3339, defaults to
// claim time).
type RefreshHandler struct {
	log   *logger.Logger
	cache services.PriorityCacheService
}

func NewRefreshHandler(baseLog *logger.Logger, cache services.PriorityCacheService) *RefreshHandler {
	return &RefreshHandler{
		log:   baseLog.With("handler", types.JobTypePriorityCacheRefresh),
		cache: cache,
	}
}

func (h *RefreshHandler) Type() string { return types.JobTypePriorityCacheRefresh }

func (h *RefreshHandler) Run(jc *runtime.Context) error {
	orgID, ok := jc.PayloadUUID("org_id")
	if !ok {
		jc.Fail("validate", errors.New("payload missing org_id"))
		return nil
	}
	runAt, ok := jc.PayloadTime("run_at")
	if !ok {
		runAt = time.Now().UTC()
	}

	jc.Progress("scoring", 10, "recomputing donor scores")

	report, err := h.cache.RefreshOrganization(jc.Ctx, orgID, runAt)
	if err != nil {
		if errors.Is(err, services.ErrTooManySkipped) {
			jc.Fail("skip_limit", err)
			return nil
		}
		jc.Fail("refresh", fmt.Errorf("refresh organization %s: %w", orgID, err))
		return nil
	}

	jc.Succeed("done", report)
	h.log.Info("cache refresh job finished",
		"org_id", orgID.String(),
		"generation_id", report.GenerationID.String(),
		"donors", report.DonorCount,
		"skipped", report.SkippedCount,
	)
	return nil
}
