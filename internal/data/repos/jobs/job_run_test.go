package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/altruvue/fundraiser-backend/internal/data/repos/testutil"
	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
)

func TestJobRunRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewJobRunRepo(db, testutil.Logger(t))

	org := testutil.SeedOrganization(t, ctx, tx, "jobrun-repo")
	now := time.Now().UTC()

	queued := &types.JobRun{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		JobType:        types.JobTypePriorityCacheRefresh,
		Status:         types.JobStatusQueued,
		Stage:          "queued",
		Payload:        datatypes.JSON([]byte("{}")),
		Result:         datatypes.JSON([]byte("{}")),
		CreatedAt:      now.Add(-3 * time.Hour),
		UpdatedAt:      now.Add(-3 * time.Hour),
	}
	failedRetryable := &types.JobRun{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		JobType:        types.JobTypePriorityCacheRefresh,
		Status:         types.JobStatusFailed,
		Stage:          "failed",
		Attempts:       1,
		LastErrorAt:    ptrTime(now.Add(-2 * time.Hour)),
		Payload:        datatypes.JSON([]byte("{}")),
		Result:         datatypes.JSON([]byte("{}")),
		CreatedAt:      now.Add(-2 * time.Hour),
		UpdatedAt:      now.Add(-2 * time.Hour),
	}
	staleRunning := &types.JobRun{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		JobType:        types.JobTypePriorityCacheRefresh,
		Status:         types.JobStatusRunning,
		Stage:          "running",
		HeartbeatAt:    ptrTime(now.Add(-10 * time.Hour)),
		Payload:        datatypes.JSON([]byte("{}")),
		Result:         datatypes.JSON([]byte("{}")),
		CreatedAt:      now.Add(-1 * time.Hour),
		UpdatedAt:      now.Add(-1 * time.Hour),
	}

	created, err := repo.Create(dbc, []*types.JobRun{queued, failedRetryable, staleRunning})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Create: expected 3, got %d", len(created))
	}

	got, err := repo.GetByID(dbc, queued.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != types.JobStatusQueued {
		t.Fatalf("GetByID: expected queued, got %q", got.Status)
	}

	exists, err := repo.ExistsRunnable(dbc, org.ID, types.JobTypePriorityCacheRefresh)
	if err != nil {
		t.Fatalf("ExistsRunnable: %v", err)
	}
	if !exists {
		t.Fatalf("ExistsRunnable: expected true")
	}

	// Claims in age order: queued first (oldest), then failed, then stale.
	wantOrder := []uuid.UUID{queued.ID, failedRetryable.ID, staleRunning.ID}
	for i, want := range wantOrder {
		claimed, err := repo.ClaimNextRunnable(dbc, 3, time.Hour, 5*time.Hour)
		if err != nil {
			t.Fatalf("ClaimNextRunnable %d: %v", i, err)
		}
		if claimed == nil {
			t.Fatalf("ClaimNextRunnable %d: expected a job", i)
		}
		if claimed.ID != want {
			t.Fatalf("ClaimNextRunnable %d: expected %s, got %s", i, want, claimed.ID)
		}
	}

	none, err := repo.ClaimNextRunnable(dbc, 3, time.Hour, 5*time.Hour)
	if err != nil {
		t.Fatalf("ClaimNextRunnable empty: %v", err)
	}
	if none != nil {
		t.Fatalf("ClaimNextRunnable empty: expected nil, got %s", none.ID)
	}

	// A terminal status blocks late writers.
	if err := repo.UpdateFields(dbc, queued.ID, map[string]interface{}{
		"status": types.JobStatusSucceeded,
		"stage":  "done",
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	applied, err := repo.UpdateFieldsUnlessStatus(dbc, queued.ID, []string{types.JobStatusSucceeded, types.JobStatusCanceled}, map[string]interface{}{
		"status": types.JobStatusFailed,
	})
	if err != nil {
		t.Fatalf("UpdateFieldsUnlessStatus: %v", err)
	}
	if applied {
		t.Fatalf("UpdateFieldsUnlessStatus: expected no-op on succeeded job")
	}

	if err := repo.Heartbeat(dbc, failedRetryable.ID); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
