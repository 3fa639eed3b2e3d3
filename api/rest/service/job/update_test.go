package job

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spear-cloud/spear/internal/lifecycle"
	"github.com/spear-cloud/spear/internal/models"
	"github.com/spear-cloud/spear/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPendingJob(t *testing.T, svc *jobService, priority int) *models.SpearJob {
	t.Helper()

	job, err := svc.Create(&CreateRequest{
		PatientID:        "12341234",
		WorkflowName:     "plan_optimization",
		WorkflowConfig:   map[string]interface{}{"fractions": float64(30)},
		RayStationSystem: "SP01",
		Priority:         priority,
	})
	require.NoError(t, err)
	return job
}

// Full lifecycle walk: enqueue, claim, log, heartbeat, complete,
// then a rejected revoke on the terminal record.
func TestLifecycleScenario(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 3)
	assert.Equal(t, models.StatusPending, job.Status)

	token := uuid.New()
	job, err := svc.Apply(store.ByID(job.ID), lifecycle.Event{
		Type:      lifecycle.EventEnqueueAccepted,
		TaskToken: &token,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusQueued, job.Status)
	require.NotNil(t, job.TaskToken)
	assert.Equal(t, token, *job.TaskToken)
	assert.Equal(t, 3, job.Priority)

	job, err = svc.Apply(store.ByToken(token), lifecycle.Event{
		Type:       lifecycle.EventMarkRunning,
		WorkerName: "worker_sp1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, job.Status)
	assert.Equal(t, "SP1", job.ServerName)
	require.NotNil(t, job.StartedAt)

	_, err = svc.Update(store.ByToken(token), &UpdateRequest{
		AppendLog: ptr("started"),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Update(store.ByToken(token), &UpdateRequest{
			AppendLog: ptr("heartbeat1"),
		})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Update(store.ByToken(token), &UpdateRequest{
			LatestHeartbeat: ptr(time.Now().UTC()),
		})
		assert.NoError(t, err)
	}()
	wg.Wait()

	job, err = svc.GetByToken(token)
	require.NoError(t, err)
	assert.Contains(t, job.Logs, "started")
	assert.Contains(t, job.Logs, "heartbeat1")
	require.NotNil(t, job.LatestHeartbeat)

	job, err = svc.Apply(store.ByToken(token), lifecycle.Event{
		Type:   lifecycle.EventMarkCompleted,
		Result: "plan exported",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)

	_, err = svc.Revoke(store.ByToken(token))
	var validation *lifecycle.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestUpdateTranslatesPayload(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)
	startedAt := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	job, err := svc.Update(store.ByID(job.ID), &UpdateRequest{
		Status:     ptr("RUNNING"),
		StartedAt:  &startedAt,
		WorkerName: ptr("worker_sp2"),
		AppendLogs: []string{"claimed", "loading plan"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusRunning, job.Status)
	assert.Equal(t, "worker_sp2", job.WorkerName)
	assert.Equal(t, "SP2", job.ServerName)
	require.NotNil(t, job.StartedAt)
	assert.Equal(t, startedAt, job.StartedAt.UTC())
	assert.Equal(t, "claimed\nloading plan", job.Logs)
}

func TestUpdateWorkerOnlyReassignsServer(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)

	job, err := svc.Update(store.ByID(job.ID), &UpdateRequest{
		WorkerName: ptr("celery@unmapped-host"),
	})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.UnknownServer, job.ServerName)
	assert.Equal(t, models.StatusPending, job.Status)
}

func TestUpdateRejectsIllegalTransitionAtomically(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)

	// mark-completed without passing through RUNNING, batched with a
	// log append: nothing may stick.
	_, err := svc.Update(store.ByID(job.ID), &UpdateRequest{
		Status:    ptr("COMPLETED"),
		AppendLog: ptr("should vanish"),
	})
	var validation *lifecycle.ValidationError
	require.ErrorAs(t, err, &validation)

	reread, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, reread.Status)
	assert.Empty(t, reread.Logs)
}

func TestUpdateLogBatchRollsBackWithFailedEvent(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)

	// heartbeat is only legal while RUNNING; the preceding appends
	// must roll back with it.
	_, err := svc.Update(store.ByID(job.ID), &UpdateRequest{
		AppendLogs:      []string{"one", "two"},
		LatestHeartbeat: ptr(time.Now().UTC()),
	})
	var validation *lifecycle.ValidationError
	require.ErrorAs(t, err, &validation)

	reread, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.Empty(t, reread.Logs)
	assert.Nil(t, reread.LatestHeartbeat)
}

func TestUpdateCannotRequestQueued(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)

	_, err := svc.Update(store.ByID(job.ID), &UpdateRequest{
		Status: ptr("QUEUED"),
	})
	var validation *lifecycle.ValidationError
	require.ErrorAs(t, err, &validation)

	reread, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, reread.Status)
}

func TestUpdateEmptyPayloadRejected(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)

	_, err := svc.Update(store.ByID(job.ID), &UpdateRequest{})
	var validation *lifecycle.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestUpdateNotFound(t *testing.T) {
	svc := testService(t, openTestDB(t))

	_, err := svc.Update(store.ByToken(uuid.New()), &UpdateRequest{
		AppendLog: ptr("hello"),
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRevokeThenRevokeAgainRejected(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)

	revoked, err := svc.Revoke(store.ByID(job.ID))
	require.NoError(t, err)
	assert.Equal(t, models.StatusRevoked, revoked.Status)
	assert.Nil(t, revoked.CompletedAt)

	_, err = svc.Revoke(store.ByID(job.ID))
	var validation *lifecycle.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestConcurrentAppendsThroughService(t *testing.T) {
	db := openTestDB(t)
	seedSystem(t, db)
	svc := testService(t, db)

	job := seedPendingJob(t, svc, 5)

	var (
		writers = 6
		appends = 4
		wg      sync.WaitGroup
	)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// services are cheap per-caller values; give each
			// goroutine its own, sharing the connection.
			caller := testService(t, db)
			for k := 0; k < appends; k++ {
				_, err := caller.Update(store.ByID(job.ID), &UpdateRequest{
					AppendLog: ptr(entryTag(w, k)),
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	final, err := svc.Get(job.ID)
	require.NoError(t, err)

	for w := 0; w < writers; w++ {
		for k := 0; k < appends; k++ {
			assert.Contains(t, final.Logs, entryTag(w, k))
		}
	}
	assert.Len(t, strings.Split(final.Logs, "\n"), writers*appends)
}

func entryTag(w, k int) string {
	return fmt.Sprintf("writer-%02d-entry-%02d", w, k)
}

func ptr[T any](v T) *T {
	return &v
}
