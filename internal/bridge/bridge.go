// Package bridge translates the external task queue's lifecycle
// notifications into job record updates. The broker delivers each
// notification at least once; the bridge absorbs redelivery through
// the task token's unique constraint rather than any cache of its
// own. Worker identity always arrives as an explicit argument, never
// as ambient process state.
package bridge

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	jobsvc "github.com/spear-cloud/spear/api/rest/service/job"
	"github.com/spear-cloud/spear/internal/lifecycle"
	"github.com/spear-cloud/spear/internal/models"
	"github.com/spear-cloud/spear/internal/store"
	"github.com/spear-cloud/spear/pkg/log"
	"gorm.io/gorm"
)

// Outcome is the broker's verdict on a finished task.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
)

// PublishPayload is the business payload attached to a queue publish.
type PublishPayload struct {
	PatientID        string                 `json:"patient_id"`
	WorkflowName     string                 `json:"workflow_name"`
	WorkflowConfig   map[string]interface{} `json:"workflow_config"`
	RayStationSystem string                 `json:"raystation_system"`
	Priority         int                    `json:"priority"`
}

// Bridge receives the three task-queue notifications. Each call is
// atomic through the update serializer; none of them block the queue.
type Bridge struct {
	db      *gorm.DB
	machine *lifecycle.Machine
}

func New() *Bridge {
	return &Bridge{}
}

// WithDatabase pins the bridge to a specific connection.
func (b *Bridge) WithDatabase(conn *gorm.DB) *Bridge {
	b.db = conn
	return b
}

// WithLifecycle pins the bridge to a specific state machine.
func (b *Bridge) WithLifecycle(machine *lifecycle.Machine) *Bridge {
	b.machine = machine
	return b
}

func (b *Bridge) service(ctx context.Context) jobsvc.Job {
	return jobsvc.Service(ctx).
		WithDatabase(b.db).
		WithLifecycle(b.machine)
}

// PublishAccepted records a job the broker just admitted to the
// queue. The record is created straight in QUEUED with the
// broker-issued token bound permanently and the priority clamped
// into range. A duplicate token means the broker redelivered the
// notification, or the job was pre-registered with its token over
// the API; either way the record already exists and the call is a
// no-op.
func (b *Bridge) PublishAccepted(ctx context.Context, token uuid.UUID, payload *PublishPayload) error {
	_, err := b.service(ctx).Create(&jobsvc.CreateRequest{
		PatientID:        payload.PatientID,
		TaskToken:        token.String(),
		WorkflowName:     payload.WorkflowName,
		WorkflowConfig:   payload.WorkflowConfig,
		RayStationSystem: payload.RayStationSystem,
		Priority:         lifecycle.ClampPriority(payload.Priority),
		Status:           models.StatusQueued,
	})
	if errors.Is(err, store.ErrDuplicateToken) {
		log.Debug("duplicate publish notification", "task_token", token)
		return nil
	}

	return err
}

// TaskStarted marks the job running under the claiming worker.
func (b *Bridge) TaskStarted(ctx context.Context, token uuid.UUID, workerName string) error {
	_, err := b.service(ctx).Apply(
		store.ByToken(token),
		lifecycle.Event{
			Type:       lifecycle.EventMarkRunning,
			WorkerName: workerName,
		},
	)
	return err
}

// TaskFinished settles the job according to the broker outcome,
// capturing the task result or error text.
func (b *Bridge) TaskFinished(ctx context.Context, token uuid.UUID, outcome Outcome, detail string) error {
	event := lifecycle.Event{}

	switch outcome {
	case OutcomeSuccess:
		event.Type = lifecycle.EventMarkCompleted
		event.Result = detail
	case OutcomeFailure:
		event.Type = lifecycle.EventMarkFailed
		event.Error = detail
	default:
		return &lifecycle.ValidationError{
			Field:  "outcome",
			Reason: "unknown task outcome " + string(outcome),
		}
	}

	_, err := b.service(ctx).Apply(store.ByToken(token), event)
	return err
}
