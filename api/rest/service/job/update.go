package job

import (
	"time"

	"github.com/spear-cloud/spear/internal/lifecycle"
	"github.com/spear-cloud/spear/internal/models"
	"github.com/spear-cloud/spear/internal/store"
)

// Apply is the update serializer. It resolves the record under an
// exclusive row lock and runs every event through the state machine
// inside that one transaction, so concurrent callers mutating the
// same job are fully serialized and a validation failure anywhere in
// the batch rolls the whole update back.
func (j *jobService) Apply(
	ident store.Identifier,
	events ...lifecycle.Event,
) (*models.SpearJob, error) {
	machine := j.lifecycle()

	return j.store().UpdateLocked(j.ctx, ident, func(job *models.SpearJob) error {
		for _, event := range events {
			if err := machine.Apply(job, event); err != nil {
				return err
			}
		}
		return nil
	})
}

// Revoke marks a non-terminal job REVOKED. It does not interrupt any
// in-flight task execution; the record is the only thing touched.
func (j *jobService) Revoke(ident store.Identifier) (*models.SpearJob, error) {
	return j.Apply(ident, lifecycle.Event{Type: lifecycle.EventRevoke})
}

// UpdateRequest is the partial update payload accepted from the API
// layer. Field-level semantics are delegated to the state machine;
// the payload is translated into lifecycle events applied in order
// within a single locked transaction.
type UpdateRequest struct {
	Status          *string    `json:"status,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	WorkerName      *string    `json:"worker_name,omitempty"`
	LatestHeartbeat *time.Time `json:"latest_heartbeat,omitempty"`
	Result          *string    `json:"result,omitempty"`
	Error           *string    `json:"error,omitempty"`
	AppendLog       *string    `json:"append_log,omitempty"`
	AppendLogs      []string   `json:"append_logs,omitempty"`
}

func (j *jobService) Update(ident store.Identifier, req *UpdateRequest) (*models.SpearJob, error) {
	events, err := req.events()
	if err != nil {
		return nil, err
	}

	return j.Apply(ident, events...)
}

// events translates the partial payload into its lifecycle events:
// an optional status transition, an optional bare worker assignment,
// the log appends, then the heartbeat.
func (r *UpdateRequest) events() ([]lifecycle.Event, error) {
	events := make([]lifecycle.Event, 0, 3)
	workerConsumed := false

	if r.Status != nil {
		eventType, err := lifecycle.ParseStatusEvent(*r.Status)
		if err != nil {
			return nil, err
		}

		event := lifecycle.Event{Type: eventType}

		switch eventType {
		case lifecycle.EventMarkRunning:
			if r.StartedAt != nil {
				event.At = *r.StartedAt
			}
			if r.WorkerName != nil {
				event.WorkerName = *r.WorkerName
				workerConsumed = true
			}
		case lifecycle.EventMarkCompleted:
			if r.CompletedAt != nil {
				event.At = *r.CompletedAt
			}
			if r.Result != nil {
				event.Result = *r.Result
			}
		case lifecycle.EventMarkFailed:
			if r.CompletedAt != nil {
				event.At = *r.CompletedAt
			}
			if r.Error != nil {
				event.Error = *r.Error
			}
		}

		events = append(events, event)
	}

	if r.WorkerName != nil && !workerConsumed {
		events = append(events, lifecycle.Event{
			Type:       lifecycle.EventAssignWorker,
			WorkerName: *r.WorkerName,
		})
	}

	logs := make([]string, 0, len(r.AppendLogs)+1)
	if r.AppendLog != nil {
		logs = append(logs, *r.AppendLog)
	}
	logs = append(logs, r.AppendLogs...)
	if len(logs) > 0 {
		events = append(events, lifecycle.Event{
			Type: lifecycle.EventAppendLog,
			Logs: logs,
		})
	}

	if r.LatestHeartbeat != nil {
		events = append(events, lifecycle.Event{
			Type: lifecycle.EventHeartbeat,
			At:   *r.LatestHeartbeat,
		})
	}

	if len(events) == 0 {
		return nil, &lifecycle.ValidationError{
			Field:  "payload",
			Reason: "update payload carries no recognized field",
		}
	}

	return events, nil
}
