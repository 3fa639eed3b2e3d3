package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spear-cloud/spear/internal/models"
)

// EventType enumerates the lifecycle events a SpearJob can receive.
type EventType string

const (
	EventEnqueueAccepted EventType = "enqueue-accepted"
	EventMarkRunning     EventType = "mark-running"
	EventMarkCompleted   EventType = "mark-completed"
	EventMarkFailed      EventType = "mark-failed"
	EventRevoke          EventType = "revoke"
	EventAssignWorker    EventType = "assign-worker"
	EventAppendLog       EventType = "append-log"
	EventHeartbeat       EventType = "heartbeat"
)

// Event carries one lifecycle event and its payload. At is the event
// timestamp; when zero the current time is used.
type Event struct {
	Type       EventType
	TaskToken  *uuid.UUID
	WorkerName string
	Result     string
	Error      string
	Logs       []string
	At         time.Time
}

// Machine applies lifecycle events to SpearJob records. It is pure
// logic over the record passed in; persistence and locking are the
// caller's concern.
type Machine struct {
	resolver *ServerResolver
}

func NewMachine(resolver *ServerResolver) *Machine {
	return &Machine{resolver: resolver}
}

// Apply mutates job according to the transition table. On a
// ValidationError the job must be considered dirty and discarded;
// callers apply events inside a transaction and roll back.
func (m *Machine) Apply(job *models.SpearJob, e Event) error {
	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	switch e.Type {
	case EventEnqueueAccepted:
		return m.enqueue(job, e)

	case EventMarkRunning:
		if job.Status != models.StatusQueued && job.Status != models.StatusPending {
			return invalidTransition(job.Status, e.Type)
		}
		job.Status = models.StatusRunning
		job.StartedAt = &at
		m.assignWorker(job, e.WorkerName)

	case EventMarkCompleted:
		if job.Status != models.StatusRunning {
			return invalidTransition(job.Status, e.Type)
		}
		job.Status = models.StatusCompleted
		job.CompletedAt = &at
		job.Result = e.Result

	case EventMarkFailed:
		if job.Status != models.StatusRunning && job.Status != models.StatusQueued {
			return invalidTransition(job.Status, e.Type)
		}
		job.Status = models.StatusFailed
		job.CompletedAt = &at
		job.Error = e.Error

	case EventRevoke:
		if job.Status.Terminal() {
			return invalidTransition(job.Status, e.Type)
		}
		job.Status = models.StatusRevoked

	case EventAssignWorker:
		if job.Status.Terminal() {
			return invalidTransition(job.Status, e.Type)
		}
		m.assignWorker(job, e.WorkerName)

	case EventAppendLog:
		for _, line := range e.Logs {
			appendLog(job, line)
		}

	case EventHeartbeat:
		if job.Status != models.StatusRunning {
			return invalidTransition(job.Status, e.Type)
		}
		job.LatestHeartbeat = &at

	default:
		return invalid("event", "unknown event type %q", e.Type)
	}

	return nil
}

// enqueue admits a freshly created record into the queue, binding
// the broker-issued task token permanently.
func (m *Machine) enqueue(job *models.SpearJob, e Event) error {
	if job.Status != models.StatusPending {
		return invalidTransition(job.Status, EventEnqueueAccepted)
	}
	if e.TaskToken == nil {
		return invalid("task_token", "enqueue requires a broker task token")
	}
	if job.TaskToken != nil && *job.TaskToken != *e.TaskToken {
		return invalid("task_token", "task token is immutable once assigned")
	}

	token := *e.TaskToken
	job.TaskToken = &token
	job.Status = models.StatusQueued
	job.Priority = ClampPriority(job.Priority)

	return nil
}

// assignWorker records the claiming worker and recomputes the
// derived server name. ServerName is never written independently.
func (m *Machine) assignWorker(job *models.SpearJob, workerName string) {
	job.WorkerName = workerName
	job.ServerName = m.resolver.Resolve(workerName)
}

// appendLog grows the log text by one entry. The first entry is
// stored bare, later ones newline-separated; existing text is never
// rewritten.
func appendLog(job *models.SpearJob, text string) {
	if job.Logs == "" {
		job.Logs = text
		return
	}
	job.Logs = job.Logs + "\n" + text
}

// ClampPriority forces a broker priority into the valid range.
func ClampPriority(priority int) int {
	if priority < models.PriorityMin {
		return models.PriorityMin
	}
	if priority > models.PriorityMax {
		return models.PriorityMax
	}
	return priority
}

// ValidatePriority rejects priorities outside the valid range.
func ValidatePriority(priority int) error {
	if priority < models.PriorityMin || priority > models.PriorityMax {
		return invalid(
			"priority",
			"must be between %d and %d, got %d",
			models.PriorityMin, models.PriorityMax, priority,
		)
	}
	return nil
}

// ParseStatusEvent maps a requested status onto the transition event
// reaching it. Used by the API layer, which accepts partial updates
// carrying a target status rather than an event name. QUEUED is not
// requestable: enqueueing binds a broker task token, which only the
// publish path carries.
func ParseStatusEvent(status string) (EventType, error) {
	switch models.Status(strings.ToUpper(status)) {
	case models.StatusQueued:
		return "", invalid("status", "QUEUED is assigned when the queue publish is accepted and cannot be requested")
	case models.StatusRunning:
		return EventMarkRunning, nil
	case models.StatusCompleted:
		return EventMarkCompleted, nil
	case models.StatusFailed:
		return EventMarkFailed, nil
	case models.StatusRevoked:
		return EventRevoke, nil
	}
	return "", invalid("status", "unknown status %q", status)
}

func invalidTransition(from models.Status, event EventType) error {
	return invalid("status", "cannot apply %s to a %s job", event, from)
}
