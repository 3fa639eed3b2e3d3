package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/spear-cloud/spear/pkg/jsonmap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status enumerates the lifecycle states of a SpearJob.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusQueued    Status = "QUEUED"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRevoked   Status = "REVOKED"
)

// Terminal reports whether no further transition is permitted
// out of the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRevoked:
		return true
	}
	return false
}

// Priority bounds for a SpearJob. The broker queue is declared
// with x-max-priority matching PriorityMax.
const (
	PriorityMin     = 1
	PriorityMax     = 10
	PriorityDefault = 5
)

// SpearJob tracks one asynchronous radiotherapy planning workflow
// dispatched to the priority task queue.
//
// TaskToken is the broker-issued identifier, assigned once when the
// publish is accepted and immutable afterwards; it doubles as the
// alternate lookup key. Logs only ever grows, newline-separated.
// ServerName is derived from WorkerName and never set independently.
type SpearJob struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	TaskToken          *uuid.UUID        `gorm:"type:uuid;uniqueIndex" json:"task_token,omitempty"`
	PatientID          string            `gorm:"type:text;not null" json:"patient_id"`
	WorkflowName       string            `gorm:"type:text;not null" json:"workflow_name"`
	WorkflowConfig     datatypes.JSONMap `gorm:"type:json" json:"workflow_config"`
	RayStationSystemID uint              `gorm:"index;not null" json:"-"`
	RayStationSystem   *RayStationSystem `gorm:"constraint:OnDelete:CASCADE" json:"raystation_system,omitempty"`
	Priority           int               `gorm:"not null;default:5" json:"priority"`
	Status             Status            `gorm:"type:text;index;not null;default:'PENDING'" json:"status"`
	WorkerName         string            `gorm:"type:text" json:"worker_name,omitempty"`
	ServerName         string            `gorm:"type:text;index" json:"server_name,omitempty"`
	Logs               string            `json:"logs,omitempty"`
	Result             string            `json:"result,omitempty"`
	Error              string            `json:"error,omitempty"`
	CreatedAt          time.Time         `gorm:"not null" json:"created_at"`
	StartedAt          *time.Time        `json:"started_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	LatestHeartbeat    *time.Time        `json:"latest_heartbeat,omitempty"`
	UpdatedAt          time.Time         `gorm:"not null" json:"updated_at"`
}

// AfterFind restores the workflow config to the shape it was written
// with: scanning the JSON column yields json.Number values where the
// creator supplied float64.
func (j *SpearJob) AfterFind(tx *gorm.DB) error {
	j.WorkflowConfig = jsonmap.Normalize(j.WorkflowConfig)
	return nil
}

type SpearJobs []*SpearJob
