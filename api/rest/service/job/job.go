package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/spear-cloud/spear/internal/lifecycle"
	"github.com/spear-cloud/spear/internal/models"
	"github.com/spear-cloud/spear/internal/store"
	"github.com/spear-cloud/spear/pkg/db"
	"github.com/spear-cloud/spear/pkg/env"
	"github.com/spear-cloud/spear/pkg/jsonmap"
	"gorm.io/gorm"
)

// Job exposes the spear job lifecycle operations: the read-only
// query facade, creation, and the serialized update path every
// mutation funnels through.
type Job interface {
	WithDatabase(*gorm.DB) Job
	WithLifecycle(*lifecycle.Machine) Job
	Get(uint) (*models.SpearJob, error)
	GetByToken(uuid.UUID) (*models.SpearJob, error)
	List(*ListRequest) (models.SpearJobs, error)
	Create(*CreateRequest) (*models.SpearJob, error)
	Apply(store.Identifier, ...lifecycle.Event) (*models.SpearJob, error)
	Update(store.Identifier, *UpdateRequest) (*models.SpearJob, error)
	Revoke(store.Identifier) (*models.SpearJob, error)
}

type jobService struct {
	ctx     context.Context
	db      *gorm.DB
	machine *lifecycle.Machine
}

// Service returns a job service bound to the request context.
func Service(ctx context.Context) Job {
	return &jobService{ctx: ctx}
}

func (j *jobService) WithDatabase(conn *gorm.DB) Job {
	if conn != nil {
		j.db = conn
	}
	return j
}

func (j *jobService) WithLifecycle(machine *lifecycle.Machine) Job {
	if machine != nil {
		j.machine = machine
	}
	return j
}

func (j *jobService) connection() *gorm.DB {
	if j.db == nil {
		j.db = db.Connection()
	}
	return j.db
}

func (j *jobService) store() *store.Store {
	return store.New(j.connection())
}

func (j *jobService) lifecycle() *lifecycle.Machine {
	if j.machine == nil {
		j.machine = lifecycle.NewMachine(
			lifecycle.NewServerResolver(env.Variables().Servers),
		)
	}
	return j.machine
}

func (j *jobService) Get(id uint) (*models.SpearJob, error) {
	return j.store().Get(j.ctx, store.ByID(id))
}

func (j *jobService) GetByToken(token uuid.UUID) (*models.SpearJob, error) {
	return j.store().Get(j.ctx, store.ByToken(token))
}

// ListRequest narrows the jobs returned by List.
type ListRequest struct {
	Status    string
	PatientID string
	Limit     int
	Offset    int
}

func (j *jobService) List(req *ListRequest) (models.SpearJobs, error) {
	return j.store().List(j.ctx, store.ListFilter{
		Status:    models.Status(req.Status),
		PatientID: req.PatientID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
}

// CreateRequest is the write-once business payload of a job.
// Status is only set internally, by the dispatch bridge forcing a
// publish-accepted record straight to QUEUED.
type CreateRequest struct {
	PatientID        string                 `json:"patient_id"`
	TaskToken        string                 `json:"task_token,omitempty"`
	WorkflowName     string                 `json:"workflow_name"`
	WorkflowConfig   map[string]interface{} `json:"workflow_config"`
	RayStationSystem string                 `json:"raystation_system"`
	Priority         int                    `json:"priority,omitempty"`
	Status           models.Status          `json:"-"`
}

func (j *jobService) Create(req *CreateRequest) (*models.SpearJob, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	system, err := j.store().SystemByName(j.ctx, req.RayStationSystem)
	if err != nil {
		return nil, err
	}

	job := &models.SpearJob{
		PatientID:          req.PatientID,
		WorkflowName:       req.WorkflowName,
		WorkflowConfig:     jsonmap.FromMap(req.WorkflowConfig),
		RayStationSystemID: system.ID,
		Priority:           req.Priority,
		Status:             req.Status,
	}

	if req.TaskToken != "" {
		token, err := uuid.Parse(req.TaskToken)
		if err != nil {
			return nil, &lifecycle.ValidationError{
				Field:  "task_token",
				Reason: "malformed task token",
			}
		}
		job.TaskToken = &token
	}

	if err := j.store().Create(j.ctx, job); err != nil {
		return nil, err
	}

	job.RayStationSystem = system
	return job, nil
}

func (r *CreateRequest) validate() error {
	if r.PatientID == "" {
		return &lifecycle.ValidationError{Field: "patient_id", Reason: "required"}
	}
	if r.WorkflowName == "" {
		return &lifecycle.ValidationError{Field: "workflow_name", Reason: "required"}
	}
	if r.RayStationSystem == "" {
		return &lifecycle.ValidationError{Field: "raystation_system", Reason: "required"}
	}

	if r.Priority == 0 {
		r.Priority = models.PriorityDefault
	}
	if err := lifecycle.ValidatePriority(r.Priority); err != nil {
		return err
	}

	switch r.Status {
	case "":
		r.Status = models.StatusPending
	case models.StatusPending, models.StatusQueued:
	default:
		return &lifecycle.ValidationError{
			Field:  "status",
			Reason: "jobs can only be created as PENDING or QUEUED",
		}
	}

	return nil
}
