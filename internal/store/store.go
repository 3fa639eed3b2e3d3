// Package store persists SpearJob records and serializes concurrent
// mutations. Every write to an existing record goes through
// UpdateLocked, which holds an exclusive row lock on the target for
// the whole read-modify-write, so at most one writer mutates a given
// job at a time. Different records never block each other.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spear-cloud/spear/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identifier addresses one job record, by internal ID or by the
// broker-issued task token.
type Identifier struct {
	id    uint
	token *uuid.UUID
}

// ByID addresses a record by its internal sequence number.
func ByID(id uint) Identifier {
	return Identifier{id: id}
}

// ByToken addresses a record by its task token.
func ByToken(token uuid.UUID) Identifier {
	return Identifier{token: &token}
}

func (i Identifier) where(q *gorm.DB) *gorm.DB {
	if i.token != nil {
		return q.Where("task_token = ?", *i.token)
	}
	return q.Where("id = ?", i.id)
}

// Store is the transactional home of SpearJob rows.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get resolves a record read-only, with its system reference loaded.
func (s *Store) Get(ctx context.Context, ident Identifier) (*models.SpearJob, error) {
	job := &models.SpearJob{}

	err := ident.where(s.db.WithContext(ctx)).
		Preload("RayStationSystem").
		First(job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return job, nil
}

// ListFilter narrows List results. Zero values mean no constraint.
type ListFilter struct {
	Status    models.Status
	PatientID string
	Limit     int
	Offset    int
}

// List returns records in insertion order.
func (s *Store) List(ctx context.Context, filter ListFilter) (models.SpearJobs, error) {
	var (
		jobs = make(models.SpearJobs, 0)
		q    = s.db.WithContext(ctx).Preload("RayStationSystem").Order("id")
	)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	return jobs, q.Find(&jobs).Error
}

// Create inserts a new record. A task token collision maps onto
// ErrDuplicateToken via the unique index, which is what makes the
// dispatch bridge's publish handling idempotent.
func (s *Store) Create(ctx context.Context, job *models.SpearJob) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateToken
		}
		return err
	}
	return nil
}

// UpdateLocked runs mutate against the addressed record inside a
// transaction holding an exclusive row lock (SELECT ... FOR UPDATE)
// on it. The lock is held for the full read-modify-write and released
// on commit or rollback; any error from mutate aborts the whole
// update with no partial effect.
func (s *Store) UpdateLocked(
	ctx context.Context,
	ident Identifier,
	mutate func(*models.SpearJob) error,
) (*models.SpearJob, error) {
	var updated *models.SpearJob

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job := &models.SpearJob{}

		err := ident.where(tx.Clauses(clause.Locking{Strength: "UPDATE"})).
			First(job).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := mutate(job); err != nil {
			return err
		}

		if err := tx.Save(job).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateToken
			}
			return err
		}

		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SystemByName resolves a RayStation system reference.
func (s *Store) SystemByName(ctx context.Context, name string) (*models.RayStationSystem, error) {
	system := &models.RayStationSystem{}

	err := s.db.WithContext(ctx).
		Where("system_name = ?", name).
		First(system).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemNotFound
		}
		return nil, err
	}

	return system, nil
}
