package system

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spear-cloud/spear/internal/lifecycle"
	"github.com/spear-cloud/spear/internal/models"
	"github.com/spear-cloud/spear/internal/store"
	"github.com/spear-cloud/spear/pkg/db"
	"gorm.io/gorm"
)

// System manages the RayStation system registry: the reference
// entities jobs are created against.
type System interface {
	WithDatabase(*gorm.DB) System
	Get(uint) (*models.RayStationSystem, error)
	List() (models.RayStationSystems, error)
	Create(*CreateRequest) (*models.RayStationSystem, error)
	Delete(uint) error
}

type systemService struct {
	ctx context.Context
	db  *gorm.DB
}

// Service returns a system service bound to the request context.
func Service(ctx context.Context) System {
	return &systemService{ctx: ctx}
}

func (s *systemService) WithDatabase(conn *gorm.DB) System {
	if conn != nil {
		s.db = conn
	}
	return s
}

func (s *systemService) connection() *gorm.DB {
	if s.db == nil {
		s.db = db.Connection()
	}
	return s.db
}

func (s *systemService) Get(id uint) (*models.RayStationSystem, error) {
	system := &models.RayStationSystem{}

	err := s.connection().WithContext(s.ctx).First(system, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrSystemNotFound
		}
		return nil, err
	}

	return system, nil
}

func (s *systemService) List() (models.RayStationSystems, error) {
	systems := make(models.RayStationSystems, 0)

	return systems, s.connection().WithContext(s.ctx).
		Order("id").
		Find(&systems).Error
}

// CreateRequest registers one execution environment. Both the name
// and the UID are unique across the registry.
type CreateRequest struct {
	SystemName string `json:"system_name"`
	SystemUID  string `json:"system_uid"`
}

func (s *systemService) Create(req *CreateRequest) (*models.RayStationSystem, error) {
	if req.SystemName == "" {
		return nil, &lifecycle.ValidationError{Field: "system_name", Reason: "required"}
	}
	if req.SystemUID == "" {
		return nil, &lifecycle.ValidationError{Field: "system_uid", Reason: "required"}
	}

	system := &models.RayStationSystem{
		SystemName: req.SystemName,
		SystemUID:  req.SystemUID,
	}

	if err := s.connection().WithContext(s.ctx).Create(system).Error; err != nil {
		return nil, err
	}

	return system, nil
}

// Delete removes a system. Jobs referencing it cascade away with it;
// this is an administrative action outside the job lifecycle.
func (s *systemService) Delete(id uint) error {
	return s.connection().WithContext(s.ctx).
		Delete(&models.RayStationSystem{}, id).Error
}
