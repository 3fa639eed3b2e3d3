package models

import (
	"fmt"
	"time"
)

// RayStationSystem identifies a physical RayStation execution
// environment jobs run against. Rows are static reference data;
// many SpearJobs reference one system.
type RayStationSystem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SystemName string    `gorm:"type:text;uniqueIndex;not null" json:"system_name"`
	SystemUID  string    `gorm:"type:text;uniqueIndex;not null" json:"system_uid"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (s *RayStationSystem) String() string {
	return fmt.Sprintf("%s (%s)", s.SystemName, s.SystemUID)
}

type RayStationSystems []*RayStationSystem
