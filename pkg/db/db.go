package db

import (
	_ "github.com/jackc/pgx/v4"
	"github.com/spear-cloud/spear/internal/models"
	"github.com/spear-cloud/spear/pkg/env"
	"github.com/spear-cloud/spear/pkg/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connection opens a gorm connection to the configured database.
func Connection() *gorm.DB {
	var (
		gdb *gorm.DB
		err error
	)

	switch env.Variables().DatabaseType {
	case "sqlite":
		gdb, err = gorm.Open(
			sqlite.Open(env.Variables().DatabaseDSN),
			&gorm.Config{TranslateError: true},
		)
	case "postgres":
		fallthrough
	default:
		gdb, err = gorm.Open(
			postgres.Open(env.Variables().DatabaseDSN),
			&gorm.Config{TranslateError: true},
		)
	}

	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	return gdb
}

// Migrate creates or updates the spear tables.
func Migrate() error {
	return Connection().AutoMigrate(
		&models.RayStationSystem{},
		&models.SpearJob{},
	)
}
