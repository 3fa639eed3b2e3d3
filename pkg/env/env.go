package env

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spear-cloud/spear/pkg/log"
)

var variables = new(Environment)

// Process the environment variables set for spear.
func Process() error {
	if err := envconfig.Process("spear", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	// set the log level
	if err := log.SetLevelFromString(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used by spear.
type Environment struct {
	LogLevel     string `default:"info"`
	Port         int    `default:"8080"`
	DatabaseType string `default:"postgres"`
	DatabaseDSN  string `default:"host=postgres user=postgres password=postgres dbname=spear port=5432 sslmode=disable"`

	// Servers maps worker-name tokens onto canonical server names,
	// in match-priority order, e.g. "sp1=SP1,sp2=SP2". The first
	// token found within a worker name wins.
	Servers []string `default:"sp1=SP1,sp2=SP2"`
}
