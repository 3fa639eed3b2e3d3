package start

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spear-cloud/spear/api"
	"github.com/spear-cloud/spear/pkg/db"
	"github.com/spear-cloud/spear/pkg/log"
	"github.com/spf13/cobra"
)

const (
	usage   = "start"
	short   = "Start a spear job tracking instance"
	long    = "This command starts a spear job tracking instance"
	example = "spear start"
)

// Cmd is the start command.
var Cmd = &cobra.Command{
	Use:        usage,
	Short:      short,
	Long:       long,
	Aliases:    []string{"s"},
	SuggestFor: []string{"launch", "boot", "up", "run", "begin"},
	Example:    example,
	RunE:       start,
}

func start(cmd *cobra.Command, args []string) error {
	signalChan := make(chan os.Signal, 1)

	go func() {
		for s := range signalChan {
			if s == syscall.SIGINT {
				log.Info("gracefully shutting down due to SIGINT signal")
				os.Exit(0)
			}
		}
	}()

	signal.Notify(signalChan, syscall.SIGINT)

	log.Info("migrating database")
	if err := db.Migrate(); err != nil {
		log.Fatal("database migration failure", "error", err)
	}

	log.Info("spinning up api")
	return api.Start()
}
