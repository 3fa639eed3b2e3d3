package main

import (
	"github.com/spear-cloud/spear/cmd"
	"github.com/spear-cloud/spear/pkg/env"
	"github.com/spear-cloud/spear/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("spear failure", "error", err)
	}
}
