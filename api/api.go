package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/gql"
	rest "github.com/spear-cloud/spear/api/rest/v1"
	"github.com/spear-cloud/spear/pkg/env"
)

// Start launches spear's API.
func Start() error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// health
	e.GET("/health", Health)

	// metrics
	prometheus.NewPrometheus("spear", nil).Use(e)

	// REST
	rest.Bind(e.Group("/v1"))

	// GraphQL
	e.GET("/gql", gql.Handler())
	e.POST("/gql", gql.Handler())

	return e.Start(fmt.Sprintf(":%v", env.Variables().Port))
}
