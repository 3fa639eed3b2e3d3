package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/rest/controller/job"
	"github.com/spear-cloud/spear/api/rest/controller/system"
)

// Bind the REST endpoints to the versioned endpoint group.
func Bind(g *echo.Group) {
	// spear jobs
	{
		g.GET("/jobs", job.List)
		g.GET("/jobs/:id", job.Get)
		g.GET("/jobs/by-token/:token", job.GetByToken)
		g.POST("/jobs", job.Post)
		g.PATCH("/jobs/:id", job.Patch)
		g.PATCH("/jobs/by-token/:token", job.PatchByToken)
		g.POST("/jobs/:id/revoke", job.Revoke)
	}

	// raystation systems
	{
		g.GET("/systems", system.List)
		g.GET("/systems/:id", system.Get)
		g.POST("/systems", system.Post)
		g.DELETE("/systems/:id", system.Delete)
	}
}
