package job

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/rest/service/job"
	"github.com/spear-cloud/spear/pkg/log"
)

func Post(c echo.Context) error {
	req := &job.CreateRequest{}

	if err := c.Bind(req); err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	log.Info(
		"creating spear job",
		"patient_id", req.PatientID,
		"workflow", req.WorkflowName,
		"system", req.RayStationSystem,
	)

	j, err := job.Service(c.Request().Context()).Create(req)
	if err != nil {
		log.Error("failed to create spear job", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, j)
}
