package job

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/rest/service/job"
	"github.com/spear-cloud/spear/internal/store"
	"github.com/spear-cloud/spear/pkg/log"
)

// Revoke cancels a queued or running job record. In-flight task
// execution is untouched; only the record is marked.
func Revoke(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	j, err := job.Service(c.Request().Context()).Revoke(store.ByID(id))
	if err != nil {
		log.Warn("spear job revoke rejected", "id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, j)
}
