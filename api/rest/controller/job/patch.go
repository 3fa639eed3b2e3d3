package job

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/rest/service/job"
	"github.com/spear-cloud/spear/internal/store"
	"github.com/spear-cloud/spear/pkg/log"
)

func Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	return patch(c, store.ByID(id))
}

// PatchByToken applies a partial update addressed by task token,
// the path the queue workers use.
func PatchByToken(c echo.Context) error {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	return patch(c, store.ByToken(token))
}

func patch(c echo.Context, ident store.Identifier) error {
	req := &job.UpdateRequest{}

	if err := c.Bind(req); err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	j, err := job.Service(c.Request().Context()).Update(ident, req)
	if err != nil {
		log.Warn("spear job update rejected", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, j)
}
