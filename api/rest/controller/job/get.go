package job

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/rest/service/job"
)

func Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	j, err := job.Service(c.Request().Context()).Get(id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, j)
}

// GetByToken resolves a job through its broker-issued task token.
func GetByToken(c echo.Context) error {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	j, err := job.Service(c.Request().Context()).GetByToken(token)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, j)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
