package system

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/rest/service/system"
	"github.com/spear-cloud/spear/internal/lifecycle"
	"github.com/spear-cloud/spear/internal/store"
	"github.com/spear-cloud/spear/pkg/log"
)

func Post(c echo.Context) error {
	req := &system.CreateRequest{}

	if err := c.Bind(req); err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	log.Info("registering raystation system", "name", req.SystemName, "uid", req.SystemUID)

	s, err := system.Service(c.Request().Context()).Create(req)
	if err != nil {
		var validation *lifecycle.ValidationError
		if errors.As(err, &validation) {
			return echo.ErrBadRequest.SetInternal(err)
		}
		return echo.ErrInternalServerError.SetInternal(err)
	}

	return c.JSON(http.StatusCreated, s)
}

func Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	s, err := system.Service(c.Request().Context()).Get(id)
	if err != nil {
		if errors.Is(err, store.ErrSystemNotFound) {
			return echo.ErrNotFound
		}
		return echo.ErrInternalServerError.SetInternal(err)
	}

	return c.JSON(http.StatusOK, s)
}

func List(c echo.Context) error {
	systems, err := system.Service(c.Request().Context()).List()
	if err != nil {
		return echo.ErrInternalServerError.SetInternal(err)
	}

	return c.JSON(http.StatusOK, systems)
}

func Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	if err := system.Service(c.Request().Context()).Delete(id); err != nil {
		return echo.ErrInternalServerError.SetInternal(err)
	}

	return c.NoContent(http.StatusAccepted)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}
