package job

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/internal/lifecycle"
	"github.com/spear-cloud/spear/internal/store"
)

// httpError maps service failures onto transport errors: validation
// and bad references are the caller's fault, a used token is a
// conflict, everything else stays internal.
func httpError(err error) error {
	var validation *lifecycle.ValidationError

	switch {
	case errors.As(err, &validation):
		return echo.ErrBadRequest.SetInternal(err)
	case errors.Is(err, store.ErrSystemNotFound):
		return echo.ErrBadRequest.SetInternal(err)
	case errors.Is(err, store.ErrNotFound):
		return echo.ErrNotFound
	case errors.Is(err, store.ErrDuplicateToken):
		return echo.ErrConflict.SetInternal(err)
	}

	return echo.ErrInternalServerError.SetInternal(err)
}
