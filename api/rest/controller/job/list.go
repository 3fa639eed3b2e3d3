package job

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spear-cloud/spear/api/rest/service/job"
)

func List(c echo.Context) error {
	req, err := parseListRequest(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	jobs, err := job.Service(c.Request().Context()).List(req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, jobs)
}

func parseListRequest(c echo.Context) (req *job.ListRequest, err error) {
	req = &job.ListRequest{
		Status:    c.QueryParam("status"),
		PatientID: c.QueryParam("patient_id"),
	}

	if limit := c.QueryParam("limit"); limit != "" {
		if req.Limit, err = strconv.Atoi(limit); err != nil {
			return nil, err
		}
	}

	if offset := c.QueryParam("offset"); offset != "" {
		if req.Offset, err = strconv.Atoi(offset); err != nil {
			return nil, err
		}
	}

	return
}
