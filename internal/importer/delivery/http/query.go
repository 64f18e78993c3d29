package http

import (
	"strconv"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/pipeline"

	"github.com/labstack/echo/v4"
)

func dateRangeQuery(c echo.Context) (dto.DateRangeQuery, error) {
	q := dto.DateRangeQuery{
		StartDate: c.QueryParam("startDate"),
		EndDate:   c.QueryParam("endDate"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, &pipeline.OptionError{Option: "limit", Value: raw, Reason: "must be an integer"}
		}
		q.Limit = limit
	}
	if err := c.Validate(&q); err != nil {
		return q, &pipeline.OptionError{Option: "limit", Value: strconv.Itoa(q.Limit), Reason: "must be between 0 and 10000"}
	}
	return q, nil
}
