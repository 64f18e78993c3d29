package http

import (
	"errors"
	"net/http"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/service"
	"golang-stock-importer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// respondError maps a service error to its status code and error code.
// Unclassified errors are logged and reported without detail.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	var optErr *pipeline.OptionError
	switch {
	case errors.Is(err, service.ErrStockCodeDuplicate):
		return c.JSON(http.StatusConflict, dto.Fail(dto.CodeStockCodeDuplicate, err.Error()))
	case errors.Is(err, service.ErrStockNotFound):
		return c.JSON(http.StatusNotFound, dto.Fail(dto.CodeStockNotFound, err.Error()))
	case errors.Is(err, service.ErrNoData):
		return c.JSON(http.StatusNotFound, dto.Fail(dto.CodeNotFound, err.Error()))
	case errors.As(err, &optErr):
		return c.JSON(http.StatusBadRequest, dto.Fail(dto.CodeValidationError, err.Error()))
	}

	switch pipeline.KindOf(err) {
	case pipeline.KindNotFound:
		return c.JSON(http.StatusNotFound, dto.Fail(dto.CodeStockNotFound, err.Error()))
	case pipeline.KindBadFormat:
		return c.JSON(http.StatusBadRequest, dto.Fail(dto.CodeInvalidCSVFormat, err.Error()))
	}

	log.ErrorContext(c.Request().Context(), "Request failed",
		logger.StringField("path", c.Path()), logger.ErrorField(err))
	return c.JSON(http.StatusInternalServerError, dto.Fail(dto.CodeInternalServerError, "internal server error"))
}

func validationError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, dto.Fail(dto.CodeValidationError, err.Error()))
}
