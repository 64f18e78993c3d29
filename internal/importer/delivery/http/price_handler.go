package http

import (
	"net/http"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/service"
	"golang-stock-importer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PriceHandler handles price import, query and delete requests.
type PriceHandler struct {
	priceService service.StockPriceService
	maxBytes     int64
	logger       *logger.Logger
}

// NewPriceHandler creates a new PriceHandler accepting uploads up to maxBytes.
func NewPriceHandler(priceService service.StockPriceService, maxBytes int64, logger *logger.Logger) *PriceHandler {
	return &PriceHandler{priceService: priceService, maxBytes: maxBytes, logger: logger}
}

// RegisterRoutes registers the price routes under the stocks group.
func (h *PriceHandler) RegisterRoutes(g *echo.Group, importMiddleware ...echo.MiddlewareFunc) {
	g.POST("/:stockCode/import/csv", h.ImportCSV, importMiddleware...)
	g.GET("/:stockCode/prices", h.GetPrices)
	g.DELETE("/:stockCode/prices", h.DeletePrices)
}

// ImportCSV godoc
// @Summary Import daily prices from CSV
// @Description Columns: 日付,始値,高値,安値,終値,出来高
// @Tags prices
// @Accept  multipart/form-data
// @Produce  json
// @Param   stockCode          path      string true  "Stock code"
// @Param   file               formData  file   true  "Price CSV"
// @Param   duplicateStrategy  formData  string false "skip or overwrite"
// @Success 200 {object} dto.Response{data=pipeline.Result}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 415 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /stocks/{stockCode}/import/csv [post]
func (h *PriceHandler) ImportCSV(c echo.Context) error {
	text, upErr := readCSVUpload(c, h.maxBytes)
	if upErr != nil {
		return upErr.respond(c)
	}

	strategy := pipeline.DuplicateStrategy(c.FormValue("duplicateStrategy"))
	result, err := h.priceService.ImportFromCSV(c.Request().Context(), c.Param("stockCode"), text, strategy)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(result))
}

// GetPrices godoc
// @Summary List daily prices
// @Tags prices
// @Produce  json
// @Param   stockCode  path   string true  "Stock code"
// @Param   startDate  query  string false "YYYY-MM-DD"
// @Param   endDate    query  string false "YYYY-MM-DD"
// @Param   limit      query  int    false "Maximum rows"
// @Success 200 {object} dto.Response{data=[]dto.PriceResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{stockCode}/prices [get]
func (h *PriceHandler) GetPrices(c echo.Context) error {
	q, err := dateRangeQuery(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	prices, err := h.priceService.GetPrices(c.Request().Context(), c.Param("stockCode"), q)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(prices))
}

// DeletePrices godoc
// @Summary Delete daily prices in a date range
// @Tags prices
// @Produce  json
// @Param   stockCode  path   string true  "Stock code"
// @Param   startDate  query  string false "YYYY-MM-DD"
// @Param   endDate    query  string false "YYYY-MM-DD"
// @Success 200 {object} dto.Response{data=dto.DeleteResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{stockCode}/prices [delete]
func (h *PriceHandler) DeletePrices(c echo.Context) error {
	resp, err := h.priceService.DeleteByDateRange(c.Request().Context(),
		c.Param("stockCode"), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(resp))
}
