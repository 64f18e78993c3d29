package http

import (
	"net/http"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/service"
	"golang-stock-importer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler handles news import, query, delete and duplicate checks.
type NewsHandler struct {
	newsService service.NewsService
	maxBytes    int64
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler accepting uploads up to maxBytes.
func NewNewsHandler(newsService service.NewsService, maxBytes int64, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, maxBytes: maxBytes, logger: logger}
}

// RegisterRoutes registers the news routes under the stocks group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group, importMiddleware ...echo.MiddlewareFunc) {
	g.POST("/:stockCode/news/import/csv", h.ImportCSV, importMiddleware...)
	g.POST("/:stockCode/news/check-duplicates", h.CheckDuplicates)
	g.GET("/:stockCode/news", h.GetNews)
	g.DELETE("/:stockCode/news", h.DeleteNews)
}

// ImportCSV godoc
// @Summary Import news from CSV
// @Description Columns: 公開日時,タイトル,要約,URL,ソース,センチメント,センチメントスコア
// @Tags news
// @Accept  multipart/form-data
// @Produce  json
// @Param   stockCode          path      string true  "Stock code"
// @Param   file               formData  file   true  "News CSV"
// @Param   duplicateStrategy  formData  string false "skip or overwrite"
// @Param   dateFrom           formData  string false "YYYY-MM-DD"
// @Param   dateTo             formData  string false "YYYY-MM-DD"
// @Success 200 {object} dto.Response{data=pipeline.Result}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 415 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /stocks/{stockCode}/news/import/csv [post]
func (h *NewsHandler) ImportCSV(c echo.Context) error {
	text, upErr := readCSVUpload(c, h.maxBytes)
	if upErr != nil {
		return upErr.respond(c)
	}

	opts := pipeline.Options{
		DuplicateStrategy: pipeline.DuplicateStrategy(c.FormValue("duplicateStrategy")),
		DateFrom:          c.FormValue("dateFrom"),
		DateTo:            c.FormValue("dateTo"),
	}
	result, err := h.newsService.ImportFromCSV(c.Request().Context(), c.Param("stockCode"), text, opts)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(result))
}

// GetNews godoc
// @Summary List news
// @Tags news
// @Produce  json
// @Param   stockCode  path   string true  "Stock code"
// @Param   startDate  query  string false "YYYY-MM-DD"
// @Param   endDate    query  string false "YYYY-MM-DD"
// @Param   limit      query  int    false "Maximum rows"
// @Success 200 {object} dto.Response{data=[]dto.NewsResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{stockCode}/news [get]
func (h *NewsHandler) GetNews(c echo.Context) error {
	q, err := dateRangeQuery(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	news, err := h.newsService.GetNews(c.Request().Context(), c.Param("stockCode"), q)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(news))
}

// DeleteNews godoc
// @Summary Delete news in a date range
// @Tags news
// @Produce  json
// @Param   stockCode  path   string true  "Stock code"
// @Param   startDate  query  string false "YYYY-MM-DD"
// @Param   endDate    query  string false "YYYY-MM-DD, inclusive"
// @Success 200 {object} dto.Response{data=dto.DeleteResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{stockCode}/news [delete]
func (h *NewsHandler) DeleteNews(c echo.Context) error {
	resp, err := h.newsService.DeleteByDateRange(c.Request().Context(),
		c.Param("stockCode"), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(resp))
}

// CheckDuplicates godoc
// @Summary Check which news keys already exist
// @Tags news
// @Accept  json
// @Produce  json
// @Param   stockCode  path  string                      true "Stock code"
// @Param   body       body  dto.CheckDuplicatesRequest  true "Keys to check"
// @Success 200 {object} dto.Response{data=dto.CheckDuplicatesResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{stockCode}/news/check-duplicates [post]
func (h *NewsHandler) CheckDuplicates(c echo.Context) error {
	var req dto.CheckDuplicatesRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	resp, err := h.newsService.CheckDuplicates(c.Request().Context(), c.Param("stockCode"), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(resp))
}
