package http

import (
	"net/http"
	"strconv"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/service"
	"golang-stock-importer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for stock master data.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListStocks)
	g.POST("", h.CreateStock)
	g.GET("/id/:stockId", h.GetStockByID)
	g.GET("/:stockCode", h.GetStockByCode)
}

// ListStocks godoc
// @Summary List stocks
// @Description List every stock ordered by code
// @Tags stocks
// @Produce  json
// @Success 200 {object} dto.Response{data=[]dto.StockResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) ListStocks(c echo.Context) error {
	stocks, err := h.stockService.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(stocks))
}

// CreateStock godoc
// @Summary Create a stock
// @Description Register a stock with a four character code
// @Tags stocks
// @Accept  json
// @Produce  json
// @Param   stock  body    dto.CreateStockRequest   true    "Stock to create"
// @Success 201 {object} dto.Response{data=dto.StockResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [post]
func (h *StockHandler) CreateStock(c echo.Context) error {
	var req dto.CreateStockRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(c, err)
	}

	stock, err := h.stockService.Create(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, dto.OK(stock))
}

// GetStockByID godoc
// @Summary Get a stock by ID
// @Tags stocks
// @Produce  json
// @Param   stockId  path    int true    "Stock ID"
// @Success 200 {object} dto.Response{data=dto.StockResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/id/{stockId} [get]
func (h *StockHandler) GetStockByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("stockId"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Fail(dto.CodeValidationError, "invalid stock id"))
	}

	stock, err := h.stockService.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(stock))
}

// GetStockByCode godoc
// @Summary Get a stock by code
// @Tags stocks
// @Produce  json
// @Param   stockCode  path    string true    "Stock code"
// @Success 200 {object} dto.Response{data=dto.StockResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{stockCode} [get]
func (h *StockHandler) GetStockByCode(c echo.Context) error {
	stock, err := h.stockService.GetByCode(c.Request().Context(), c.Param("stockCode"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, dto.OK(stock))
}
