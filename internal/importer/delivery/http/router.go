package http

import (
	_ "golang-stock-importer/internal/importer/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	swagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Stock  *StockHandler
	Price  *PriceHandler
	News   *NewsHandler
	Health *HealthHandler
}

// NewRouter builds the echo instance with middleware and every route.
// Import uploads share limiter.
func NewRouter(h Handlers, limiter *rate.Limiter, allowOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(RequestContext())
	e.Use(middleware.Recover())
	if len(allowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: allowOrigins}))
	}

	h.Health.RegisterRoutes(e)

	stocks := e.Group("/api/v1/stocks")
	h.Stock.RegisterRoutes(stocks)
	h.Price.RegisterRoutes(stocks, RateLimit(limiter))
	h.News.RegisterRoutes(stocks, RateLimit(limiter))

	e.GET("/swagger/*", swagger.WrapHandler)
	return e
}
