package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"portfolioapi/internal/market"
	"portfolioapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	gw market.Gateway,
	portfolioSvc service.PortfolioService,
	validateSvc service.ValidateService,
	historyRange string,
) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/market/:ticker", GetMarket(gw, historyRange))
	api.Get("/portfolio/:ticker", GetPortfolio(portfolioSvc))
	api.Post("/validate", ValidateUpload(validateSvc))
	api.Get("/validate", ListReports(validateSvc))
	api.Get("/validate/:id", GetReport(validateSvc))
}
