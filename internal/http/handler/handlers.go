package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"portfolioapi/internal/market"
	"portfolioapi/internal/model"
	"portfolioapi/internal/repository"
	"portfolioapi/internal/service"
	"portfolioapi/internal/validation"
)

// marketPayload is the combined quote-plus-history response for a ticker.
// Quote is null when the upstream has no price data.
type marketPayload struct {
	Quote   *model.Quote   `json:"quote"`
	History []model.Candle `json:"history"`
}

// HealthCheck checks connectivity to the database dependency. When the
// service runs without a database (file report store), it reports healthy.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// GetMarket proxies quote and historical candles for a ticker from the
// market-data gateway. The optional "range" query overrides defaultRange.
func GetMarket(gw market.Gateway, defaultRange string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticker := c.Params("ticker")
		rng := c.Query("range", defaultRange)

		payload := marketPayload{History: []model.Candle{}}

		quote, err := gw.Quote(c.UserContext(), ticker)
		if err != nil && !errors.Is(err, market.ErrNoData) {
			return writeError(c, fiber.StatusServiceUnavailable, "MARKET_UNAVAILABLE", "market data unavailable")
		}
		payload.Quote = quote

		history, err := gw.History(c.UserContext(), ticker, rng)
		if err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "MARKET_UNAVAILABLE", "market data unavailable")
		}
		if history != nil {
			payload.History = history
		}

		return c.JSON(payload)
	}
}

// GetPortfolio returns the valuation of the holdings for a ticker.
func GetPortfolio(svc service.PortfolioService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ticker := c.Params("ticker")

		valuation, err := svc.Valuation(c.UserContext(), ticker)
		if err != nil {
			if errors.Is(err, market.ErrUnavailable) {
				return writeError(c, fiber.StatusServiceUnavailable, "MARKET_UNAVAILABLE", "market data unavailable")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(valuation)
	}
}

// ValidateUpload accepts a multipart CSV upload (field name: file), validates
// it against the configured schema and persists the resulting report.
func ValidateUpload(svc service.ValidateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		report, err := svc.Validate(c.UserContext(), f, fh.Filename)
		if err != nil {
			switch {
			case errors.Is(err, validation.ErrMalformedInput):
				return writeError(c, fiber.StatusBadRequest, "MALFORMED_INPUT", "file is not parseable as delimited text")
			case errors.Is(err, repository.ErrUnavailable):
				return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "report store unavailable")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(report)
	}
}

// GetReport fetches a persisted validation report by ID.
func GetReport(svc service.ValidateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		report, err := svc.Get(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "report not found")
			case errors.Is(err, repository.ErrUnavailable):
				return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "report store unavailable")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(report)
	}
}

// ListReports lists persisted validation reports with limit & offset.
func ListReports(svc service.ValidateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			if errors.Is(err, repository.ErrUnavailable) {
				return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "report store unavailable")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
