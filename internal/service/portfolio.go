package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"portfolioapi/internal/market"
	"portfolioapi/internal/model"
	"portfolioapi/internal/validation"
)

// Holding is one sanitized row of the holdings file: a positive share
// count bought at some price.
type Holding struct {
	Ticker string
	Shares float64
	Price  float64
}

// HoldingsLoader supplies the current holdings. Rows that fail the schema
// are dropped, mirroring upload validation.
type HoldingsLoader func(ctx context.Context) ([]Holding, error)

// PortfolioService values the holdings of a single ticker at the latest
// market price.
type PortfolioService interface {
	Valuation(ctx context.Context, ticker string) (*model.PortfolioValuation, error)
}

type portfolioService struct {
	gateway  market.Gateway
	holdings HoldingsLoader
}

// NewPortfolioService constructs a new PortfolioService.
func NewPortfolioService(gateway market.Gateway, holdings HoldingsLoader) PortfolioService {
	return &portfolioService{gateway: gateway, holdings: holdings}
}

func (s *portfolioService) Valuation(ctx context.Context, ticker string) (*model.PortfolioValuation, error) {
	holdings, err := s.holdings(ctx)
	if err != nil {
		return nil, err
	}

	var totalShares, totalCost float64
	for _, h := range holdings {
		if !strings.EqualFold(h.Ticker, ticker) {
			continue
		}
		totalShares += h.Shares
		totalCost += h.Shares * h.Price
	}

	if totalShares == 0 {
		return &model.PortfolioValuation{Ticker: ticker, Message: "no shares in portfolio"}, nil
	}
	avgCost := totalCost / totalShares

	quote, err := s.gateway.Quote(ctx, ticker)
	if err != nil {
		if errors.Is(err, market.ErrNoData) {
			return &model.PortfolioValuation{
				Ticker:      ticker,
				TotalShares: round2(totalShares),
				Message:     "no price data available",
			}, nil
		}
		return nil, err
	}

	price := quote.Price
	out := &model.PortfolioValuation{
		Ticker:       ticker,
		TotalShares:  round2(totalShares),
		AvgCost:      round2(avgCost),
		CurrentPrice: round2(price),
		Equity:       round2(totalShares * price),
		PnL:          round2((price - avgCost) * totalShares),
	}
	if avgCost != 0 {
		out.ROIPercent = round2((price - avgCost) / avgCost * 100)
	}
	return out, nil
}

// FileHoldings reads holdings from a CSV file validated against the given
// schema. A missing file means no holdings; rows violating the schema or
// with non-positive shares are dropped.
func FileHoldings(path string, schema validation.Schema) HoldingsLoader {
	validator := validation.NewValidator(schema, 0)

	return func(ctx context.Context) ([]Holding, error) {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		defer f.Close()

		report, err := validator.Validate(ctx, f, path)
		if err != nil {
			if errors.Is(err, validation.ErrMalformedInput) {
				return nil, nil
			}
			return nil, err
		}

		badRows := make(map[int]bool, len(report.Issues))
		for _, issue := range report.Issues {
			badRows[issue.Row] = true
		}
		if badRows[0] {
			// The header is missing a required column; nothing usable.
			return nil, nil
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return readHoldings(f, badRows)
	}
}

func readHoldings(r io.Reader, badRows map[int]bool) ([]Holding, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var holdings []Holding
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil
		}
		row++
		if badRows[row] {
			continue
		}

		h := Holding{Ticker: strings.TrimSpace(cell(record, idx, "ticker"))}
		h.Shares, _ = strconv.ParseFloat(cell(record, idx, "shares"), 64)
		h.Price, _ = strconv.ParseFloat(cell(record, idx, "price"), 64)
		if h.Ticker == "" || h.Shares <= 0 {
			continue
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func cell(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
