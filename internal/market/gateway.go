package market

import (
	"context"
	"errors"

	"portfolioapi/internal/model"
)

var (
	// ErrUnavailable means the upstream gateway could not be reached or
	// answered with a server-side failure.
	ErrUnavailable = errors.New("market data unavailable")
	// ErrNoData means the gateway answered but has no data for the ticker.
	ErrNoData = errors.New("no market data for ticker")
)

// Gateway is the external market data collaborator. The service only
// consumes it; providing market data is out of scope.
type Gateway interface {
	// Quote returns the latest known price for a ticker.
	Quote(ctx context.Context, ticker string) (*model.Quote, error)
	// History returns daily candles for the given range (e.g. "1d", "1mo", "5y").
	History(ctx context.Context, ticker, rng string) ([]model.Candle, error)
}
