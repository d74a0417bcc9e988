package market

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpClientFunc adapts a function to the HTTPClient interface.
type httpClientFunc func(req *http.Request) (*http.Response, error)

func (f httpClientFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "AAPL", "regularMarketPrice": 150.25, "regularMarketTime": 1767225600},
      "timestamp": [1767052800, 1767139200, 1767225600],
      "indicators": {"quote": [{
        "open":   [148.0, null, 149.5],
        "high":   [151.0, null, 152.0],
        "low":    [147.5, null, 149.0],
        "close":  [150.0, null, 150.25],
        "volume": [1000000, null, 1200000]
      }]}
    }],
    "error": null
  }
}`

const notFoundBody = `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`

func TestYahooClient_Quote(t *testing.T) {
	var gotURL string
	client := NewYahooClient(time.Second,
		WithBaseURL("http://gateway.test"),
		WithHTTPClient(httpClientFunc(func(req *http.Request) (*http.Response, error) {
			gotURL = req.URL.String()
			return jsonResponse(http.StatusOK, chartBody), nil
		})),
	)

	quote, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Ticker)
	assert.Equal(t, 150.25, quote.Price)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), quote.AsOf)
	assert.Contains(t, gotURL, "/v8/finance/chart/AAPL")
	assert.Contains(t, gotURL, "range=1d")
}

func TestYahooClient_QuoteNoData(t *testing.T) {
	client := NewYahooClient(time.Second,
		WithHTTPClient(httpClientFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusNotFound, notFoundBody), nil
		})),
	)

	_, err := client.Quote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooClient_History(t *testing.T) {
	client := NewYahooClient(time.Second,
		WithHTTPClient(httpClientFunc(func(req *http.Request) (*http.Response, error) {
			assert.Contains(t, req.URL.String(), "range=5y")
			return jsonResponse(http.StatusOK, chartBody), nil
		})),
	)

	candles, err := client.History(context.Background(), "AAPL", "5y")
	require.NoError(t, err)

	// The null gap day is skipped.
	require.Len(t, candles, 2)
	assert.Equal(t, 150.0, candles[0].Close)
	assert.Equal(t, int64(1000000), candles[0].Volume)
	assert.Equal(t, 150.25, candles[1].Close)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), candles[1].Date)
}

func TestYahooClient_HistoryUnknownTickerIsEmpty(t *testing.T) {
	client := NewYahooClient(time.Second,
		WithHTTPClient(httpClientFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusNotFound, notFoundBody), nil
		})),
	)

	candles, err := client.History(context.Background(), "XYZ", "5y")
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestYahooClient_Unavailable(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		client := NewYahooClient(time.Second,
			WithHTTPClient(httpClientFunc(func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			})),
		)

		_, err := client.Quote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("upstream 5xx", func(t *testing.T) {
		client := NewYahooClient(time.Second,
			WithHTTPClient(httpClientFunc(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadGateway, "upstream exploded"), nil
			})),
		)

		_, err := client.History(context.Background(), "AAPL", "5y")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("garbage body", func(t *testing.T) {
		client := NewYahooClient(time.Second,
			WithHTTPClient(httpClientFunc(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, "<html>not json</html>"), nil
			})),
		)

		_, err := client.Quote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
