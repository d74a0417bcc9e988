package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"portfolioapi/internal/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// YahooClient is a Gateway backed by the Yahoo Finance chart API.
type YahooClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client; instrumented with otelhttp by default.
	httpClient HTTPClient
	// userAgent is sent with each request.
	userAgent string
}

// YahooClientOption is a configuration option for the Yahoo client.
type YahooClientOption func(*YahooClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) YahooClientOption {
	return func(c *YahooClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) YahooClientOption {
	return func(c *YahooClient) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) YahooClientOption {
	return func(c *YahooClient) {
		c.userAgent = ua
	}
}

// NewYahooClient creates a new Yahoo Finance gateway client.
func NewYahooClient(timeout time.Duration, options ...YahooClientOption) *YahooClient {
	c := &YahooClient{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: "portfolioapi/1.0",
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ Gateway = (*YahooClient)(nil)

// chartResponse mirrors the subset of the chart API payload we consume.
// Price arrays use pointers because the API emits nulls for gap days.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote returns the latest regular market price for the ticker.
func (c *YahooClient) Quote(ctx context.Context, ticker string) (*model.Quote, error) {
	cr, err := c.fetchChart(ctx, ticker, "1d")
	if err != nil {
		return nil, err
	}

	meta := cr.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 && meta.RegularMarketTime == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	return &model.Quote{
		Ticker:   meta.Symbol,
		Price:    meta.RegularMarketPrice,
		Currency: meta.Currency,
		AsOf:     time.Unix(meta.RegularMarketTime, 0).UTC(),
	}, nil
}

// History returns daily candles for the requested range. An unknown ticker
// yields an empty slice, not an error.
func (c *YahooClient) History(ctx context.Context, ticker, rng string) ([]model.Candle, error) {
	cr, err := c.fetchChart(ctx, ticker, rng)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return []model.Candle{}, nil
		}
		return nil, err
	}

	result := cr.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []model.Candle{}, nil
	}
	q := result.Indicators.Quote[0]

	candles := make([]model.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Skip gap days where the API reports null prices.
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		candle := model.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			candle.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			candle.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			candle.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			candle.Volume = *q.Volume[i]
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func (c *YahooClient) fetchChart(ctx context.Context, ticker, rng string) (*chartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", c.baseURL, url.PathEscape(ticker), url.QueryEscape(rng))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUnavailable, resp.StatusCode)
	}

	var cr chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNoData, ticker, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	return &cr, nil
}
