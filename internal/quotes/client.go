package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
	"github.com/JDLondon7/twitter-trading-bot/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Finance chart API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 2

	// DefaultInterval is the default bar interval.
	DefaultInterval = "1h"

	// DefaultRange is the default lookback range.
	DefaultRange = "2d"
)

// Client is a quote-source API client.
type Client struct {
	baseURL    string
	interval   string
	chartRange string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithChartParams sets the bar interval and lookback range.
func WithChartParams(interval, chartRange string) ClientOption {
	return func(c *Client) {
		c.interval = interval
		c.chartRange = chartRange
	}
}

// NewClient creates a new quote client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		interval:   DefaultInterval,
		chartRange: DefaultRange,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetChart retrieves the recent OHLCV series and reference prices for a
// symbol. Quote-source codes use the chart API's format (e.g. "NQ=F").
func (c *Client) GetChart(ctx context.Context, quoteCode string) (*interfaces.QuoteSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{RetryAfter: time.Second}
	}

	params := url.Values{}
	params.Set("interval", c.interval)
	params.Set("range", c.chartRange)

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(quoteCode), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("symbol", quoteCode).
			Str("interval", c.interval).
			Str("range", c.chartRange).
			Msg("Quote API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DataUnavailableError{Symbol: quoteCode, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &DataUnavailableError{
			Symbol:     quoteCode,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &DataUnavailableError{Symbol: quoteCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}

	if parsed.Chart.Error != nil {
		return nil, &DataUnavailableError{Symbol: quoteCode, Message: parsed.Chart.Error.Description}
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &DataUnavailableError{Symbol: quoteCode, Message: "empty chart result"}
	}

	return buildSeries(quoteCode, parsed.Chart.Result[0]), nil
}

// buildSeries converts the wire payload into a QuoteSeries, dropping samples
// with a null close.
func buildSeries(quoteCode string, result chartResult) *interfaces.QuoteSeries {
	quote := result.Indicators.Quote[0]

	series := &interfaces.QuoteSeries{
		Symbol:        quoteCode,
		CurrentPrice:  result.Meta.RegularMarketPrice,
		PreviousClose: result.Meta.PreviousClose,
	}
	if series.PreviousClose == 0 {
		series.PreviousClose = result.Meta.ChartPreviousClose
	}

	for i := range quote.Close {
		if quote.Close[i] == nil {
			continue
		}
		bar := models.Bar{Close: *quote.Close[i]}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		if i < len(result.Timestamp) {
			bar.Timestamp = time.Unix(result.Timestamp[i], 0)
		}
		series.Bars = append(series.Bars, bar)
	}

	return series
}
