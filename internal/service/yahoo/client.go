package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"TrendLens/internal/domain/models"
	drepo "TrendLens/internal/domain/repository"
	xhttp "TrendLens/pkg/http"
	applogger "TrendLens/pkg/logger"

	"github.com/cenkalti/backoff/v4"
)

// ErrDataUnavailable is returned when the provider has no usable history
// for the requested symbol and range.
var ErrDataUnavailable = errors.New("yahoo: no data available")

const defaultUserAgent = "Mozilla/5.0 (compatible; TrendLens/1.0)"

// Client pulls OHLCV history from the Yahoo Finance chart API.
type Client struct {
	http      *xhttp.Client
	baseURL   string
	userAgent string
	retryBase time.Duration
	retryMax  time.Duration
	logger    *applogger.Logger
	metrics   drepo.Metrics
}

// New creates a Yahoo chart API client.
func New(baseURL, userAgent string, timeout, retryBase, retryMax time.Duration, lgr *applogger.Logger, m drepo.Metrics) drepo.BarSource {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if retryBase <= 0 {
		retryBase = 500 * time.Millisecond
	}
	if retryMax <= 0 {
		retryMax = 15 * time.Second
	}
	return &Client{
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:   baseURL,
		userAgent: userAgent,
		retryBase: retryBase,
		retryMax:  retryMax,
		logger:    lgr,
		metrics:   m,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars fetches OHLCV history for a symbol. Transient provider failures
// are retried with exponential backoff; a well-formed empty answer maps to
// ErrDataUnavailable and is not retried.
func (c *Client) FetchBars(ctx context.Context, symbol string, from, to time.Time, interval drepo.Interval) (*models.RawSeries, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol)
	opts := &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    url,
		Headers: map[string]string{
			"User-Agent": c.userAgent,
		},
		QueryParams: map[string][]string{
			"period1":  {strconv.FormatInt(from.Unix(), 10)},
			"period2":  {strconv.FormatInt(to.Unix(), 10)},
			"interval": {string(interval)},
			"events":   {"history"},
		},
	}

	var parsed chartResponse
	operation := func() error {
		parsed = chartResponse{}
		if err := c.http.SendAndParse(ctx, opts, &parsed); err != nil {
			return err
		}
		if parsed.Chart.Error != nil {
			// provider rejected the symbol or range, retrying will not help
			return backoff.Permanent(fmt.Errorf("yahoo: %s: %s",
				parsed.Chart.Error.Code, parsed.Chart.Error.Description))
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = c.retryBase
	strategy.MaxElapsedTime = c.retryMax

	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		c.metrics.RecordError("yahoo_fetch")
		c.logger.Error("yahoo fetch failed",
			applogger.String("symbol", symbol),
			applogger.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}

	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}

	r := parsed.Chart.Result[0]
	q := r.Indicators.Quote[0]
	if len(r.Timestamp) == 0 || len(q.Close) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}

	series := &models.RawSeries{
		Timestamps: r.Timestamp,
		Open:       q.Open,
		High:       q.High,
		Low:        q.Low,
		Close:      q.Close,
		Volume:     q.Volume,
	}

	c.metrics.RecordFetch("yahoo", symbol)
	c.metrics.RecordLatency("yahoo_fetch", time.Since(start).Seconds())
	c.logger.Debug("yahoo fetch ok",
		applogger.String("symbol", symbol),
		applogger.Int("points", series.Len()))
	return series, nil
}
