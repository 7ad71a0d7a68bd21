package dify

import (
	"context"
	"errors"
	"fmt"
	"time"

	xhttp "TrendLens/pkg/http"
	applogger "TrendLens/pkg/logger"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("dify: api key not configured")

const (
	workflowUser   = "stock-analysis-system"
	defaultTimeout = 600 * time.Second

	// gateway timeouts sometimes race a workflow that did finish, so a
	// limited number of short-timeout retries can recover the result
	gatewayRetries = 3
)

// Client proxies AI workflow runs through the Dify API.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	logger  *applogger.Logger
}

// New creates a Dify workflow client.
func New(baseURL, apiKey string, timeout time.Duration, lgr *applogger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  lgr,
	}
}

type workflowResult struct {
	Data struct {
		Status  string                 `json:"status"`
		Outputs map[string]interface{} `json:"outputs"`
	} `json:"data"`
	Message string `json:"message"`
}

// Run executes the analysis workflow in blocking mode and returns its
// outputs. Partial success with non-empty outputs counts as success.
func (c *Client) Run(ctx context.Context, input, mode string) (map[string]interface{}, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if mode == "" {
		mode = "pro"
	}

	body := map[string]interface{}{
		"inputs": map[string]interface{}{
			"Content": input,
			"model":   mode,
		},
		"response_mode": "blocking",
		"user":          workflowUser,
	}
	opts := &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/workflows/run",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
			"Content-Type":  "application/json",
		},
		Body: body,
	}

	var result workflowResult
	err := c.http.SendAndParse(ctx, opts, &result)
	for attempt := 0; err != nil && attempt < gatewayRetries; attempt++ {
		// increasing wait before each probe
		wait := time.Duration(3+attempt*2) * time.Second
		c.logger.Warn("dify workflow call failed, retrying",
			applogger.Int("attempt", attempt+1),
			applogger.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		result = workflowResult{}
		err = c.http.SendAndParse(ctx, opts, &result)
	}
	if err != nil {
		return nil, fmt.Errorf("dify workflow: %w", err)
	}

	switch result.Data.Status {
	case "succeeded":
	case "partial-succeeded":
		c.logger.Warn("dify workflow partially succeeded, using outputs")
	default:
		return nil, fmt.Errorf("dify workflow ended with status %q", result.Data.Status)
	}
	if len(result.Data.Outputs) == 0 {
		return nil, fmt.Errorf("dify workflow returned empty outputs")
	}
	return result.Data.Outputs, nil
}
