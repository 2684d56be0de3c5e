package orderapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/ikkim/tene-backend/pkg/logger"
)

// Client talks to the external order service
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new order service client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Checkout submits the cart lines and contact details as a new order
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidRequest)
	}

	body, err := c.doRequest(ctx, "checkout", req)
	if err != nil {
		return nil, fmt.Errorf("failed to make checkout request: %w", err)
	}

	var resp CheckoutResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout response: %w", err)
	}
	return &resp, nil
}

// doRequest POSTs payload as JSON to endpoint under the base URL
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)
	logger.Debug("Order service request", map[string]interface{}{
		"url":   url,
		"bytes": len(reqBody),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(body)
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			detail = errResp.Error()
		}

		logger.Warn("Order service returned an error", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
			"detail": detail,
		})

		switch {
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, resp.StatusCode, detail)
		case resp.StatusCode == http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, detail)
		default:
			return nil, fmt.Errorf("%w: status %d: %s", ErrOrderRejected, resp.StatusCode, detail)
		}
	}

	return body, nil
}
