package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// orderResponse is the order endpoint's synchronous reply.
type orderResponse struct {
	Success bool   `json:"success"`
	OrderID int64  `json:"orderId"`
	Error   string `json:"error"`
}

// Client submits orders to the external order endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client for the given order endpoint URL.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Submit posts the request to the order endpoint and returns the order
// ID on success. A network error, a non-success HTTP status, success:
// false in the body, or a malformed body all yield an error; the error
// message from a success:false body is returned verbatim.
func (c *Client) Submit(ctx context.Context, req OrderRequest) (int64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to encode order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("order submission failed: %w", err)
	}
	defer resp.Body.Close()

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("order endpoint returned an unreadable response (status %d)", resp.StatusCode)
	}
	if !out.Success {
		if out.Error != "" {
			return 0, fmt.Errorf("%s", out.Error)
		}
		return 0, fmt.Errorf("order failed (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("order failed (status %d)", resp.StatusCode)
	}

	return out.OrderID, nil
}
