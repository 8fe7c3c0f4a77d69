package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"coffeemesh/internal/config"
)

// Client gọi payments service để thu tiền cho order.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg config.CollaboratorsConfig) *Client {
	return &Client{
		baseURL: cfg.PaymentsBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

type chargeRequest struct {
	OrderID string `json:"order_id"`
}

// Charge confirms payment for the order. A status other than 201 counts as
// a failed charge.
func (c *Client) Charge(ctx context.Context, orderID string) error {
	body, err := json.Marshal(chargeRequest{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call payments api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("payments api status %d", resp.StatusCode)
	}
	return nil
}
