package kitchen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"coffeemesh/internal/config"
	domain "coffeemesh/internal/domain/order"
)

// Client gọi kitchen service để đặt và huỷ schedule cho order.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg config.CollaboratorsConfig) *Client {
	return &Client{
		baseURL: cfg.KitchenBaseURL,
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

type scheduleItem struct {
	Product  string `json:"product"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type scheduleRequest struct {
	Order []scheduleItem `json:"order"`
}

type scheduleResponse struct {
	ID string `json:"id"`
}

func toScheduleItems(items []domain.OrderItem) []scheduleItem {
	out := make([]scheduleItem, 0, len(items))
	for _, item := range items {
		out = append(out, scheduleItem{
			Product:  item.Product,
			Size:     string(item.Size),
			Quantity: item.Quantity,
		})
	}
	return out
}

func (c *Client) post(ctx context.Context, url string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call kitchen api: %w", err)
	}
	return resp, nil
}

// Schedule registers the order items with the kitchen and returns the
// schedule id the kitchen assigned.
func (c *Client) Schedule(ctx context.Context, items []domain.OrderItem) (string, error) {
	resp, err := c.post(ctx, c.baseURL+"/schedules", scheduleRequest{Order: toScheduleItems(items)})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("kitchen api status %d", resp.StatusCode)
	}

	var body scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return body.ID, nil
}

// CancelSchedule asks the kitchen to stop preparing a scheduled order.
func (c *Client) CancelSchedule(ctx context.Context, scheduleID string, items []domain.OrderItem) error {
	url := fmt.Sprintf("%s/schedules/%s/cancel", c.baseURL, scheduleID)
	resp, err := c.post(ctx, url, scheduleRequest{Order: toScheduleItems(items)})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kitchen api status %d", resp.StatusCode)
	}
	return nil
}
