package planlimits

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-tracker/internal/platform/httpclient"
)

var ErrPlansNotConfigured = errors.New("plans service not configured")

// Config del cliente del servicio de planes (billing).
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type limitsResponse struct {
	MaxSchedules      int `json:"max_schedules"`
	MaxInventoryItems int `json:"max_inventory_items"`
}

// GetLimits trae los topes del plan de un usuario.
func (c *Client) GetLimits(ctx context.Context, userID string) (limitsResponse, error) {
	if !c.IsConfigured() {
		return limitsResponse{}, ErrPlansNotConfigured
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-Api-Key"] = c.apiKey
	}

	var out limitsResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/v1/users/"+userID+"/limits", headers, nil, &out)
	if err != nil {
		return limitsResponse{}, err
	}
	return out, nil
}
