package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultRatesURL = "https://api.frankfurter.dev/v1"

// RateClient looks up conversion rates from a frankfurter-style HTTP
// API. It satisfies currency.RateSource.
type RateClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewRateClient(baseURL string) *RateClient {
	if baseURL == "" {
		baseURL = defaultRatesURL
	}
	return &RateClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

// Rate returns how many units of to one unit of from is worth. When on
// is non-zero the rate for that date is requested, otherwise the latest.
func (c *RateClient) Rate(ctx context.Context, from, to string, on time.Time) (float64, error) {
	segment := "latest"
	if !on.IsZero() {
		segment = on.Format("2006-01-02")
	}

	query := url.Values{}
	query.Set("base", from)
	query.Set("symbols", to)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		fmt.Sprintf("%s/%s?%s", c.baseURL, segment, query.Encode()),
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request %s->%s: %w", from, to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate request %s->%s failed with status %d", from, to, resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode rate response: %w", err)
	}

	rate, ok := payload.Rates[to]
	if !ok {
		return 0, fmt.Errorf("rate response missing %s", to)
	}
	return rate, nil
}
