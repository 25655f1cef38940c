package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const fxSymbols = "USD,EUR,GBP"

type fxClient struct {
	baseURL string
	client  *http.Client
}

func NewFXClient(cfg Config) *fxClient {
	return &fxClient{
		baseURL: strings.TrimRight(cfg.FXBaseURL, "/"),
		client:  externalHTTPClient,
	}
}

type fxRatesResponse struct {
	Rates struct {
		USD decimal.Decimal `json:"USD"`
		EUR decimal.Decimal `json:"EUR"`
		GBP decimal.Decimal `json:"GBP"`
	} `json:"rates"`
}

// FetchRates returns the historical DKK rates for the given date. Callers
// pass the week-end date, not the week-start.
func (c *fxClient) FetchRates(ctx context.Context, asOf time.Time) (RateSnapshot, error) {
	apiURL := fmt.Sprintf("%s/%s?base=%s&symbols=%s",
		c.baseURL, asOf.UTC().Format("2006-01-02"), BaseCurrency, fxSymbols)

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("fetching rates: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return RateSnapshot{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != 200 {
		return RateSnapshot{}, fmt.Errorf("FX API returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed fxRatesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return RateSnapshot{}, fmt.Errorf("parsing response: %w", err)
	}

	snapshot := RateSnapshot{
		USDPerDKK: parsed.Rates.USD,
		EURPerDKK: parsed.Rates.EUR,
		GBPPerDKK: parsed.Rates.GBP,
	}
	for symbol, rate := range map[string]decimal.Decimal{
		"USD": snapshot.USDPerDKK,
		"EUR": snapshot.EURPerDKK,
		"GBP": snapshot.GBPPerDKK,
	} {
		if !rate.IsPositive() {
			return RateSnapshot{}, fmt.Errorf("FX rate %s=%s is missing or not positive", symbol, rate)
		}
	}
	return snapshot, nil
}
