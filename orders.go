package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const orderPageLimit = 100

type medusaClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewMedusaClient(cfg Config) *medusaClient {
	return &medusaClient{
		baseURL: strings.TrimRight(cfg.MedusaBaseURL, "/"),
		token:   cfg.MedusaAPIToken,
		client:  externalHTTPClient,
	}
}

type medusaOrderResponse struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	CurrencyCode string `json:"currency_code"`
	Total        *int64 `json:"total"`
}

type medusaOrdersResponse struct {
	Orders []medusaOrderResponse `json:"orders"`
}

// FetchOrders returns every order created in [start, end), paging through
// the storefront API 100 at a time until a short page arrives.
func (c *medusaClient) FetchOrders(ctx context.Context, start, end time.Time) ([]Order, error) {
	var allOrders []Order
	offset := 0

	for {
		q := url.Values{}
		q.Set("created_at[gte]", start.UTC().Format(time.RFC3339))
		q.Set("created_at[lt]", end.UTC().Format(time.RFC3339))
		q.Set("limit", strconv.Itoa(orderPageLimit))
		q.Set("offset", strconv.Itoa(offset))
		apiURL := c.baseURL + "/store/orders?" + q.Encode()

		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching orders: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode != 200 {
			return nil, fmt.Errorf("Medusa API returned %d: %s", resp.StatusCode, string(body))
		}

		var page medusaOrdersResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing response: %w", err)
		}

		for _, o := range page.Orders {
			allOrders = append(allOrders, o.toOrder())
		}
		log.Printf("orders fetch offset=%d count=%d", offset, len(page.Orders))

		if len(page.Orders) < orderPageLimit {
			break
		}
		offset += orderPageLimit
	}

	return allOrders, nil
}

func (o medusaOrderResponse) toOrder() Order {
	createdAt, err := time.Parse(time.RFC3339, o.CreatedAt)
	if err != nil {
		// Malformed timestamps default to zero rather than failing the run.
		createdAt = time.Time{}
	}
	return Order{
		ID:           o.ID,
		CreatedAt:    createdAt,
		CurrencyCode: o.CurrencyCode,
		Total:        o.Total,
	}
}
