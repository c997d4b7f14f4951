// Package oracle provides the client for the external price quote API.
// The ledger treats every failure mode uniformly as "no price available
// right now", never as a price of zero.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/finledger/holdings-backend/internal/apperrors"
)

// Client looks up a current price for a security identifier.
type Client interface {
	LookupPrice(ctx context.Context, symbol string) (Quote, error)
}

// APIKeyFunc supplies the API key for quote requests. Keeping it a function
// lets the key live encrypted in storage and be rotated without restarting.
type APIKeyFunc func(ctx context.Context) (string, error)

// QuoteClient fetches prices from an HTTP quote API. Every request is bounded
// by the configured timeout; a timeout or any non-success response surfaces
// as apperrors.ErrPriceUnavailable.
type QuoteClient struct {
	baseURL    string
	apiKey     APIKeyFunc
	httpClient *http.Client
}

// NewQuoteClient creates a quote client for the given API base URL.
// apiKey may be nil when the quote API needs no authentication.
func NewQuoteClient(baseURL string, timeout time.Duration, apiKey APIKeyFunc) *QuoteClient {
	return &QuoteClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LookupPrice fetches the current price for symbol.
//
// Returns apperrors.ErrPriceUnavailable (wrapped with the cause) for every
// failure mode: network error, timeout, not found, rate limit, or a
// malformed response.
func (c *QuoteClient) LookupPrice(ctx context.Context, symbol string) (Quote, error) {
	requestURL := fmt.Sprintf("%s/v1/quote/%s", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	if c.apiKey != nil {
		key, err := c.apiKey(ctx)
		if err != nil {
			return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
		}
		req.Header.Set("X-API-Key", key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: quote API returned %d for %s",
			apperrors.ErrPriceUnavailable, resp.StatusCode, symbol)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}

	var qr quoteResponse
	if err := json.Unmarshal(data, &qr); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", apperrors.ErrPriceUnavailable, err)
	}
	if qr.Error != nil {
		return Quote{}, fmt.Errorf("%w: %s", apperrors.ErrPriceUnavailable, *qr.Error)
	}
	if qr.Price.IsNegative() {
		return Quote{}, fmt.Errorf("%w: negative price for %s", apperrors.ErrPriceUnavailable, symbol)
	}

	asOf := time.Now().UTC()
	if qr.Timestamp > 0 {
		asOf = time.Unix(qr.Timestamp, 0).UTC()
	}

	return Quote{
		Symbol:   qr.Symbol,
		Price:    qr.Price,
		Currency: qr.Currency,
		AsOf:     asOf,
	}, nil
}
