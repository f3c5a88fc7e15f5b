// Package polymarket holds the REST clients for the Polymarket Gamma
// (market discovery) and CLOB (order book) APIs.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// GammaClient is the REST client for the Polymarket Gamma API, which
// provides market discovery and metadata.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client

	// tokens maps market ID to the Yes-outcome CLOB token ID, filled during
	// market fetches so book lookups can resolve the token later.
	mu     sync.RWMutex
	tokens map[string]string
}

// NewGammaClient creates a Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
func NewGammaClient(baseURL string) *GammaClient {
	return &GammaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: make(map[string]string),
	}
}

// GetMarkets returns a page of markets.
func (g *GammaClient) GetMarkets(ctx context.Context, limit, offset int) ([]APIMarket, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("active", "true")
	params.Set("closed", "false")

	body, err := g.doGet(ctx, "/markets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: get markets: %w", err)
	}

	var markets []APIMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode markets: %w", err)
	}
	return markets, nil
}

// GetMarket returns a single market by its ID.
func (g *GammaClient) GetMarket(ctx context.Context, id string) (APIMarket, error) {
	body, err := g.doGet(ctx, "/markets/"+url.PathEscape(id))
	if err != nil {
		return APIMarket{}, fmt.Errorf("polymarket/gamma: get market %s: %w", id, err)
	}

	var m APIMarket
	if err := json.Unmarshal(body, &m); err != nil {
		return APIMarket{}, fmt.Errorf("polymarket/gamma: decode market: %w", err)
	}
	return m, nil
}

// FetchContracts pages through active markets and returns them as raw
// records, remembering each market's Yes token for later book lookups.
func (g *GammaClient) FetchContracts(ctx context.Context, pageSize, maxPages int) ([]domain.RawContract, error) {
	var out []domain.RawContract
	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		markets, err := g.GetMarkets(ctx, pageSize, page*pageSize)
		if err != nil {
			return nil, err
		}
		if len(markets) == 0 {
			break
		}

		g.mu.Lock()
		for i := range markets {
			if tok := markets[i].yesTokenID(); tok != "" {
				g.tokens[markets[i].ID] = tok
			}
		}
		g.mu.Unlock()

		for i := range markets {
			out = append(out, markets[i].RawContract())
		}
		if len(markets) < pageSize {
			break
		}
	}
	return out, nil
}

// TokenID resolves a market ID to its Yes-outcome CLOB token, falling back to
// a single-market fetch when the market was not seen in a listing yet.
func (g *GammaClient) TokenID(ctx context.Context, marketID string) (string, error) {
	g.mu.RLock()
	tok, ok := g.tokens[marketID]
	g.mu.RUnlock()
	if ok {
		return tok, nil
	}

	m, err := g.GetMarket(ctx, marketID)
	if err != nil {
		return "", err
	}
	tok = m.yesTokenID()
	if tok == "" {
		return "", fmt.Errorf("polymarket/gamma: market %s: no clob token: %w", marketID, domain.ErrNotFound)
	}

	g.mu.Lock()
	g.tokens[marketID] = tok
	g.mu.Unlock()
	return tok, nil
}

// doGet sends an unauthenticated GET request to the Gamma API.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("http request: %w", domain.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("http request: %w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	case statusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", domain.ErrUpstreamTimeout, bodyStr)
	case statusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamUnavailable, statusCode, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
