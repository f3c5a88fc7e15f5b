package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// ClobClient is the REST client for the Polymarket CLOB API. Only the public
// market data surface is used; nothing here signs or posts orders.
type ClobClient struct {
	baseURL    string
	gamma      *GammaClient
	httpClient *http.Client
}

// NewClobClient creates a CLOB client.
//
// baseURL is the CLOB API root, e.g. "https://clob.polymarket.com". The gamma
// client resolves market IDs to CLOB token IDs.
func NewClobClient(baseURL string, gamma *GammaClient) *ClobClient {
	return &ClobClient{
		baseURL: baseURL,
		gamma:   gamma,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetBook returns the current book snapshot for one CLOB token.
func (c *ClobClient) GetBook(ctx context.Context, tokenID string) (Book, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)

	body, err := c.doGet(ctx, "/book?"+params.Encode())
	if err != nil {
		return Book{}, fmt.Errorf("polymarket/clob: get book %s: %w", tokenID, err)
	}

	var book Book
	if err := json.Unmarshal(body, &book); err != nil {
		return Book{}, fmt.Errorf("polymarket/clob: decode book: %w", err)
	}
	return book, nil
}

// FetchOrderBook returns the Yes-side book for a market as raw levels.
func (c *ClobClient) FetchOrderBook(ctx context.Context, externalID string) ([]domain.RawOrderBookLevel, error) {
	tokenID, err := c.gamma.TokenID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("polymarket/clob: resolve token for %s: %w", externalID, err)
	}

	book, err := c.GetBook(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]domain.RawOrderBookLevel, 0, len(book.Bids)+len(book.Asks))
	for _, lv := range book.Bids {
		out = append(out, domain.RawOrderBookLevel{Price: lv.Price, Size: lv.Size, Side: domain.SideBid, At: now})
	}
	for _, lv := range book.Asks {
		out = append(out, domain.RawOrderBookLevel{Price: lv.Price, Size: lv.Size, Side: domain.SideAsk, At: now})
	}
	return out, nil
}

// doGet sends an unauthenticated GET request to the CLOB API.
func (c *ClobClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
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
