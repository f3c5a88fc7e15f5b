package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// APIMarket represents a market as returned by the Polymarket Gamma API.
type APIMarket struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	ConditionID    string   `json:"conditionId"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Active         flexBool `json:"active"` // API may send bool or "true"/"false" string
	Closed         bool     `json:"closed"`
	Outcomes       string   `json:"outcomes"`      // JSON-encoded: e.g. "[\"Yes\",\"No\"]"
	OutcomePrices  string   `json:"outcomePrices"` // JSON-encoded: e.g. "[\"0.5\",\"0.5\"]"
	LastTradePrice float64  `json:"lastTradePrice"`
	Volume         string   `json:"volume"`
	Liquidity      string   `json:"liquidity"`
	ClobTokenIDs   string   `json:"clobTokenIds"` // JSON-encoded: e.g. "[\"123\",\"456\"]"
	EndDateISO     string   `json:"endDateIso"`
}

// yesPrice extracts the first outcome price from the JSON-encoded list. The
// Gamma API orders outcomes Yes-first for binary markets.
func (m *APIMarket) yesPrice() string {
	var prices []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil || len(prices) == 0 {
		return ""
	}
	return prices[0]
}

// yesTokenID extracts the CLOB token ID for the Yes outcome.
func (m *APIMarket) yesTokenID() string {
	var ids []string
	if err := json.Unmarshal([]byte(m.ClobTokenIDs), &ids); err != nil || len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// RawContract converts an API market to the pre-normalization record.
func (m *APIMarket) RawContract() domain.RawContract {
	var last string
	if m.LastTradePrice > 0 {
		last = strconv.FormatFloat(m.LastTradePrice, 'f', -1, 64)
	}
	return domain.RawContract{
		Platform:    domain.PlatformPolymarket,
		ExternalID:  m.ID,
		Title:       m.Question,
		Description: m.Description,
		Category:    m.Category,
		LastPrice:   last,
		YesPrice:    m.yesPrice(),
		Volume:      m.Volume,
		Liquidity:   m.Liquidity,
		Active:      bool(m.Active) && !m.Closed,
	}
}

// BookLevel is a single bid/ask level in the CLOB book response.
type BookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// Book is a full orderbook snapshot from the CLOB API.
type Book struct {
	Market    string      `json:"market"`
	AssetID   string      `json:"asset_id"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
	Timestamp string      `json:"timestamp"`
	Hash      string      `json:"hash"`
}
