package kalshi

import (
	"strconv"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// Market is a market as returned by the Kalshi REST API. Prices arrive in
// cents.
type Market struct {
	Ticker         string  `json:"ticker"`
	EventTicker    string  `json:"event_ticker"`
	Title          string  `json:"title"`
	Subtitle       string  `json:"subtitle"`
	Status         string  `json:"status"` // "active", "closed", "settled"
	YesBid         float64 `json:"yes_bid"`
	YesAsk         float64 `json:"yes_ask"`
	LastPrice      float64 `json:"last_price"`
	Volume         int64   `json:"volume"`
	Volume24H      int64   `json:"volume_24h"`
	OpenInterest   int64   `json:"open_interest"`
	Liquidity      int64   `json:"liquidity"`
	Category       string  `json:"category"`
	ExpirationTime string  `json:"expiration_time"`
	OpenTime       string  `json:"open_time"`
	CloseTime      string  `json:"close_time"`
	Result         string  `json:"result"`
}

// Orderbook is the book for one Kalshi market. Kalshi quotes both sides as
// bids: "yes" holds yes-side bids, "no" holds no-side bids, which at price
// 100-p are asks on the yes side.
type Orderbook struct {
	Ticker    string       `json:"ticker"`
	YesBids   []PriceLevel `json:"yes"`
	NoBids    []PriceLevel `json:"no"`
	Timestamp time.Time    `json:"-"`
}

// PriceLevel is a single price+quantity entry in the Kalshi orderbook.
type PriceLevel struct {
	Price    int64 `json:"price"`    // in cents (1-99)
	Quantity int64 `json:"quantity"` // number of contracts
}

// ErrorResponse is a Kalshi API error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// centsToDollars renders a cent amount as a decimal dollar string, the form
// the normalizer expects.
func centsToDollars(cents float64) string {
	return strconv.FormatFloat(cents/100, 'f', -1, 64)
}

// optionalCents is centsToDollars for prices that may be absent. Kalshi
// quotes 1-99 cents, so zero means the field was missing and the empty
// string keeps the downstream price fallback chain intact.
func optionalCents(cents float64) string {
	if cents <= 0 {
		return ""
	}
	return centsToDollars(cents)
}

// RawContract converts an API market to the pre-normalization record.
func (m Market) RawContract() domain.RawContract {
	title := m.Title
	if m.Subtitle != "" {
		title += " " + m.Subtitle
	}
	return domain.RawContract{
		Platform:    domain.PlatformKalshi,
		ExternalID:  m.Ticker,
		Title:       title,
		Description: m.EventTicker,
		Category:    m.Category,
		LastPrice:   optionalCents(m.LastPrice),
		YesPrice:    optionalCents(m.YesBid),
		Volume:      strconv.FormatInt(m.Volume, 10),
		Liquidity:   strconv.FormatInt(m.Liquidity, 10),
		Active:      m.Status == "active" || m.Status == "open",
	}
}

// RawLevels converts the book to yes-side levels: yes bids stay bids, no bids
// at price p become yes asks at 100-p.
func (ob Orderbook) RawLevels() []domain.RawOrderBookLevel {
	out := make([]domain.RawOrderBookLevel, 0, len(ob.YesBids)+len(ob.NoBids))
	for _, lv := range ob.YesBids {
		out = append(out, domain.RawOrderBookLevel{
			Price: centsToDollars(float64(lv.Price)),
			Size:  strconv.FormatInt(lv.Quantity, 10),
			Side:  domain.SideBid,
			At:    ob.Timestamp,
		})
	}
	for _, lv := range ob.NoBids {
		out = append(out, domain.RawOrderBookLevel{
			Price: centsToDollars(float64(100 - lv.Price)),
			Size:  strconv.FormatInt(lv.Quantity, 10),
			Side:  domain.SideAsk,
			At:    ob.Timestamp,
		})
	}
	return out
}
