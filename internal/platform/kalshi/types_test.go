package kalshi

import (
	"testing"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/ingest"
	"github.com/cwoodfield/paritylens/internal/price"
)

func TestMarketRawContract(t *testing.T) {
	m := Market{
		Ticker:    "FED-25SEP-CUT",
		Title:     "Fed cuts rates",
		Subtitle:  "September meeting",
		Status:    "active",
		LastPrice: 52, // cents
		YesBid:    51,
		Volume:    12500,
		Liquidity: 84000,
		Category:  "Economics",
	}

	rc := m.RawContract()
	if rc.Platform != domain.PlatformKalshi {
		t.Fatalf("Platform = %q", rc.Platform)
	}
	if rc.ExternalID != "FED-25SEP-CUT" {
		t.Fatalf("ExternalID = %q", rc.ExternalID)
	}
	if rc.Title != "Fed cuts rates September meeting" {
		t.Fatalf("Title = %q", rc.Title)
	}
	if rc.LastPrice != "0.52" {
		t.Fatalf("LastPrice = %q, want 0.52", rc.LastPrice)
	}
	if rc.YesPrice != "0.51" {
		t.Fatalf("YesPrice = %q, want 0.51", rc.YesPrice)
	}
	if rc.Volume != "12500" {
		t.Fatalf("Volume = %q", rc.Volume)
	}
	if !rc.Active {
		t.Fatal("active market marked inactive")
	}

	m.Status = "settled"
	if m.RawContract().Active {
		t.Fatal("settled market marked active")
	}
}

func TestMarketRawContractUntraded(t *testing.T) {
	m := Market{
		Ticker: "FED-25SEP-HOLD",
		Title:  "Fed holds rates",
		Status: "active",
		YesBid: 45, // never traded, no last price
	}

	rc := m.RawContract()
	if rc.LastPrice != "" {
		t.Fatalf("LastPrice = %q, want empty for untraded market", rc.LastPrice)
	}
	if rc.YesPrice != "0.45" {
		t.Fatalf("YesPrice = %q, want 0.45", rc.YesPrice)
	}

	c, err := ingest.Normalize(rc, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if want := price.MustParse("0.45"); c.Price != want {
		t.Fatalf("normalized price = %s, want %s (yes bid fallback)", c.Price, want)
	}

	// No quotes at all falls through to the midpoint default.
	m.YesBid = 0
	c, err = ingest.Normalize(m.RawContract(), time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if want := price.MustParse("0.5"); c.Price != want {
		t.Fatalf("normalized price = %s, want %s", c.Price, want)
	}
}

func TestOrderbookRawLevels(t *testing.T) {
	ob := Orderbook{
		Ticker: "FED-25SEP-CUT",
		YesBids: []PriceLevel{
			{Price: 51, Quantity: 200},
			{Price: 50, Quantity: 400},
		},
		NoBids: []PriceLevel{
			{Price: 47, Quantity: 300}, // ask on yes at 53
		},
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	levels := ob.RawLevels()
	if len(levels) != 3 {
		t.Fatalf("got %d levels, want 3", len(levels))
	}

	if levels[0].Side != domain.SideBid || levels[0].Price != "0.51" || levels[0].Size != "200" {
		t.Fatalf("first bid = %+v", levels[0])
	}
	if levels[2].Side != domain.SideAsk || levels[2].Price != "0.53" {
		t.Fatalf("no-side bid not converted to yes ask: %+v", levels[2])
	}
	if !levels[0].At.Equal(ob.Timestamp) {
		t.Fatalf("level timestamp = %v", levels[0].At)
	}
}
