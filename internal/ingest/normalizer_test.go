package ingest

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       domain.RawContract
		wantPrice price.Price
		wantVol   price.Price
		wantCat   string
		wantErr   bool
	}{
		{
			name: "full record prefers last price",
			raw: domain.RawContract{
				Platform: domain.PlatformKalshi, ExternalID: "FED-24DEC",
				Title: "Fed cuts rates", Category: "Economics",
				LastPrice: "0.62", YesPrice: "0.60", Volume: "15000", Liquidity: "3200",
				Active: true,
			},
			wantPrice: price.MustParse("0.62"),
			wantVol:   price.MustParse("15000"),
			wantCat:   "Economics",
		},
		{
			name: "falls back to yes price",
			raw: domain.RawContract{
				Platform: domain.PlatformPolymarket, ExternalID: "0xabc",
				Title: "ETH above 5k", Category: "Crypto", YesPrice: "0.31",
			},
			wantPrice: price.MustParse("0.31"),
			wantCat:   "Crypto",
		},
		{
			name: "absent price defaults to half",
			raw: domain.RawContract{
				Platform: domain.PlatformKalshi, ExternalID: "NEW-MKT",
				Title: "Brand new market",
			},
			wantPrice: price.MustParse("0.5"),
			wantCat:   "General",
		},
		{
			name: "price clamped into unit interval",
			raw: domain.RawContract{
				Platform: domain.PlatformKalshi, ExternalID: "ODD",
				LastPrice: "1.7",
			},
			wantPrice: price.MustParse("1"),
			wantCat:   "General",
		},
		{
			name: "negative volume coerced to zero",
			raw: domain.RawContract{
				Platform: domain.PlatformKalshi, ExternalID: "NEG",
				LastPrice: "0.5", Volume: "-12",
			},
			wantPrice: price.MustParse("0.5"),
			wantVol:   0,
			wantCat:   "General",
		},
		{
			name:    "missing external id",
			raw:     domain.RawContract{Platform: domain.PlatformKalshi, Title: "orphan"},
			wantErr: true,
		},
		{
			name:    "missing platform",
			raw:     domain.RawContract{ExternalID: "X"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, testNow)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedRecord) {
					t.Fatalf("want ErrMalformedRecord, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Price != tt.wantPrice {
				t.Errorf("price = %s, want %s", got.Price, tt.wantPrice)
			}
			if got.Volume != tt.wantVol {
				t.Errorf("volume = %s, want %s", got.Volume, tt.wantVol)
			}
			if got.Category != tt.wantCat {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCat)
			}
			if got.Fingerprint == 0 {
				t.Error("fingerprint not set")
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := domain.RawContract{
		Platform: domain.PlatformKalshi, ExternalID: "ELEC-2024",
		Title: "2024 Election Winner", Category: "Politics",
		LastPrice: "0.52", Volume: "120000", Active: true,
	}

	first, err := Normalize(raw, testNow)
	if err != nil {
		t.Fatalf("first normalize: %v", err)
	}
	second, err := Normalize(raw, testNow)
	if err != nil {
		t.Fatalf("second normalize: %v", err)
	}
	if first != second {
		t.Errorf("normalize not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint(domain.PlatformKalshi, "TICKER-1")
	b := Fingerprint(domain.PlatformKalshi, "TICKER-1")
	if a != b {
		t.Errorf("fingerprint unstable: %d != %d", a, b)
	}
	if a == Fingerprint(domain.PlatformPolymarket, "TICKER-1") {
		t.Error("fingerprint ignores platform")
	}
	if a == Fingerprint(domain.PlatformKalshi, "TICKER-2") {
		t.Error("fingerprint ignores external id")
	}
}

func TestNormalizeBatchSkipsMalformed(t *testing.T) {
	raws := []domain.RawContract{
		{Platform: domain.PlatformKalshi, ExternalID: "OK-1", LastPrice: "0.4"},
		{Platform: domain.PlatformKalshi, ExternalID: "", LastPrice: "0.4"}, // malformed
		{Platform: domain.PlatformKalshi, ExternalID: "OK-2", LastPrice: "0.6"},
	}

	got := NormalizeBatch(raws, testNow, discardLogger())
	if len(got) != 2 {
		t.Fatalf("got %d contracts, want 2", len(got))
	}
	if got[0].ExternalID != "OK-1" || got[1].ExternalID != "OK-2" {
		t.Errorf("wrong survivors: %+v", got)
	}
}

func TestNormalizeLevels(t *testing.T) {
	raws := []domain.RawOrderBookLevel{
		{Price: "0.53", Size: "100", Side: domain.SideAsk, At: testNow},
		{Price: "not-a-price", Size: "5", Side: domain.SideAsk, At: testNow},
		{Price: "0.51", Size: "40", Side: "weird", At: testNow},
		{Price: "0.50", Size: "bad", Side: domain.SideBid, At: testNow},
	}

	got := NormalizeLevels(7, raws, discardLogger())
	if len(got) != 2 {
		t.Fatalf("got %d levels, want 2", len(got))
	}
	if got[0].Price != price.MustParse("0.53") || got[0].Size != 100 {
		t.Errorf("first level = %+v", got[0])
	}
	// Unparseable size degrades to zero rather than dropping the level.
	if got[1].Side != domain.SideBid || got[1].Size != 0 {
		t.Errorf("second level = %+v", got[1])
	}
	for _, l := range got {
		if l.ContractID != 7 {
			t.Errorf("contract id = %d, want 7", l.ContractID)
		}
	}
}
