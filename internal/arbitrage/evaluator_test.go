package arbitrage

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSpread(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		want    float64
		wantErr error
	}{
		{name: "two cent gap mid range", a: "0.52", b: "0.48", want: 0.04 / 0.48 * 100},
		{name: "order independent", a: "0.48", b: "0.52", want: 0.04 / 0.48 * 100},
		{name: "equal prices", a: "0.50", b: "0.50", want: 0},
		{name: "cheap contract magnifies gap", a: "0.05", b: "0.07", want: 40},
		{name: "zero price a", a: "0", b: "0.50", wantErr: domain.ErrInvalidPrice},
		{name: "zero price b", a: "0.50", b: "0", wantErr: domain.ErrInvalidPrice},
		{name: "negative price", a: "-0.10", b: "0.50", wantErr: domain.ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Spread(price.MustParse(tt.a), price.MustParse(tt.b))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Spread(%s, %s) err = %v, want %v", tt.a, tt.b, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Spread(%s, %s) unexpected error: %v", tt.a, tt.b, err)
			}
			if !almostEqual(got, tt.want) {
				t.Fatalf("Spread(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		spreadPct float64
		want      domain.Confidence
	}{
		{name: "well above high", spreadPct: 15, want: domain.ConfidenceHigh},
		{name: "just above high", spreadPct: 10.01, want: domain.ConfidenceHigh},
		{name: "exactly ten is medium", spreadPct: 10, want: domain.ConfidenceMedium},
		{name: "between tiers", spreadPct: 8.33, want: domain.ConfidenceMedium},
		{name: "exactly five is low", spreadPct: 5, want: domain.ConfidenceLow},
		{name: "small spread", spreadPct: 1.2, want: domain.ConfidenceLow},
		{name: "zero spread", spreadPct: 0, want: domain.ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.spreadPct); got != tt.want {
				t.Fatalf("Classify(%v) = %q, want %q", tt.spreadPct, got, tt.want)
			}
		})
	}
}

func TestPotentialProfit(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		stake float64
		want  float64
	}{
		{name: "four cents on a grand", a: "0.52", b: "0.48", stake: 1000, want: 40},
		{name: "order independent", a: "0.48", b: "0.52", stake: 1000, want: 40},
		{name: "no gap no profit", a: "0.50", b: "0.50", stake: 1000, want: 0},
		{name: "zero stake", a: "0.52", b: "0.48", stake: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PotentialProfit(price.MustParse(tt.a), price.MustParse(tt.b), tt.stake)
			if !almostEqual(got, tt.want) {
				t.Fatalf("PotentialProfit(%s, %s, %v) = %v, want %v", tt.a, tt.b, tt.stake, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	m := domain.ContractMatch{
		A: domain.Contract{
			ID:         1,
			Platform:   domain.PlatformKalshi,
			ExternalID: "PRES-2028",
			Price:      price.MustParse("0.52"),
		},
		B: domain.Contract{
			ID:         2,
			Platform:   domain.PlatformPolymarket,
			ExternalID: "0xabc",
			Price:      price.MustParse("0.48"),
		},
		Score: 84.5,
	}

	opp, err := Evaluate(m, now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if opp.KalshiID != 1 || opp.PolymarketID != 2 {
		t.Fatalf("ids = %d/%d, want 1/2", opp.KalshiID, opp.PolymarketID)
	}
	if !almostEqual(opp.SpreadPct, 0.04/0.48*100) {
		t.Fatalf("SpreadPct = %v, want %v", opp.SpreadPct, 0.04/0.48*100)
	}
	if opp.Confidence != domain.ConfidenceMedium {
		t.Fatalf("Confidence = %q, want medium", opp.Confidence)
	}
	if want := price.MustParse("40"); opp.PotentialProfit != want {
		t.Fatalf("PotentialProfit = %s, want %s", opp.PotentialProfit, want)
	}
	if opp.Similarity != 84.5 {
		t.Fatalf("Similarity = %v, want 84.5", opp.Similarity)
	}
	if !opp.Active {
		t.Fatal("new opportunity should be active")
	}
	if !opp.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", opp.CreatedAt, now)
	}
}

func TestEvaluateSerializesProfit(t *testing.T) {
	m := domain.ContractMatch{
		A: domain.Contract{ID: 1, ExternalID: "K1", Price: price.MustParse("0.52")},
		B: domain.Contract{ID: 2, ExternalID: "P1", Price: price.MustParse("0.48")},
	}

	opp, err := Evaluate(m, time.Now())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	data, err := json.Marshal(opp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, ok := fields["potentialProfit"]
	if !ok {
		t.Fatalf("payload has no potentialProfit field: %s", data)
	}
	if got != "40" {
		t.Fatalf("potentialProfit = %v, want \"40\"", got)
	}
}

func TestEvaluateInvalidPrice(t *testing.T) {
	m := domain.ContractMatch{
		A: domain.Contract{ID: 1, ExternalID: "K1"},
		B: domain.Contract{ID: 2, ExternalID: "P1", Price: price.MustParse("0.48")},
	}
	if _, err := Evaluate(m, time.Now()); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Fatalf("err = %v, want ErrInvalidPrice", err)
	}
}
