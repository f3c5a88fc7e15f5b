package polymarket

import (
	"encoding/json"
	"testing"

	"github.com/cwoodfield/paritylens/internal/domain"
)

func TestAPIMarketRawContract(t *testing.T) {
	raw := []byte(`{
		"id": "512329",
		"question": "Will the Fed cut rates in September?",
		"category": "Economics",
		"active": "true",
		"closed": false,
		"outcomePrices": "[\"0.62\",\"0.38\"]",
		"clobTokenIds": "[\"7431\",\"7432\"]",
		"lastTradePrice": 0.61,
		"volume": "1250000.5",
		"liquidity": "84000"
	}`)

	var m APIMarket
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rc := m.RawContract()
	if rc.Platform != domain.PlatformPolymarket {
		t.Fatalf("Platform = %q", rc.Platform)
	}
	if rc.ExternalID != "512329" {
		t.Fatalf("ExternalID = %q", rc.ExternalID)
	}
	if rc.LastPrice != "0.61" {
		t.Fatalf("LastPrice = %q, want 0.61", rc.LastPrice)
	}
	if rc.YesPrice != "0.62" {
		t.Fatalf("YesPrice = %q, want 0.62", rc.YesPrice)
	}
	if !rc.Active {
		t.Fatal("contract should be active")
	}
	if got := m.yesTokenID(); got != "7431" {
		t.Fatalf("yesTokenID = %q, want 7431", got)
	}
}

func TestAPIMarketRawContractNoTrades(t *testing.T) {
	m := APIMarket{
		ID:            "1",
		Question:      "q",
		Active:        true,
		OutcomePrices: `["0.40","0.60"]`,
	}
	rc := m.RawContract()
	if rc.LastPrice != "" {
		t.Fatalf("LastPrice = %q, want empty when no trades", rc.LastPrice)
	}
	if rc.YesPrice != "0.40" {
		t.Fatalf("YesPrice = %q, want 0.40", rc.YesPrice)
	}
}

func TestAPIMarketClosedIsInactive(t *testing.T) {
	m := APIMarket{ID: "1", Active: true, Closed: true}
	if m.RawContract().Active {
		t.Fatal("closed market should be inactive")
	}
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: `true`, want: true},
		{in: `false`, want: false},
		{in: `"true"`, want: true},
		{in: `"False"`, want: false},
		{in: `"1"`, want: true},
	}
	for _, tt := range tests {
		var f flexBool
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if bool(f) != tt.want {
			t.Fatalf("flexBool(%s) = %v, want %v", tt.in, f, tt.want)
		}
	}
}
