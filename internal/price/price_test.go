package price

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Price
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"zero", "0", 0, false},
		{"one", "1", 1_000_000, false},
		{"half", "0.5", 500_000, false},
		{"typical price", "0.123456", 123_456, false},
		{"needs padding", "0.12", 120_000, false},
		{"needs truncation", "0.1234567", 123_456, false},
		{"whole with frac", "1.5", 1_500_000, false},
		{"monetary", "45200.75", 45_200_750_000, false},
		{"negative", "-0.25", -250_000, false},
		{"leading plus", "+0.25", 250_000, false},
		{"smallest", "0.000001", 1, false},
		{"garbage", "abc", 0, true},
		{"embedded letter", "0.5x", 0, true},
		{"bare dot", ".", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input Price
		want  string
	}{
		{"zero", 0, "0"},
		{"half", 500_000, "0.5"},
		{"full precision", 123_456, "0.123456"},
		{"whole", 42_000_000, "42"},
		{"trailing zeros trimmed", 520_000, "0.52"},
		{"negative", -250_000, "-0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.5", "0.52", "0.999999", "1250.25"} {
		p := MustParse(s)
		back, err := Parse(p.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", p.String(), err)
		}
		if back != p {
			t.Errorf("%s: round-trip %d != %d", s, back, p)
		}
	}
}

func TestJSON(t *testing.T) {
	type row struct {
		Price Price `json:"price"`
	}

	var r row
	if err := json.Unmarshal([]byte(`{"price":"0.52"}`), &r); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if r.Price != 520_000 {
		t.Errorf("got %d, want 520000", r.Price)
	}

	if err := json.Unmarshal([]byte(`{"price":0.48}`), &r); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if r.Price != 480_000 {
		t.Errorf("got %d, want 480000", r.Price)
	}

	out, err := json.Marshal(row{Price: 520_000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"price":"0.52"}` {
		t.Errorf("got %s", out)
	}
}

func TestFromFloat(t *testing.T) {
	if got := FromFloat(0.52); got != 520_000 {
		t.Errorf("got %d, want 520000", got)
	}
	if got := FromFloat(-0.5); got != -500_000 {
		t.Errorf("got %d, want -500000", got)
	}
}

func TestClamp(t *testing.T) {
	lo, hi := Price(0), Price(Scale)
	if got := Price(2 * Scale).Clamp(lo, hi); got != hi {
		t.Errorf("got %d, want %d", got, hi)
	}
	if got := Price(-1).Clamp(lo, hi); got != lo {
		t.Errorf("got %d, want %d", got, lo)
	}
}
