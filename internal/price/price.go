// Package price handles decimal price and money values from prediction
// market APIs without losing precision.
package price

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Price is a fixed-point decimal with six fractional digits. It is used for
// both probability prices (0..1) and monetary amounts (volume, liquidity).
// JSON round-trips as a decimal string, matching the upstream APIs.
type Price int64

const Scale int64 = 1_000_000

var (
	_ json.Unmarshaler = (*Price)(nil)
	_ json.Marshaler   = Price(0)
)

// Parse converts a decimal string such as "0.52" or "1234.5" into a Price.
// Fractional digits beyond the sixth are truncated. An empty string is zero.
func Parse(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	} else if s[0] == '+' {
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, fmt.Errorf("price: parse %q: empty numeric value", s)
	}

	var res int64
	i := 0
	for i < len(s) && s[i] != '.' {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("price: parse %q: invalid character %q", s, s[i])
		}
		res = res*10 + int64(s[i]-'0')*Scale
		i++
	}

	if i < len(s) && s[i] == '.' {
		i++
		mult := Scale
		for i < len(s) && mult > 1 {
			if s[i] < '0' || s[i] > '9' {
				return 0, fmt.Errorf("price: parse %q: invalid character %q", s, s[i])
			}
			mult /= 10
			res += int64(s[i]-'0') * mult
			i++
		}
		// Remaining digits are beyond our precision; validate and drop them.
		for ; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return 0, fmt.Errorf("price: parse %q: invalid character %q", s, s[i])
			}
		}
	}

	if neg {
		res = -res
	}
	return Price(res), nil
}

// MustParse is Parse for literals in tests and defaults; it panics on error.
func MustParse(s string) Price {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromFloat converts a float to the nearest Price.
func FromFloat(f float64) Price {
	if f >= 0 {
		return Price(f*float64(Scale) + 0.5)
	}
	return Price(f*float64(Scale) - 0.5)
}

// Float64 returns the value as a float for display and statistics; exact
// comparisons should stay in fixed point.
func (p Price) Float64() float64 {
	return float64(p) / float64(Scale)
}

// String formats the value as a decimal with trailing fractional zeros
// trimmed, e.g. 520000 -> "0.52", 0 -> "0".
func (p Price) String() string {
	v := int64(p)
	neg := v < 0
	if neg {
		v = -v
	}

	whole := v / Scale
	frac := v % Scale

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(whole, 10))
	if frac > 0 {
		digits := fmt.Sprintf("%06d", frac)
		digits = strings.TrimRight(digits, "0")
		b.WriteByte('.')
		b.WriteString(digits)
	}
	return b.String()
}

// IsZero reports whether the value is exactly zero.
func (p Price) IsZero() bool { return p == 0 }

// Clamp limits the value to the [lo, hi] range.
func (p Price) Clamp(lo, hi Price) Price {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

// MarshalJSON encodes the value as a decimal string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a raw JSON number.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		*p = 0
		return nil
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
