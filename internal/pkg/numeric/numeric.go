// Package numeric holds the lenient number handling shared by the planners.
// Stored data often carries hours and ids as strings or nulls; a Value keeps
// whether the input resolved to a finite number.
package numeric

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is a number decoded from loosely typed input.
type Value struct {
	v     float64
	valid bool
}

// Of wraps f. NaN and infinities produce an invalid Value.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{v: f, valid: true}
}

// Parse resolves s the way a form field is read: surrounding space is
// ignored and the remainder must be a finite decimal number.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}
	}
	return Of(f)
}

// Float returns the number and whether it is valid.
func (n Value) Float() (float64, bool) {
	return n.v, n.valid
}

func (n Value) Valid() bool {
	return n.valid
}

// Or returns the number, or fallback when invalid.
func (n Value) Or(fallback float64) float64 {
	if !n.valid {
		return fallback
	}
	return n.v
}

func (n Value) String() string {
	if !n.valid {
		return ""
	}
	return strconv.FormatFloat(n.v, 'f', -1, 64)
}

func (n Value) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// UnmarshalJSON accepts numbers and numeric strings. Any other JSON value
// decodes to an invalid Value rather than failing the surrounding document.
func (n *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Value{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*n = Parse(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		*n = Of(f)
	}
	return nil
}

// SafeHours returns v when it is a finite positive number and 0 otherwise.
func SafeHours(v Value) float64 {
	if f, ok := v.Float(); ok && f > 0 {
		return f
	}
	return 0
}

// RoundTo rounds f to the nearest multiple of step, halves away from zero.
func RoundTo(f, step float64) float64 {
	if step <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	d := decimal.NewFromFloat(f).Div(decimal.NewFromFloat(step)).Round(0)
	return d.Mul(decimal.NewFromFloat(step)).InexactFloat64()
}

// Round1 rounds to one decimal.
func Round1(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return decimal.NewFromFloat(f).Round(1).InexactFloat64()
}

// RoundQuarter rounds to the nearest quarter hour.
func RoundQuarter(f float64) float64 {
	return RoundTo(f, 0.25)
}

// Round4 rounds to four decimals, enough to hide float drift in sums.
func Round4(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return decimal.NewFromFloat(f).Round(4).InexactFloat64()
}

// ClampHours bounds v to [0, max] and rounds to a quarter hour. An invalid
// value yields max.
func ClampHours(v Value, max float64) float64 {
	f, ok := v.Float()
	if !ok {
		return max
	}
	return RoundQuarter(math.Min(math.Max(f, 0), max))
}
