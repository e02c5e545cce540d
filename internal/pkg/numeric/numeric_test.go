package numeric

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueUnmarshalJSON(t *testing.T) {
	cases := []struct {
		input string
		want  float64
		valid bool
	}{
		{`4`, 4, true},
		{`-2.5`, -2.5, true},
		{`"6.25"`, 6.25, true},
		{`" 3 "`, 3, true},
		{`"abc"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`true`, 0, false},
		{`{"a":1}`, 0, false},
	}
	for _, c := range cases {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(c.input), &v), c.input)
		got, ok := v.Float()
		assert.Equal(t, c.valid, ok, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

func TestValueMarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}{A: Of(1.5), B: Of(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(out))
}

func TestSafeHours(t *testing.T) {
	assert.Equal(t, 3.5, SafeHours(Of(3.5)))
	assert.Equal(t, 0.0, SafeHours(Of(-1)))
	assert.Equal(t, 0.0, SafeHours(Of(0)))
	assert.Equal(t, 0.0, SafeHours(Parse("abc")))
	assert.Equal(t, 0.0, SafeHours(Of(math.Inf(1))))
	assert.Equal(t, 2.0, SafeHours(Parse("2")))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 4.5, Round1(4.45))
	assert.Equal(t, 1.3, Round1(4*(4.0/12)))
	assert.Equal(t, 7.25, RoundQuarter(7.2))
	assert.Equal(t, 7.5, RoundQuarter(7.375))
	assert.Equal(t, 0.0, RoundQuarter(0.1))
	assert.Equal(t, 12.3457, Round4(12.34567))
}

func TestClampHours(t *testing.T) {
	assert.Equal(t, 8.0, ClampHours(Of(20), 8))
	assert.Equal(t, 0.0, ClampHours(Of(-3), 8))
	assert.Equal(t, 2.75, ClampHours(Of(2.8), 8))
	assert.Equal(t, 6.0, ClampHours(Parse("x"), 6))
}
