package capacity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigTotal(t *testing.T) {
	c := Config{ByWorkshop: map[int]float64{1: 100, 2: -5, 3: math.NaN(), 4: 60}, Default: 40}
	assert.Equal(t, 160.0, c.Total())
	assert.Equal(t, 160.0, c.Configured())
	assert.Equal(t, 40.0, Config{Default: 40}.Configured())
}

func TestConfigCurrent(t *testing.T) {
	c := Config{ByWorkshop: map[int]float64{1: 100, 2: 60}, Default: 40}
	assert.Equal(t, 160.0, c.Current(0, false))
	assert.Equal(t, 60.0, c.Current(2, true))
	assert.Equal(t, 160.0, c.Current(9, true))
	assert.Equal(t, 40.0, Config{Default: 40}.Current(1, true))
}

func TestConfigMultiplier(t *testing.T) {
	c := Config{ByWorkshop: map[int]float64{1: 100, 2: 60}}

	// 4 employees at 8h: 160h raw per week, configured 160.
	assert.Equal(t, 1.0, c.Multiplier(32, 0, false))
	assert.Equal(t, 0.375, c.Multiplier(32, 2, true))
	assert.InDelta(t, 2.0, c.Multiplier(16, 0, false), 1e-9)
	assert.Equal(t, 1.0, Config{}.Multiplier(0, 0, false))
}
