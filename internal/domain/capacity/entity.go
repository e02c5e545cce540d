package capacity

import (
	"math"
	"sort"
)

// Config is the weekly capacity in hours, per workshop id, with a fallback
// for when nothing usable is configured.
type Config struct {
	ByWorkshop map[int]float64 `json:"capacityByWorkshop"`
	Default    float64         `json:"defaultCapacity"`
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Total sums the finite positive workshop capacities.
func (c Config) Total() float64 {
	ids := make([]int, 0, len(c.ByWorkshop))
	for id := range c.ByWorkshop {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	total := 0.0
	for _, id := range ids {
		if v := c.ByWorkshop[id]; usable(v) {
			total += v
		}
	}
	return total
}

// Configured is Total, or Default when Total is zero.
func (c Config) Configured() float64 {
	if total := c.Total(); total > 0 {
		return total
	}
	if math.IsNaN(c.Default) || math.IsInf(c.Default, 0) {
		return 0
	}
	return c.Default
}

// Current is the capacity shown for the active workshop filter. A filtered
// workshop without an entry falls back to the overall figure.
func (c Config) Current(workshop float64, filtered bool) float64 {
	if filtered && workshop == math.Trunc(workshop) {
		if v, ok := c.ByWorkshop[int(workshop)]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}
	return c.Configured()
}

// Share is the fraction of the configured total owned by a filtered
// workshop, or 1 without a usable filter.
func (c Config) Share(workshop float64, filtered bool) float64 {
	total := c.Configured()
	if !filtered || total <= 0 || workshop != math.Trunc(workshop) {
		return 1
	}
	if v, ok := c.ByWorkshop[int(workshop)]; ok && usable(v) {
		return v / total
	}
	return 1
}

// Multiplier scales a week of raw matrix capacity (dailyTotal hours per
// weekday) to the configured capacity of the filtered scope.
func (c Config) Multiplier(dailyTotal float64, workshop float64, filtered bool) float64 {
	scale := 1.0
	total := c.Configured()
	if baseline := dailyTotal * 5; baseline > 0 && total > 0 {
		scale = total / baseline
	}
	return scale * c.Share(workshop, filtered)
}

// Totals splits available hours into productive and indirect hours.
type Totals struct {
	Productive float64 `json:"productive"`
	Indirect   float64 `json:"indirect"`
}

func (t Totals) Sum() float64 {
	return t.Productive + t.Indirect
}

func (t Totals) Add(o Totals) Totals {
	return Totals{Productive: t.Productive + o.Productive, Indirect: t.Indirect + o.Indirect}
}
