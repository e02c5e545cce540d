package isoweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeksInYear(t *testing.T) {
	cases := []struct {
		year int
		want int
	}{
		{2015, 53},
		{2020, 53},
		{2021, 52},
		{2024, 52},
		{2026, 53},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, WeeksInYear(c.year), "year %d", c.year)
	}
}

func TestMonday(t *testing.T) {
	assert.Equal(t, Date(2020, time.December, 28), Monday(53, 2020))
	assert.Equal(t, Date(2021, time.January, 4), Monday(1, 2021))
	assert.Equal(t, Date(2019, time.December, 30), Monday(1, 2020))

	for year := 2000; year <= 2040; year++ {
		for week := 1; week <= WeeksInYear(year); week++ {
			m := Monday(week, year)
			require.Equal(t, time.Monday, m.Weekday())
			require.Equal(t, Week{Week: week, Year: year}, Of(m))
		}
	}
}

func TestOf(t *testing.T) {
	assert.Equal(t, Week{Week: 53, Year: 2020}, Of(Date(2021, time.January, 3)))
	assert.Equal(t, Week{Week: 53, Year: 2020}, Of(Date(2020, time.December, 31)))
	assert.Equal(t, Week{Week: 1, Year: 2025}, Of(Date(2024, time.December, 30)))

	local := time.Date(2021, time.January, 3, 23, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, Week{Week: 53, Year: 2020}, Of(local))
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(Date(2024, time.March, 10)) // Sunday
	require.Len(t, days, 5)
	assert.Equal(t, "2024-03-04", Format(days[0]))
	assert.Equal(t, "2024-03-08", Format(days[4]))
}

func TestParse(t *testing.T) {
	valid := []string{"2024-02-29", "2021-01-03", "1999-12-31"}
	invalid := []string{"2024-02-30", "2023-02-29", "2024-2-01", "2024-13-01", "", "20240101", "2024-01-01T00:00:00Z"}

	for _, s := range valid {
		got, ok := Parse(s)
		if assert.True(t, ok, s) {
			assert.Equal(t, s, Format(got))
			assert.Equal(t, time.UTC, got.Location())
		}
	}
	for _, s := range invalid {
		_, ok := Parse(s)
		assert.False(t, ok, s)
	}
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "W53 (20)", Week{Week: 53, Year: 2020}.Label(2021))
	assert.Equal(t, "W07", Week{Week: 7, Year: 2021}.Label(2021))
	assert.Equal(t, "2020-W05", Week{Week: 5, Year: 2020}.Key())
}
