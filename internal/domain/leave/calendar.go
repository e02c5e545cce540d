package leave

// Day is a column of the leave matrix.
type Day struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	Weekday    string `json:"weekday"`
	Week       int    `json:"week"`
	ISOYear    int    `json:"isoYear"`
	Weekend    bool   `json:"weekend"`
	Month      int    `json:"month"`
	MonthLabel string `json:"monthLabel"`
}

// SeriesPoint is the capacity and workload of one ISO week.
type SeriesPoint struct {
	Week     int     `json:"week"`
	Year     int     `json:"year"`
	Capacity float64 `json:"capacity"`
	Workload float64 `json:"workload"`
	Label    string  `json:"label"`
}

// HeaderGroup spans Span consecutive days under one label.
type HeaderGroup struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Span  int    `json:"span"`
}

var WeekdayLabels = [7]string{"zo", "ma", "di", "wo", "do", "vr", "za"}

var MonthLabels = [12]string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"}
