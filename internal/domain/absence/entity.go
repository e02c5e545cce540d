package absence

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// Reason is a closed set of absence causes, stored as lowercase keys.
type Reason string

const (
	ReasonVerlof      Reason = "verlof"
	ReasonZiekte      Reason = "ziekte"
	ReasonTraining    Reason = "training"
	ReasonWerktelders Reason = "werktelders"
	ReasonAfwezig     Reason = "afwezig"
)

var reasons = []Reason{
	ReasonVerlof,
	ReasonZiekte,
	ReasonTraining,
	ReasonWerktelders,
	ReasonAfwezig,
}

// Reasons returns the reasons in display order.
func Reasons() []Reason {
	out := make([]Reason, len(reasons))
	copy(out, reasons)
	return out
}

func (r Reason) IsValid() bool {
	for _, known := range reasons {
		if r == known {
			return true
		}
	}
	return false
}

// Color is the CSS colour token used to paint the reason.
func (r Reason) Color() string {
	return "var(--r-" + string(r) + ")"
}

const (
	StatusAbsent    = "afwezig"
	StatusAvailable = "beschikbaar"
)

// Record is the absence of one employee on one date. Hours is authoritative;
// Status only matters for records written without hours.
type Record struct {
	Hours   numeric.Value      `json:"hours"`
	Reasons map[Reason]float64 `json:"reasons"`
	Status  string             `json:"status"`
}

// UnmarshalJSON reads stored records leniently: non-numeric hours stay
// invalid and malformed reason maps are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hours   numeric.Value   `json:"hours"`
		Reasons json.RawMessage `json:"reasons"`
		Status  json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{Hours: raw.Hours, Reasons: map[Reason]float64{}}

	var status string
	if json.Unmarshal(raw.Status, &status) == nil {
		r.Status = status
	}

	if len(bytes.TrimSpace(raw.Reasons)) > 0 && raw.Reasons[0] == '{' {
		var values map[string]numeric.Value
		if json.Unmarshal(raw.Reasons, &values) == nil {
			for k, v := range values {
				if f, ok := v.Float(); ok {
					r.Reasons[Reason(k)] = f
				}
			}
		}
	}
	return nil
}

// Blocked returns how many of base hours the record takes off the day.
// Hours decide; a record without usable hours blocks nothing whatever its
// status says.
func (r Record) Blocked(base float64) float64 {
	h, ok := r.Hours.Float()
	if !ok || h <= 0 {
		return 0
	}
	return math.Min(h, math.Max(0, base))
}

// Segment is one coloured part of a day bar.
type Segment struct {
	Reason Reason  `json:"reason"`
	Hours  float64 `json:"hours"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
}

// Segments splits the absent hours over the reasons in display order. Hours
// not attributed to a reason are shown as "afwezig". Width is a percentage
// of base.
func (r Record) Segments(base float64) []Segment {
	hours := r.Hours.Or(0)
	if hours <= 0 || base <= 0 {
		return nil
	}
	var segments []Segment
	used := 0.0
	for _, reason := range reasons {
		v := r.Reasons[reason]
		if v <= 0 {
			continue
		}
		used += v
		segments = append(segments, Segment{Reason: reason, Hours: v, Color: reason.Color(), Width: v / base * 100})
	}
	if used < hours {
		rest := hours - used
		segments = append(segments, Segment{Reason: ReasonAfwezig, Hours: rest, Color: ReasonAfwezig.Color(), Width: rest / base * 100})
	}
	return segments
}

// Key addresses a record in the absences map.
func Key(employeeID, date string) string {
	return employeeID + "|" + date
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (employeeID, date string, ok bool) {
	i := strings.LastIndex(key, "|")
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
