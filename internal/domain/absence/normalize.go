package absence

import (
	"math"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// Patch is a partial update of a record. Nil fields keep the current value;
// a non-nil Reasons map replaces the reasons as a whole.
type Patch struct {
	Hours   *float64           `json:"hours,omitempty"`
	Reasons map[string]float64 `json:"reasons,omitempty"`
}

// Merge applies p over current and normalises the result against an
// employee day of base hours. keep is false when the record carries nothing
// and should be removed.
func Merge(current Record, p Patch, base float64) (next Record, keep bool) {
	merged := Record{Hours: current.Hours, Status: current.Status, Reasons: current.Reasons}
	if p.Hours != nil {
		merged.Hours = numeric.Of(*p.Hours)
	}
	if p.Reasons != nil {
		merged.Reasons = make(map[Reason]float64, len(p.Reasons))
		for k, v := range p.Reasons {
			merged.Reasons[Reason(k)] = v
		}
	}
	if h, ok := merged.Hours.Float(); ok && base > 0 && h > base {
		merged.Hours = numeric.Of(base)
	}
	return Normalize(merged)
}

// Normalize derives the status, drops unknown or non-positive reasons and
// scales the reasons down proportionally when they exceed the hours.
// Negative hours count as zero, which leaves no room for reasons.
func Normalize(r Record) (Record, bool) {
	hours := math.Max(0, r.Hours.Or(0))
	out := Record{
		Hours:   numeric.Of(hours),
		Reasons: make(map[Reason]float64, len(r.Reasons)),
		Status:  StatusAvailable,
	}
	if hours > 0 {
		out.Status = StatusAbsent
	}

	total := 0.0
	for reason, v := range r.Reasons {
		if !reason.IsValid() || !(v > 0) {
			continue
		}
		out.Reasons[reason] = v
		total += v
	}

	if total > hours {
		factor := hours / total
		for reason, v := range out.Reasons {
			if scaled := numeric.Round1(v * factor); scaled > 0 {
				out.Reasons[reason] = scaled
			} else {
				delete(out.Reasons, reason)
			}
		}
	}

	return out, hours > 0 || len(out.Reasons) > 0
}
