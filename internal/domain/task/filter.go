package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// Filter holds the raw values of the board filters. Empty means unset.
type Filter struct {
	WorkshopID string `json:"workshop_id"`
	Week       string `json:"week"`
	Skill      string `json:"skill"`
}

// Workshop resolves the workshop filter. ok is false when it is unset or
// not a number.
func (f Filter) Workshop() (id float64, ok bool) {
	if f.WorkshopID == "" {
		return 0, false
	}
	return numeric.Parse(f.WorkshopID).Float()
}

// SkillTerm is the lowercased, trimmed skill search term.
func (f Filter) SkillTerm() string {
	return strings.ToLower(strings.TrimSpace(f.Skill))
}

// SelectedWeek resolves the week filter from any date within the week.
func (f Filter) SelectedWeek() (isoweek.Week, bool) {
	d, ok := isoweek.Parse(f.Week)
	if !ok {
		return isoweek.Week{}, false
	}
	return isoweek.Of(d), true
}

// Signature identifies the inputs of a filtered view. Two calls with equal
// signatures must yield the same result.
func (f Filter) Signature(version uint64, count int) string {
	workshop := ""
	if id, ok := f.Workshop(); ok {
		workshop = strconv.FormatFloat(id, 'f', -1, 64)
	}
	return strings.Join([]string{
		strconv.FormatUint(version, 10),
		strconv.Itoa(count),
		workshop,
		f.Week,
		f.SkillTerm(),
	}, "|")
}

// MatchesScope applies the workshop and skill filters.
func (f Filter) MatchesScope(t Task) bool {
	if id, ok := f.Workshop(); ok {
		wid, valid := t.WorkshopID.Float()
		if !valid || wid != id {
			return false
		}
	}
	if term := f.SkillTerm(); term != "" {
		if !strings.Contains(strings.ToLower(t.Skill), term) {
			return false
		}
	}
	return true
}

// MatchesWeek applies the week filter. A task without a valid due date never
// matches a set week.
func (f Filter) MatchesWeek(due *time.Time) bool {
	week, ok := f.SelectedWeek()
	if !ok {
		return true
	}
	if due == nil {
		return false
	}
	return isoweek.Of(*due) == week
}
