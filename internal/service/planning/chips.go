package planning

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

// Chip is an active filter shown as a removable label.
type Chip struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// Chips describes the active filters.
func Chips(f task.Filter, workshops []task.Workshop) []Chip {
	var chips []Chip
	if f.WorkshopID != "" {
		name := "?"
		if id, ok := f.Workshop(); ok {
			for _, w := range workshops {
				if float64(w.ID) == id {
					name = w.Name
					break
				}
			}
		}
		chips = append(chips, Chip{Field: "workshop_id", Label: "Vestiging: " + name})
	}
	if f.Week != "" {
		chips = append(chips, Chip{Field: "week", Label: "Week: " + WeekLabel(f.Week)})
	}
	if skill := strings.TrimSpace(f.Skill); skill != "" {
		chips = append(chips, Chip{Field: "skill", Label: "Skill: " + skill})
	}
	return chips
}

// WeekLabel renders a week filter value as "Week 05 (2024-02-01)". Values
// that are not dates are returned unchanged.
func WeekLabel(value string) string {
	d, ok := isoweek.Parse(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("Week %02d (%s)", isoweek.Of(d).Week, value)
}
