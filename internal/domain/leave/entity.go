package leave

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/numeric"
)

// DefaultWorkdayHours applies to matrix employees without a usable workday length.
const DefaultWorkdayHours = 8.0

// Type describes a kind of leave shown in the matrix.
type Type struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Code  string `json:"code"`
	Color string `json:"color,omitempty"`
}

// Entry is the leave registered for one employee on one date.
type Entry struct {
	Hours numeric.Value `json:"hours"`
	Type  string        `json:"type,omitempty"`
	Code  string        `json:"code,omitempty"`
	Label string        `json:"label,omitempty"`
}

// UnmarshalJSON reads hours given as null or an empty string as zero hours.
// Other unreadable hours stay invalid and count as a full workday.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var raw struct {
		plain
		Hours json.RawMessage `json:"hours"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry(raw.plain)
	if blankHours(raw.Hours) {
		e.Hours = numeric.Of(0)
		return nil
	}
	return e.Hours.UnmarshalJSON(raw.Hours)
}

func blankHours(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return true
	}
	var s string
	return json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) == ""
}

// Employee is a row of the leave matrix, keyed by date in Entries.
type Employee struct {
	Name         string           `json:"name"`
	Role         string           `json:"role"`
	Team         string           `json:"team"`
	WorkdayHours numeric.Value    `json:"workdayHours"`
	Entries      map[string]Entry `json:"entries"`
}

// Workday returns WorkdayHours when positive, else DefaultWorkdayHours.
func (e Employee) Workday() float64 {
	if h, ok := e.WorkdayHours.Float(); ok && h > 0 {
		return h
	}
	return DefaultWorkdayHours
}

// Clamp bounds v to the employee's workday in quarter hours.
func (e Employee) Clamp(v numeric.Value) float64 {
	return numeric.ClampHours(v, e.Workday())
}

// Matrix is the annual leave grid.
type Matrix struct {
	Years     []int      `json:"years"`
	Employees []Employee `json:"employees"`
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := Matrix{Years: append([]int(nil), m.Years...)}
	if m.Employees != nil {
		out.Employees = make([]Employee, len(m.Employees))
	}
	for i, emp := range m.Employees {
		cp := emp
		if emp.Entries != nil {
			cp.Entries = make(map[string]Entry, len(emp.Entries))
			for date, entry := range emp.Entries {
				cp.Entries[date] = entry
			}
		}
		out.Employees[i] = cp
	}
	return out
}

// SortedYears returns the available years ascending.
func (m Matrix) SortedYears() []int {
	years := append([]int(nil), m.Years...)
	sort.Ints(years)
	return years
}

// TotalDailyCapacity sums the workday of every employee.
func (m Matrix) TotalDailyCapacity() float64 {
	total := 0.0
	for _, emp := range m.Employees {
		total += emp.Workday()
	}
	return total
}

// Catalog is the ordered list of configured leave types. The first type is
// the default for entries without one.
type Catalog struct {
	types []Type
}

// DefaultTypes is the catalog used when none is configured.
func DefaultTypes() []Type {
	return []Type{
		{Value: "verlof", Label: "Verlof", Code: "VL", Color: "#4f8cff"},
		{Value: "ziekte", Label: "Ziekte", Code: "ZK", Color: "#ef4444"},
		{Value: "training", Label: "Training", Code: "TR", Color: "#f59e0b"},
		{Value: "bijzonder", Label: "Bijzonder verlof", Code: "BV", Color: "#a855f7"},
		{Value: "atv", Label: "ATV", Code: "AT", Color: "#14b8a6"},
	}
}

func NewCatalog(types []Type) Catalog {
	if len(types) == 0 {
		types = DefaultTypes()
	}
	return Catalog{types: append([]Type(nil), types...)}
}

func (c Catalog) Types() []Type {
	return append([]Type(nil), c.types...)
}

// Default is the value of the first type.
func (c Catalog) Default() string {
	return c.types[0].Value
}

func (c Catalog) find(value string) (Type, bool) {
	for _, t := range c.types {
		if t.Value == value {
			return t, true
		}
	}
	return Type{}, false
}

// CodeFor returns the configured code, or the first two alphanumerics of
// value upper-cased.
func (c Catalog) CodeFor(value string) string {
	if t, ok := c.find(value); ok && t.Code != "" {
		return t.Code
	}
	var b strings.Builder
	for _, r := range value {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			if b.Len() == 2 {
				break
			}
		}
	}
	return strings.ToUpper(b.String())
}

// LabelFor returns the configured label, or value capitalised.
func (c Catalog) LabelFor(value string) string {
	if t, ok := c.find(value); ok {
		return t.Label
	}
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

// Options lists the selectable types for a cell. An entry with a type the
// catalog does not know keeps that type as an extra option.
func (c Catalog) Options(entry *Entry) []Type {
	options := c.Types()
	if entry == nil || entry.Type == "" {
		return options
	}
	if _, ok := c.find(entry.Type); ok {
		return options
	}
	code := entry.Code
	if code == "" {
		code = c.CodeFor(entry.Type)
	}
	return append(options, Type{Value: entry.Type, Label: c.LabelFor(entry.Type), Code: code})
}

// Normalize fills in the type and code and clamps the hours to the
// employee's workday.
func (c Catalog) Normalize(e Entry, emp Employee) Entry {
	if e.Type == "" {
		e.Type = c.Default()
	}
	if e.Code == "" {
		e.Code = c.CodeFor(e.Type)
	}
	e.Hours = numeric.Of(emp.Clamp(e.Hours))
	return e
}
