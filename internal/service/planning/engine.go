package planning

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
)

// TaskSource yields the task list, its version and the active filters in
// one consistent read.
type TaskSource interface {
	TaskView() ([]task.Task, uint64, task.Filter)
}

type cacheEntry struct {
	signature string
	items     []task.Item
}

// Engine produces the filtered and sorted task view. The last result is
// kept and returned as-is while the signature of its inputs is unchanged.
type Engine struct {
	source TaskSource

	mu           sync.Mutex
	cache        *cacheEntry
	computations int
}

func NewEngine(source TaskSource) *Engine {
	return &Engine{source: source}
}

// Filtered returns the tasks matching the filters, sorted by priority, due
// date, hours and title. The slice is shared with later calls and must not
// be modified.
func (e *Engine) Filtered() []task.Item {
	tasks, version, filter := e.source.TaskView()
	signature := filter.Signature(version, len(tasks))

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache != nil && e.cache.signature == signature {
		return e.cache.items
	}

	items := filterTasks(tasks, filter)
	sortItems(items)
	e.cache = &cacheEntry{signature: signature, items: items}
	e.computations++
	return items
}

// Invalidate drops the cached view.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = nil
}

// ForChart returns the tasks in the workshop and skill scope, in stored
// order. The week filter does not apply.
func (e *Engine) ForChart() []task.Task {
	tasks, _, filter := e.source.TaskView()
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.MatchesScope(t) {
			out = append(out, t)
		}
	}
	return out
}

func filterTasks(tasks []task.Task, filter task.Filter) []task.Item {
	items := make([]task.Item, 0, len(tasks))
	for _, t := range tasks {
		if !filter.MatchesScope(t) {
			continue
		}
		item := task.NewItem(t)
		if !filter.MatchesWeek(item.Due) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func sortItems(items []task.Item) {
	titles := collate.New(language.Dutch, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.Due != nil && b.Due != nil:
			if !a.Due.Equal(*b.Due) {
				return a.Due.Before(*b.Due)
			}
		case a.Due != nil:
			return true
		case b.Due != nil:
			return false
		}
		if a.SafeHours != b.SafeHours {
			return a.SafeHours > b.SafeHours
		}
		return titles.CompareString(a.Title, b.Title) < 0
	})
}
