// Package view derives what the task list shows: the filtered, sorted subset
// and the aggregate statistics. Everything here is a pure function of its
// inputs.
package view

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// Filter selects a subset of tasks.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterPending    Filter = "pending"
	FilterInProgress Filter = "inprogress"
	FilterHigh       Filter = "high"
	FilterMedium     Filter = "medium"
	FilterLow        Filter = "low"
)

// SortKey selects the ordering of the visible tasks.
type SortKey string

const (
	SortDate     SortKey = "date"
	SortTitle    SortKey = "title"
	SortPriority SortKey = "priority"
	SortStatus   SortKey = "status"
)

// Filters lists every filter in menu order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterInProgress, FilterCompleted, FilterHigh, FilterMedium, FilterLow}
}

// SortKeys lists every sort key in menu order.
func SortKeys() []SortKey {
	return []SortKey{SortDate, SortTitle, SortPriority, SortStatus}
}

// ParseFilter maps user input to a Filter; unknown input selects all tasks.
func ParseFilter(s string) Filter {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Filters(), f) {
		return f
	}
	return FilterAll
}

// ParseSortKey maps user input to a SortKey; unknown input sorts by date.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys(), k) {
		return k
	}
	return SortDate
}

// Stats are the aggregate counts over the whole collection, independent of
// the active filter.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Progress   int `json:"progress"`
}

// Projection is the result of Project.
type Projection struct {
	Visible []domain.Task
	Stats   Stats
}

// Project filters and sorts tasks and computes the statistics. The input
// slice is never modified.
func Project(tasks []domain.Task, filter Filter, key SortKey) Projection {
	visible := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, filter) {
			visible = append(visible, t)
		}
	}
	slices.SortStableFunc(visible, comparator(key))
	return Projection{Visible: visible, Stats: ComputeStats(tasks)}
}

func matches(t domain.Task, f Filter) bool {
	switch f {
	case FilterCompleted:
		return t.Status.Is(domain.StatusCompleted)
	case FilterPending:
		return t.Status.Is(domain.StatusPending)
	case FilterInProgress:
		return t.Status.Is(domain.StatusInProgress)
	case FilterHigh:
		return t.Priority.Is(domain.PriorityHigh)
	case FilterMedium:
		return t.Priority.Is(domain.PriorityMedium)
	case FilterLow:
		return t.Priority.Is(domain.PriorityLow)
	default:
		return true
	}
}

func comparator(key SortKey) func(a, b domain.Task) int {
	switch key {
	case SortTitle:
		// A Collator is not safe for concurrent use, so each projection gets its own.
		c := collate.New(language.Und)
		return func(a, b domain.Task) int {
			return c.CompareString(a.Title, b.Title)
		}
	case SortPriority:
		return func(a, b domain.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortStatus:
		return func(a, b domain.Task) int {
			return strings.Compare(string(a.Status), string(b.Status))
		}
	default:
		return func(a, b domain.Task) int {
			da, _ := a.Due()
			db, _ := b.Due()
			return da.Compare(db)
		}
	}
}

// ComputeStats counts tasks per status. Progress is the rounded completed
// percentage, 0 for an empty collection.
func ComputeStats(tasks []domain.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch domain.ParseStatus(string(t.Status)) {
		case domain.StatusCompleted:
			s.Completed++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusPending:
			s.Pending++
		}
	}
	if s.Total > 0 {
		s.Progress = int(math.Round(100 * float64(s.Completed) / float64(s.Total)))
	}
	return s
}
