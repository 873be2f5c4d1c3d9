package source

import (
	"strings"
	"time"
)

// Filter is a single filtering step applied to fetched records before they
// reach the store.
type Filter interface {
	Name() string
	Apply(records []Record) (kept []Record, step Step)
}

// Step describes the result of executing one filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

type locationFilter struct {
	allowed []string
}

// NewLocationFilter keeps records whose location contains one of the allowed
// substrings (case-insensitive). An empty allow-list keeps everything,
// including records without a location.
func NewLocationFilter(allowed []string) Filter {
	return &locationFilter{allowed: allowed}
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Apply(records []Record) ([]Record, Step) {
	initial := len(records)
	if len(f.allowed) == 0 {
		return records, Step{Initial: initial, Left: initial}
	}

	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if f.matches(rec.Location) {
			kept = append(kept, rec)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}

func (f *locationFilter) matches(location string) bool {
	location = strings.ToLower(location)
	for _, allowed := range f.allowed {
		if strings.Contains(location, strings.ToLower(strings.TrimSpace(allowed))) {
			return true
		}
	}
	return false
}

type deadlineFilter struct {
	now func() time.Time
}

// NewDeadlineFilter drops records whose application deadline already passed.
// Records without a deadline are kept.
func NewDeadlineFilter() Filter {
	return &deadlineFilter{now: time.Now}
}

func (f *deadlineFilter) Name() string { return "deadline" }

func (f *deadlineFilter) Apply(records []Record) ([]Record, Step) {
	initial := len(records)
	now := f.now()

	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Deadline != nil && rec.Deadline.Before(now) {
			continue
		}
		kept = append(kept, rec)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
