// Package calendar turns a flat list of date-ranged event records into a
// navigable month view: a padded week grid, per-day event bucketing with
// category filters, and per-day overflow control. Everything here is pure
// except Session, which owns the fetch lifecycle for a displayed month.
package calendar

import "time"

// DefaultCategory is the bucket for events whose category is absent or
// unrecognized. The palette guarantees an entry for it.
const DefaultCategory = "Other"

// Event is a day-granularity calendar event. End is never before Start: a
// record authored with end < start is collapsed to a single day at Start
// when the event is built (see NewEvent).
type Event struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	Category string
}

// NewEvent builds an Event, defaulting a zero end to start and collapsing
// an end that precedes start to a single-day event anchored at start. The
// collapse is a documented tolerance for authoring mistakes in the content
// store, not an error.
func NewEvent(id, title string, start, end time.Time, location, category string) Event {
	if end.IsZero() || DateOf(end).Before(DateOf(start)) {
		end = start
	}
	return Event{
		ID:       id,
		Title:    title,
		Start:    start,
		End:      end,
		Location: location,
		Category: category,
	}
}

// CategoryOrDefault returns the event's category, or DefaultCategory when
// it has none.
func (e Event) CategoryOrDefault() string {
	if e.Category == "" {
		return DefaultCategory
	}
	return e.Category
}

// SingleDay reports whether the event covers exactly one calendar day.
func (e Event) SingleDay() bool {
	return DateOf(e.Start).Equal(DateOf(e.End))
}

// DateOf truncates a time to its calendar date, dropping time of day and
// normalizing the location so date comparisons are exact.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats a date as its ISO day string, the key used for expansion
// state and day lookups.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// IncludesDay reports whether day's calendar date falls within the event's
// inclusive [start, end] range. Time of day is ignored on both sides, so a
// multi-day event populates every intervening day including both
// boundaries.
func IncludesDay(e Event, day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(e.Start)) && !d.After(DateOf(e.End))
}

// CategorySet is the set of categories currently visible. A nil set means
// no filtering (every category visible).
type CategorySet map[string]struct{}

// NewCategorySet builds a set from category names.
func NewCategorySet(names ...string) CategorySet {
	s := make(CategorySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether the category is visible under this set.
func (s CategorySet) Has(category string) bool {
	if s == nil {
		return true
	}
	_, ok := s[category]
	return ok
}

// Toggle flips one category's visibility and returns the set.
func (s CategorySet) Toggle(category string) CategorySet {
	if s == nil {
		return s
	}
	if _, ok := s[category]; ok {
		delete(s, category)
	} else {
		s[category] = struct{}{}
	}
	return s
}
