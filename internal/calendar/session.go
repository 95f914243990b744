package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	cerrors "github.com/hughesschools/content-service/internal/errors"
)

// State is the session's fetch lifecycle for the displayed month.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchFunc loads the events overlapping [from, to] from the content
// store, already sorted by start date.
type FetchFunc func(ctx context.Context, from, to time.Time) ([]Event, error)

// Session owns the stateful surface of the calendar: the displayed month,
// its fetch lifecycle and the view-local filter and expansion state.
// Navigation always passes through Loading and replaces the previous grid;
// there is no stale-while-revalidate. A generation counter captured at
// fetch start enforces "latest request wins": a response that arrives for
// a superseded navigation is discarded so an out-of-order fetch never
// overwrites a newer view. Failed fetches are not retried; the next
// navigation is the retry.
type Session struct {
	mu sync.Mutex

	fetch     FetchFunc
	weekStart time.Weekday
	logger    zerolog.Logger

	generation uint64
	state      State
	month      time.Time
	events     []Event
	err        error

	active   CategorySet
	expanded ExpandedDays
}

// Snapshot is an immutable view of the session for rendering.
type Snapshot struct {
	State  State
	Month  time.Time
	Grid   MonthGrid
	Events []Event
	Err    error
}

// NewSession creates an idle session. The nil active set shows every
// category until the caller narrows it.
func NewSession(fetch FetchFunc, weekStart time.Weekday, logger zerolog.Logger) *Session {
	return &Session{
		fetch:     fetch,
		weekStart: weekStart,
		logger:    logger.With().Str("component", "calendar_session").Logger(),
		state:     StateIdle,
		expanded:  make(ExpandedDays),
	}
}

// Show navigates the session to the month containing anchor. It fetches
// the month's events synchronously and moves the session to Ready or
// Failed — unless a newer navigation started meanwhile, in which case the
// result is discarded and ErrStaleResult is returned. Expansion state
// resets on every navigation.
func (s *Session) Show(ctx context.Context, anchor time.Time) error {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoading
	s.month = first
	s.err = nil
	s.expanded = make(ExpandedDays)
	s.mu.Unlock()

	events, err := s.fetch(ctx, first, last)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug().
			Time("month", first).
			Msg("discarding stale month fetch")
		return cerrors.ErrStaleResult
	}
	if err != nil {
		s.state = StateFailed
		s.events = nil
		s.err = err
		return err
	}
	s.state = StateReady
	s.events = events
	return nil
}

// SetCategories replaces the active category filter. Nil means all
// categories visible.
func (s *Session) SetCategories(active CategorySet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

// ToggleCategory flips one category's visibility. The first toggle on an
// unfiltered session starts from the given palette's full category list,
// matching the filter chips the site renders.
func (s *Session) ToggleCategory(category string, palette Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		s.active = NewCategorySet(palette.Categories()...)
	}
	s.active.Toggle(category)
}

// ToggleDay flips one day cell's overflow expansion. Toggling one cell
// never affects the others.
func (s *Session) ToggleDay(day time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded.Toggle(day)
}

// Snapshot recomputes the month grid from the current inputs and returns
// it with the session state. The grid is rebuilt from scratch on every
// call; nothing is cached across input changes.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state, Month: s.month, Err: s.err}
	if s.state != StateReady {
		return snap
	}
	grid := BuildMonthGrid(s.month, s.weekStart)
	grid = BucketEvents(grid, s.events, s.active)
	snap.Grid = s.expanded.Apply(grid)
	snap.Events = visibleEvents(s.events, s.active)
	return snap
}

// visibleEvents filters the month's event list (the list view) by the
// active categories, preserving input order.
func visibleEvents(events []Event, active CategorySet) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if active.Has(ev.CategoryOrDefault()) {
			out = append(out, ev)
		}
	}
	return out
}
