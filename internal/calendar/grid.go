package calendar

import (
	"fmt"
	"time"
)

// MaxVisible is how many events a day cell shows before the overflow
// affordance takes over.
const MaxVisible = 3

// DayCell is one day of the month grid. Events keep the order of the input
// list; Expanded is view-local overflow state, never persisted.
type DayCell struct {
	Date          time.Time
	InTargetMonth bool
	Events        []Event
	Expanded      bool
}

// VisibleEvents returns the events the cell renders: all of them when
// expanded, at most MaxVisible otherwise.
func (c DayCell) VisibleEvents() []Event {
	if c.Expanded || len(c.Events) <= MaxVisible {
		return c.Events
	}
	return c.Events[:MaxVisible]
}

// HiddenCount is how many events the collapsed cell is not showing.
func (c DayCell) HiddenCount() int {
	if c.Expanded {
		return 0
	}
	if n := len(c.Events) - MaxVisible; n > 0 {
		return n
	}
	return 0
}

// OverflowLabel is the affordance text for the cell: "+N more" while
// collapsed with hidden events, "Show less" while expanded past the limit,
// empty otherwise.
func (c DayCell) OverflowLabel() string {
	if !c.Expanded {
		if n := c.HiddenCount(); n > 0 {
			return fmt.Sprintf("+%d more", n)
		}
		return ""
	}
	if len(c.Events) > MaxVisible {
		return "Show less"
	}
	return ""
}

// Week is one grid row of exactly seven consecutive days.
type Week []DayCell

// MonthGrid is the padded week grid for one displayed month. The grid
// always begins on or before the 1st and ends on or after the month's last
// day, so len(Days()) is a multiple of seven and the flattened dates
// increase by exactly one day each step.
type MonthGrid struct {
	// Anchor is the first day of the displayed month.
	Anchor    time.Time
	WeekStart time.Weekday
	Weeks     []Week
}

// Days returns the flattened day sequence.
func (g MonthGrid) Days() []DayCell {
	out := make([]DayCell, 0, len(g.Weeks)*7)
	for _, w := range g.Weeks {
		out = append(out, w...)
	}
	return out
}

// Cell returns the cell for the given date, if it is on the grid.
func (g MonthGrid) Cell(day time.Time) (DayCell, bool) {
	d := DateOf(day)
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Date.Equal(d) {
				return c, true
			}
		}
	}
	return DayCell{}, false
}

// BuildMonthGrid builds the week grid for the month containing anchor. The
// month's first day is extended backward to the nearest weekStart weekday
// and its last day forward to the day before the next weekStart, padding
// with adjacent-month days flagged InTargetMonth=false.
func BuildMonthGrid(anchor time.Time, weekStart time.Weekday) MonthGrid {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	trail := (int(weekStart) + 6 - int(last.Weekday())) % 7

	gridStart := first.AddDate(0, 0, -lead)
	gridEnd := last.AddDate(0, 0, trail)

	g := MonthGrid{Anchor: first, WeekStart: weekStart}
	var week Week
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		week = append(week, DayCell{
			Date:          d,
			InTargetMonth: d.Month() == first.Month() && d.Year() == first.Year(),
			Events:        []Event{},
		})
		if len(week) == 7 {
			g.Weeks = append(g.Weeks, week)
			week = nil
		}
	}
	return g
}

// BucketEvents returns a copy of the grid with every cell holding the
// events that overlap its day and pass the category filter. The input grid
// is not mutated and the input order of events is preserved per cell; the
// upstream query already sorts by start date and re-sorting here would
// hide an upstream ordering bug.
func BucketEvents(grid MonthGrid, events []Event, active CategorySet) MonthGrid {
	out := MonthGrid{Anchor: grid.Anchor, WeekStart: grid.WeekStart, Weeks: make([]Week, len(grid.Weeks))}
	for i, w := range grid.Weeks {
		row := make(Week, len(w))
		for j, cell := range w {
			bucket := make([]Event, 0)
			for _, ev := range events {
				if !active.Has(ev.CategoryOrDefault()) {
					continue
				}
				if IncludesDay(ev, cell.Date) {
					bucket = append(bucket, ev)
				}
			}
			row[j] = DayCell{
				Date:          cell.Date,
				InTargetMonth: cell.InTargetMonth,
				Events:        bucket,
				Expanded:      cell.Expanded,
			}
		}
		out.Weeks[i] = row
	}
	return out
}

// ExpandedDays tracks which day cells are expanded, keyed by ISO date.
// It is view-local state, reset whenever the displayed month changes.
type ExpandedDays map[string]struct{}

// Toggle flips one day's expansion.
func (e ExpandedDays) Toggle(day time.Time) {
	key := DayKey(day)
	if _, ok := e[key]; ok {
		delete(e, key)
	} else {
		e[key] = struct{}{}
	}
}

// Has reports whether the day is expanded.
func (e ExpandedDays) Has(day time.Time) bool {
	_, ok := e[DayKey(day)]
	return ok
}

// Apply returns a copy of the grid with Expanded set from this state.
func (e ExpandedDays) Apply(grid MonthGrid) MonthGrid {
	out := MonthGrid{Anchor: grid.Anchor, WeekStart: grid.WeekStart, Weeks: make([]Week, len(grid.Weeks))}
	for i, w := range grid.Weeks {
		row := make(Week, len(w))
		copy(row, w)
		for j := range row {
			row[j].Expanded = e.Has(row[j].Date)
		}
		out.Weeks[i] = row
	}
	return out
}
