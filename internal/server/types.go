package server

import (
	"github.com/hughesschools/content-service/internal/calendar"
	"github.com/hughesschools/content-service/internal/cms"
	"github.com/hughesschools/content-service/internal/schema"
)

// ProblemDetail is the problem+json error payload.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// EventDTO is one calendar event as rendered to clients.
type EventDTO struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Location string         `json:"location,omitempty"`
	Category string         `json:"category"`
	Color    calendar.Color `json:"color"`
}

// DayCellDTO is one day of the month grid.
type DayCellDTO struct {
	Date          string     `json:"date"`
	InTargetMonth bool       `json:"in_target_month"`
	Events        []EventDTO `json:"events"`
	Visible       []EventDTO `json:"visible"`
	HiddenCount   int        `json:"hidden_count"`
	OverflowLabel string     `json:"overflow_label,omitempty"`
	Expanded      bool       `json:"expanded"`
}

// CalendarResponse is the month view payload.
type CalendarResponse struct {
	Month      string                    `json:"month"`
	WeekStart  int                       `json:"week_start"`
	Weeks      [][]DayCellDTO            `json:"weeks"`
	Events     []EventDTO                `json:"events"`
	Categories []string                  `json:"categories"`
	Palette    map[string]calendar.Color `json:"palette"`
}

// PageResponse is the common browse-page payload.
type PageResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
}

func eventDTO(ev calendar.Event, palette calendar.Palette) EventDTO {
	return EventDTO{
		ID:       ev.ID,
		Title:    ev.Title,
		Start:    calendar.DayKey(ev.Start),
		End:      calendar.DayKey(ev.End),
		Location: ev.Location,
		Category: ev.CategoryOrDefault(),
		Color:    palette.For(ev.Category),
	}
}

func eventDTOs(events []calendar.Event, palette calendar.Palette) []EventDTO {
	out := make([]EventDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, eventDTO(ev, palette))
	}
	return out
}

func dayCellDTO(c calendar.DayCell, palette calendar.Palette) DayCellDTO {
	return DayCellDTO{
		Date:          calendar.DayKey(c.Date),
		InTargetMonth: c.InTargetMonth,
		Events:        eventDTOs(c.Events, palette),
		Visible:       eventDTOs(c.VisibleEvents(), palette),
		HiddenCount:   c.HiddenCount(),
		OverflowLabel: c.OverflowLabel(),
		Expanded:      c.Expanded,
	}
}

func calendarResponse(snap calendar.Snapshot, palette calendar.Palette) CalendarResponse {
	weeks := make([][]DayCellDTO, len(snap.Grid.Weeks))
	for i, w := range snap.Grid.Weeks {
		row := make([]DayCellDTO, len(w))
		for j, c := range w {
			row[j] = dayCellDTO(c, palette)
		}
		weeks[i] = row
	}
	return CalendarResponse{
		Month:      snap.Month.Format("2006-01"),
		WeekStart:  int(snap.Grid.WeekStart),
		Weeks:      weeks,
		Events:     eventDTOs(snap.Events, palette),
		Categories: palette.Categories(),
		Palette:    palette,
	}
}

// NewsDTO is one news entry in the browse payload.
type NewsDTO struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Slug    string     `json:"slug"`
	Date    string     `json:"date,omitempty"`
	Cover   *MediaDTO  `json:"cover,omitempty"`
	Gallery []MediaDTO `json:"gallery,omitempty"`
}

// MediaDTO is a resolved media reference.
type MediaDTO struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// StaffDTO is one staff directory entry.
type StaffDTO struct {
	ID       string    `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
	Group    string    `json:"group,omitempty"`
	Subjects []string  `json:"subjects,omitempty"`
	Portrait *MediaDTO `json:"portrait,omitempty"`
}

// TestimonialDTO is one testimonial entry.
type TestimonialDTO struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Role    string    `json:"role,omitempty"`
	Message string    `json:"message"`
	Date    string    `json:"date,omitempty"`
	Photo   *MediaDTO `json:"photo,omitempty"`
}

func mediaDTO(ref *schema.MediaRef) *MediaDTO {
	if ref == nil {
		return nil
	}
	return &MediaDTO{URL: ref.URL, Alt: ref.AltText}
}

func mediaDTOs(refs []schema.MediaRef) []MediaDTO {
	out := make([]MediaDTO, 0, len(refs))
	for _, r := range refs {
		out = append(out, MediaDTO{URL: r.URL, Alt: r.AltText})
	}
	return out
}

func newsDTO(n cms.NewsItem) NewsDTO {
	return NewsDTO{
		ID:      n.ID,
		Title:   n.Title,
		Slug:    n.Slug,
		Date:    n.Date,
		Cover:   mediaDTO(n.Cover),
		Gallery: mediaDTOs(n.Gallery),
	}
}

func staffDTO(m cms.StaffMember) StaffDTO {
	return StaffDTO{
		ID:       m.ID,
		FullName: m.FullName,
		Email:    m.Email,
		Group:    m.Group,
		Subjects: m.Subjects,
		Portrait: mediaDTO(m.Portrait),
	}
}

func testimonialDTO(t cms.Testimonial) TestimonialDTO {
	return TestimonialDTO{
		ID:      t.ID,
		Name:    t.Name,
		Role:    t.Role,
		Message: t.Message,
		Date:    t.Date,
		Photo:   mediaDTO(t.Photo),
	}
}
