package cms

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hughesschools/content-service/internal/calendar"
	"github.com/hughesschools/content-service/internal/listing"
	"github.com/hughesschools/content-service/internal/schema"
)

// Declared field sets per collection. Lookups outside these resolve to
// absent, which is the safety boundary against malformed payloads.
var (
	eventFields       = schema.NewFieldSet("title", "start", "end", "location", "tipo")
	newsFields        = schema.NewFieldSet("title", "slug", "date", "gallery", "featured_image")
	staffFields       = schema.NewFieldSet("firstName", "lastName", "email", "staff", "foto", "subjects")
	subjectFields     = schema.NewFieldSet("name")
	testimonialFields = schema.NewFieldSet("name", "rol", "message", "date", "photo")
)

const isoDay = "2006-01-02"

// NewsItem is a normalized news entry.
type NewsItem struct {
	ID      string
	Title   string
	Slug    string
	Date    string
	Cover   *schema.MediaRef
	Gallery []schema.MediaRef
}

// StaffMember is a normalized staff directory entry.
type StaffMember struct {
	ID       string
	FullName string
	Email    string
	Group    string
	Subjects []string
	Portrait *schema.MediaRef
}

// Testimonial is a normalized testimonial entry.
type Testimonial struct {
	ID      string
	Name    string
	Role    string
	Message string
	Date    string
	Photo   *schema.MediaRef
}

// EventsBetween fetches the calendar events overlapping [from, to],
// sorted by start date by the store. Records whose start date does not
// parse are skipped with a debug log; one bad entry must not blank the
// month. FetchSize caps the window query (the school year fits well
// under the default 200).
func (c *Client) EventsBetween(ctx context.Context, from, to time.Time, fetchSize int) ([]calendar.Event, error) {
	if fetchSize <= 0 {
		fetchSize = 200
	}
	q := url.Values{}
	q.Set("filters[$and][0][start][$lte]", to.Format(isoDay))
	q.Set("filters[$and][1][$or][0][end][$gte]", from.Format(isoDay))
	q.Set("filters[$and][1][$or][1][end][$null]", "true")
	q.Set("sort", "start:asc")
	q.Set("pagination[pageSize]", strconv.Itoa(fetchSize))
	for i, f := range []string{"title", "start", "end", "location", "tipo"} {
		q.Set("fields["+strconv.Itoa(i)+"]", f)
	}

	records, err := c.list(ctx, "/api/events", q)
	if err != nil {
		return nil, err
	}

	events := make([]calendar.Event, 0, len(records))
	for _, rec := range records {
		start, err := parseDay(rec.StringField(eventFields, "start"))
		if err != nil {
			c.logger.Debug().
				Str("id", rec.ID()).
				Str("start", rec.StringField(eventFields, "start")).
				Msg("skipping event with unparseable start date")
			if c.skips != nil {
				c.skips.RecordSkippedRecord("events", "bad_start_date")
			}
			continue
		}
		var end time.Time
		if raw := rec.StringField(eventFields, "end"); raw != "" {
			if parsed, err := parseDay(raw); err == nil {
				end = parsed
			}
		}
		events = append(events, calendar.NewEvent(
			rec.ID(),
			rec.StringField(eventFields, "title"),
			start,
			end,
			rec.StringField(eventFields, "location"),
			rec.StringField(eventFields, "tipo"),
		))
	}
	return events, nil
}

// News fetches news entries with their galleries populated. The cover is
// the first gallery image, falling back to the featured image; alt text
// falls back to the title.
func (c *Client) News(ctx context.Context) ([]NewsItem, error) {
	q := url.Values{}
	q.Set("populate[gallery]", "true")
	q.Set("populate[featured_image]", "true")
	q.Set("pagination[pageSize]", "100")

	records, err := c.list(ctx, "/api/newspapers", q)
	if err != nil {
		return nil, err
	}

	items := make([]NewsItem, 0, len(records))
	for _, rec := range records {
		title := rec.StringField(newsFields, "title")
		galleryRaw, _ := rec.Field(newsFields, "gallery")
		gallery := c.norm.ResolveMediaList(galleryRaw)

		cover := firstMedia(gallery)
		if cover == nil {
			featuredRaw, _ := rec.Field(newsFields, "featured_image")
			cover = firstMedia(c.norm.ResolveMediaList(featuredRaw))
		}
		if cover != nil && cover.AltText == "" {
			cover.AltText = title
		}

		slug := rec.TrimmedField(newsFields, "slug")
		if slug == "" {
			slug = rec.ID()
		}

		items = append(items, NewsItem{
			ID:      rec.ID(),
			Title:   title,
			Slug:    slug,
			Date:    rec.StringField(newsFields, "date"),
			Cover:   cover,
			Gallery: gallery,
		})
	}
	return items, nil
}

// Teachers fetches the staff directory with portraits and subject
// relations populated.
func (c *Client) Teachers(ctx context.Context) ([]StaffMember, error) {
	q := url.Values{}
	q.Set("populate[foto]", "true")
	q.Set("populate[subjects]", "true")
	q.Set("pagination[pageSize]", "300")

	records, err := c.list(ctx, "/api/teachers", q)
	if err != nil {
		return nil, err
	}

	members := make([]StaffMember, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.TrimmedField(staffFields, "firstName") + " " + rec.TrimmedField(staffFields, "lastName"))
		if name == "" {
			name = "Unnamed"
		}

		subjectsRaw, _ := rec.Field(staffFields, "subjects")
		var subjects []string
		for _, sub := range c.norm.ResolveRelationList(subjectsRaw) {
			if n := sub.TrimmedField(subjectFields, "name"); n != "" {
				subjects = append(subjects, n)
			}
		}

		fotoRaw, _ := rec.Field(staffFields, "foto")
		portrait := firstMedia(c.norm.ResolveMediaList(fotoRaw))
		if portrait != nil && portrait.AltText == "" {
			portrait.AltText = name
		}

		members = append(members, StaffMember{
			ID:       rec.ID(),
			FullName: name,
			Email:    rec.TrimmedField(staffFields, "email"),
			Group:    listing.NormalizeCategory(rec.StringField(staffFields, "staff")),
			Subjects: subjects,
			Portrait: portrait,
		})
	}
	return members, nil
}

// Testimonials fetches testimonial entries with photos populated.
func (c *Client) Testimonials(ctx context.Context) ([]Testimonial, error) {
	q := url.Values{}
	q.Set("populate[photo]", "true")
	q.Set("pagination[pageSize]", "100")

	records, err := c.list(ctx, "/api/testimonials", q)
	if err != nil {
		return nil, err
	}

	items := make([]Testimonial, 0, len(records))
	for _, rec := range records {
		name := rec.TrimmedField(testimonialFields, "name")
		if name == "" {
			name = "Anonymous"
		}
		photoRaw, _ := rec.Field(testimonialFields, "photo")
		photo := firstMedia(c.norm.ResolveMediaList(photoRaw))
		if photo != nil && photo.AltText == "" {
			photo.AltText = name
		}

		items = append(items, Testimonial{
			ID:      rec.ID(),
			Name:    name,
			Role:    listing.NormalizeCategory(rec.StringField(testimonialFields, "rol")),
			Message: rec.StringField(testimonialFields, "message"),
			Date:    rec.StringField(testimonialFields, "date"),
			Photo:   photo,
		})
	}
	return items, nil
}

// parseDay parses the store's ISO date strings, tolerating a full
// timestamp when an editor pastes one.
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(isoDay, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.DateOf(t), nil
}

func firstMedia(refs []schema.MediaRef) *schema.MediaRef {
	if len(refs) == 0 {
		return nil
	}
	ref := refs[0]
	return &ref
}
