package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hughesschools/content-service/internal/calendar"
	"github.com/hughesschools/content-service/internal/cms"
	"github.com/hughesschools/content-service/internal/config"
	cerrors "github.com/hughesschools/content-service/internal/errors"
	"github.com/hughesschools/content-service/internal/health"
	"github.com/hughesschools/content-service/internal/listing"
	"github.com/hughesschools/content-service/internal/metrics"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store     *cms.Client
	palette   calendar.Palette
	checker   *health.Checker
	metrics   *metrics.Metrics
	cfg       *config.Config
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *cms.Client, palette calendar.Palette, checker *health.Checker, m *metrics.Metrics, cfg *config.Config, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store:     store,
		palette:   palette,
		checker:   checker,
		metrics:   m,
		cfg:       cfg,
		logger:    logger.With().Str("component", "handlers").Logger(),
		startTime: time.Now(),
	}
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.startTime).String(),
	})
}

// Readiness handles GET /readyz.
func (h *Handlers) Readiness(c *fiber.Ctx) error {
	results := h.checker.RunAll(c.UserContext())
	for _, s := range results {
		if s == health.StatusDown {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not_ready",
				"checks": results,
			})
		}
	}
	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": results,
	})
}

// GetCalendar handles GET /api/v1/calendar/:month.
//
// The month parameter is YYYY-MM. Optional query parameters: categories
// (comma-separated visible categories; absent shows all), expanded
// (comma-separated ISO dates whose cells render expanded) and week_start
// (0=Sunday..6=Saturday, overriding the configured default).
func (h *Handlers) GetCalendar(c *fiber.Ctx) error {
	anchor, err := time.Parse("2006-01", c.Params("month"))
	if err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_month", "Bad Request",
			"Month must be formatted as YYYY-MM: "+c.Params("month"))
	}

	weekStart := time.Weekday(h.cfg.WeekStart)
	if ws := c.QueryInt("week_start", -1); ws >= 0 && ws <= 6 {
		weekStart = time.Weekday(ws)
	}

	sess := calendar.NewSession(h.fetchEvents, weekStart, h.logger)
	sess.SetCategories(categorySetFromQuery(c.Query("categories")))

	if err := sess.Show(c.UserContext(), anchor); err != nil {
		if errors.Is(err, cerrors.ErrStaleResult) {
			h.metrics.RecordStaleDiscard()
			return problemResponse(c, fiber.StatusConflict,
				"superseded", "Conflict",
				"A newer calendar request superseded this one")
		}
		h.logger.Warn().Err(err).
			Bool("retryable", cerrors.IsRetryable(err)).
			Msg("calendar fetch failed")
		return problemResponse(c, fiber.StatusBadGateway,
			"cms_unavailable", "Bad Gateway",
			"Failed to load events: "+err.Error())
	}

	for _, raw := range splitParam(c.Query("expanded")) {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			sess.ToggleDay(d)
		}
	}

	return c.JSON(calendarResponse(sess.Snapshot(), h.palette))
}

// ListEvents handles GET /api/v1/events: the list view of one month's
// events, with search, category filter and pagination.
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	anchor := time.Now().UTC()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return problemResponse(c, fiber.StatusBadRequest,
				"invalid_month", "Bad Request",
				"Month must be formatted as YYYY-MM: "+raw)
		}
		anchor = parsed
	}
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	events, err := h.fetchEvents(c.UserContext(), first, last)
	if err != nil {
		return problemResponse(c, fiber.StatusBadGateway,
			"cms_unavailable", "Bad Gateway",
			"Failed to load events: "+err.Error())
	}

	res := listing.FilterAndPaginate(events, listing.Params[calendar.Event]{
		Query:    c.Query("q"),
		Category: c.Query("category", listing.AllCategories),
		CategoryOf: func(ev calendar.Event) string {
			return ev.CategoryOrDefault()
		},
		SearchFields: []func(calendar.Event) string{
			func(ev calendar.Event) string { return ev.Title },
			func(ev calendar.Event) string { return ev.Location },
		},
		// The store already sorts by start date; keep that order.
		PageSize: h.cfg.EventsPageSize,
		Page:     c.QueryInt("page", 1),
	})

	return c.JSON(PageResponse[EventDTO]{
		Items:      eventDTOs(res.PageItems, h.palette),
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.ClampedPage,
	})
}

// ListNews handles GET /api/v1/news. Sort is newest-first by default;
// sort=asc flips it. Records without a date sort to the end of the
// newest-first view.
func (h *Handlers) ListNews(c *fiber.Ctx) error {
	items, err := h.store.News(c.UserContext())
	if err != nil {
		return problemResponse(c, fiber.StatusBadGateway,
			"cms_unavailable", "Bad Gateway",
			"Failed to load news: "+err.Error())
	}

	ascending := c.Query("sort") == "asc"
	res := listing.FilterAndPaginate(items, listing.Params[cms.NewsItem]{
		Query: c.Query("q"),
		SearchFields: []func(cms.NewsItem) string{
			func(n cms.NewsItem) string { return n.Title },
			func(n cms.NewsItem) string { return n.Slug },
		},
		Less: func(a, b cms.NewsItem) bool {
			if ascending {
				if a.Date == "" {
					return b.Date != ""
				}
				if b.Date == "" {
					return false
				}
				return a.Date < b.Date
			}
			if a.Date == "" {
				return false
			}
			if b.Date == "" {
				return true
			}
			return a.Date > b.Date
		},
		PageSize: h.cfg.NewsPageSize,
		Page:     c.QueryInt("page", 1),
	})

	out := make([]NewsDTO, 0, len(res.PageItems))
	for _, n := range res.PageItems {
		out = append(out, newsDTO(n))
	}
	return c.JSON(PageResponse[NewsDTO]{
		Items:      out,
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.ClampedPage,
	})
}

// ListStaff handles GET /api/v1/staff. Art staff never appears in this
// directory; the arts pages have their own roster.
func (h *Handlers) ListStaff(c *fiber.Ctx) error {
	members, err := h.store.Teachers(c.UserContext())
	if err != nil {
		return problemResponse(c, fiber.StatusBadGateway,
			"cms_unavailable", "Bad Gateway",
			"Failed to load staff: "+err.Error())
	}

	visible := make([]cms.StaffMember, 0, len(members))
	for _, m := range members {
		if m.Group == "Art" {
			continue
		}
		visible = append(visible, m)
	}

	res := listing.FilterAndPaginate(visible, listing.Params[cms.StaffMember]{
		Query:    c.Query("q"),
		Category: c.Query("group", listing.AllCategories),
		CategoryOf: func(m cms.StaffMember) string {
			return m.Group
		},
		SearchFields: []func(cms.StaffMember) string{
			func(m cms.StaffMember) string { return m.FullName },
			func(m cms.StaffMember) string { return m.Email },
			func(m cms.StaffMember) string { return strings.Join(m.Subjects, " ") },
		},
		SortKey:  func(m cms.StaffMember) string { return m.FullName },
		PageSize: h.cfg.StaffPageSize,
		Page:     c.QueryInt("page", 1),
	})

	out := make([]StaffDTO, 0, len(res.PageItems))
	for _, m := range res.PageItems {
		out = append(out, staffDTO(m))
	}
	return c.JSON(PageResponse[StaffDTO]{
		Items:      out,
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.ClampedPage,
	})
}

// ListTestimonials handles GET /api/v1/testimonials.
func (h *Handlers) ListTestimonials(c *fiber.Ctx) error {
	items, err := h.store.Testimonials(c.UserContext())
	if err != nil {
		return problemResponse(c, fiber.StatusBadGateway,
			"cms_unavailable", "Bad Gateway",
			"Failed to load testimonials: "+err.Error())
	}

	res := listing.FilterAndPaginate(items, listing.Params[cms.Testimonial]{
		Query:    c.Query("q"),
		Category: c.Query("role", listing.AllCategories),
		CategoryOf: func(t cms.Testimonial) string {
			return t.Role
		},
		SearchFields: []func(cms.Testimonial) string{
			func(t cms.Testimonial) string { return t.Name },
			func(t cms.Testimonial) string { return t.Message },
		},
		PageSize: h.cfg.TestimonialsPageSize,
		Page:     c.QueryInt("page", 1),
	})

	out := make([]TestimonialDTO, 0, len(res.PageItems))
	for _, t := range res.PageItems {
		out = append(out, testimonialDTO(t))
	}
	return c.JSON(PageResponse[TestimonialDTO]{
		Items:      out,
		Total:      res.Total,
		TotalPages: res.TotalPages,
		Page:       res.ClampedPage,
	})
}

// fetchEvents loads one window of calendar events from the store,
// recording fetch metrics.
func (h *Handlers) fetchEvents(ctx context.Context, from, to time.Time) ([]calendar.Event, error) {
	start := time.Now()
	events, err := h.store.EventsBetween(ctx, from, to, h.cfg.EventsFetchSize)
	if h.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		h.metrics.RecordCMSFetch("events", outcome, time.Since(start))
	}
	return events, err
}

// categorySetFromQuery parses the comma-separated categories parameter.
// Absent or empty means no filtering.
func categorySetFromQuery(raw string) calendar.CategorySet {
	names := splitParam(raw)
	if len(names) == 0 {
		return nil
	}
	return calendar.NewCategorySet(names...)
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
