package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hughesschools/content-service/internal/calendar"
	"github.com/hughesschools/content-service/internal/cms"
	"github.com/hughesschools/content-service/internal/config"
	"github.com/hughesschools/content-service/internal/health"
	"github.com/hughesschools/content-service/internal/metrics"
)

// newTestServer wires a full server against a fake content store.
func newTestServer(t *testing.T, store http.HandlerFunc) *Server {
	t.Helper()
	upstream := httptest.NewServer(store)
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		CMSBaseURL:           upstream.URL,
		WeekStart:            0,
		EventsFetchSize:      200,
		NewsPageSize:         9,
		StaffPageSize:        8,
		EventsPageSize:       6,
		TestimonialsPageSize: 6,
	}
	client := cms.NewClient(cms.Config{BaseURL: upstream.URL, Timeout: 5 * time.Second}, zerolog.Nop())
	checker := health.NewChecker(zerolog.Nop())
	h := NewHandlers(client, calendar.DefaultPalette(), checker, metrics.New(), cfg, zerolog.Nop())
	return NewServer(ServerConfig{}, h, metrics.New(), zerolog.Nop())
}

func doJSON(t *testing.T, s *Server, path string, out any) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
	}
	return resp
}

func marchEventsStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": 1, "title": "Art Fair", "start": "2025-03-05", "end": "2025-03-07", "location": "Main Hall", "tipo": "Academic"},
			{"id": 2, "attributes": {"title": "Recital", "start": "2025-03-10", "tipo": "Music"}},
			{"id": 3, "title": "Broken", "start": "not-a-date"}
		]}`))
	}
}

func TestGetCalendar_MonthView(t *testing.T) {
	s := newTestServer(t, marchEventsStore())

	var got CalendarResponse
	resp := doJSON(t, s, "/api/v1/calendar/2025-03", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2025-03", got.Month)
	require.Len(t, got.Weeks, 6)
	assert.Equal(t, "2025-02-23", got.Weeks[0][0].Date)
	assert.Equal(t, "2025-04-05", got.Weeks[5][6].Date)
	assert.False(t, got.Weeks[0][0].InTargetMonth)

	// The malformed record is skipped, not fatal.
	require.Len(t, got.Events, 2)

	// The three-day event lands on the 5th, 6th and 7th and nowhere else.
	hits := 0
	for _, week := range got.Weeks {
		for _, cell := range week {
			for _, ev := range cell.Events {
				if ev.Title == "Art Fair" {
					hits++
					assert.Contains(t, []string{"2025-03-05", "2025-03-06", "2025-03-07"}, cell.Date)
				}
			}
		}
	}
	assert.Equal(t, 3, hits)

	assert.Contains(t, got.Palette, "Other")
	assert.Equal(t, "Academic", got.Events[0].Category)
	assert.Equal(t, calendar.DefaultPalette().For("Academic"), got.Events[0].Color)
}

func TestGetCalendar_CategoriesFilter(t *testing.T) {
	s := newTestServer(t, marchEventsStore())

	var got CalendarResponse
	doJSON(t, s, "/api/v1/calendar/2025-03?categories=Music", &got)

	require.Len(t, got.Events, 1)
	assert.Equal(t, "Recital", got.Events[0].Title)
}

func TestGetCalendar_ExpandedDays(t *testing.T) {
	s := newTestServer(t, marchEventsStore())

	var got CalendarResponse
	doJSON(t, s, "/api/v1/calendar/2025-03?expanded=2025-03-05", &got)

	for _, week := range got.Weeks {
		for _, cell := range week {
			assert.Equal(t, cell.Date == "2025-03-05", cell.Expanded)
		}
	}
}

func TestGetCalendar_InvalidMonth(t *testing.T) {
	s := newTestServer(t, marchEventsStore())

	var problem ProblemDetail
	resp := doJSON(t, s, "/api/v1/calendar/march-2025", &problem)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_month", problem.Type)
}

func TestGetCalendar_StoreFailure(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	var problem ProblemDetail
	resp := doJSON(t, s, "/api/v1/calendar/2025-03", &problem)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "cms_unavailable", problem.Type)
	assert.Contains(t, problem.Detail, "boom")
}

func TestListEvents_SearchAndPagination(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "title": "Art Fair", "start": "2025-03-05", "tipo": "Academic"},
			{"id": 2, "title": "Math Night", "start": "2025-03-08"},
			{"id": 3, "title": "Folk Art Showcase", "start": "2025-03-12"}
		]`))
	})

	var got PageResponse[EventDTO]
	doJSON(t, s, "/api/v1/events?month=2025-03&q=art", &got)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "Art Fair", got.Items[0].Title)
	assert.Equal(t, "Folk Art Showcase", got.Items[1].Title)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 1, got.Page)

	// Out-of-range pages clamp instead of erroring.
	doJSON(t, s, "/api/v1/events?month=2025-03&page=99", &got)
	assert.Equal(t, 1, got.Page)
	assert.Len(t, got.Items, 3)
}

func TestListNews_SortAndSearch(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": 1, "title": "Old Story", "date": "2023-01-10"},
			{"id": 2, "title": "Fresh Story", "date": "2025-06-01"},
			{"id": 3, "title": "Undated Story"}
		]}`))
	})

	var got PageResponse[NewsDTO]
	doJSON(t, s, "/api/v1/news", &got)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Fresh Story", got.Items[0].Title)
	assert.Equal(t, "Old Story", got.Items[1].Title)
	assert.Equal(t, "Undated Story", got.Items[2].Title, "undated records sort last")

	doJSON(t, s, "/api/v1/news?q=fresh", &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Fresh Story", got.Items[0].Title)
}

func TestListStaff_ExcludesArtAndFilters(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "firstName": "Ana", "lastName": "Gomez", "staff": "primary"},
			{"id": 2, "firstName": "Bea", "lastName": "Diaz", "staff": "ART"},
			{"id": 3, "firstName": "Carl", "lastName": "Ruiz", "staff": "secondary"}
		]`))
	})

	var got PageResponse[StaffDTO]
	doJSON(t, s, "/api/v1/staff", &got)
	require.Len(t, got.Items, 2, "art staff never appears")
	assert.Equal(t, "Ana Gomez", got.Items[0].FullName)
	assert.Equal(t, "Carl Ruiz", got.Items[1].FullName)

	doJSON(t, s, "/api/v1/staff?group=Secondary", &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Carl Ruiz", got.Items[0].FullName)
}

func TestListTestimonials_RoleFilter(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "name": "Luis", "rol": "parent", "message": "Great place."},
			{"id": 2, "name": "Mia", "rol": "alumni", "message": "Loved it."}
		]`))
	})

	var got PageResponse[TestimonialDTO]
	doJSON(t, s, "/api/v1/testimonials?role=Parent", &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Luis", got.Items[0].Name)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, marchEventsStore())

	resp := doJSON(t, s, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, s, "/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, marchEventsStore())
	resp := doJSON(t, s, "/healthz", nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
