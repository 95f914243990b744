package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:1337", cfg.CMSBaseURL)
	assert.Equal(t, 30*time.Second, cfg.CMSTimeout)
	assert.Equal(t, 0, cfg.WeekStart)
	assert.Equal(t, 200, cfg.EventsFetchSize)
	assert.Equal(t, 9, cfg.NewsPageSize)
	assert.Equal(t, 8, cfg.StaffPageSize)
	assert.Equal(t, 6, cfg.EventsPageSize)
	assert.Equal(t, 6, cfg.TestimonialsPageSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CMS_BASE_URL", "https://cms.hughes.edu")
	t.Setenv("CMS_API_TOKEN", "secret")
	t.Setenv("CMS_TIMEOUT", "5s")
	t.Setenv("CALENDAR_WEEK_START", "1")
	t.Setenv("NEWS_PAGE_SIZE", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "https://cms.hughes.edu", cfg.CMSBaseURL)
	assert.Equal(t, "secret", cfg.CMSToken)
	assert.Equal(t, 5*time.Second, cfg.CMSTimeout)
	assert.Equal(t, 1, cfg.WeekStart)
	assert.Equal(t, 12, cfg.NewsPageSize)
}

func TestLoad_WithPrefix(t *testing.T) {
	t.Setenv("CONTENT_HTTP_PORT", "7070")
	cfg, err := LoadWithPrefix("CONTENT")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTPPort)
}

func TestValidate_WeekStartRange(t *testing.T) {
	t.Setenv("CALENDAR_WEEK_START", "7")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALENDAR_WEEK_START")
}

func TestValidate_CMSBaseURLScheme(t *testing.T) {
	t.Setenv("CMS_BASE_URL", "localhost:1337")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMS_BASE_URL")
}
