package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `envconfig:"HTTP_PORT" default:"8080"`
	CORSOrigins string `envconfig:"CORS_ORIGINS"`

	// Content store (Strapi-style headless CMS)
	CMSBaseURL string        `envconfig:"CMS_BASE_URL" default:"http://localhost:1337"`
	CMSToken   string        `envconfig:"CMS_API_TOKEN"` // optional bearer token
	CMSTimeout time.Duration `envconfig:"CMS_TIMEOUT" default:"30s"`

	// Calendar
	WeekStart       int    `envconfig:"CALENDAR_WEEK_START" default:"0"` // 0 = Sunday
	PaletteFile     string `envconfig:"CALENDAR_PALETTE_FILE"`           // optional YAML override
	EventsFetchSize int    `envconfig:"EVENTS_FETCH_SIZE" default:"200"`

	// Listing page sizes, per page type (mirrors the site's layouts)
	NewsPageSize         int `envconfig:"NEWS_PAGE_SIZE" default:"9"`
	StaffPageSize        int `envconfig:"STAFF_PAGE_SIZE" default:"8"`
	EventsPageSize       int `envconfig:"EVENTS_PAGE_SIZE" default:"6"`
	TestimonialsPageSize int `envconfig:"TESTIMONIALS_PAGE_SIZE" default:"6"`
}

// Validate checks config values that envconfig cannot express.
func (c *Config) Validate() error {
	if c.WeekStart < 0 || c.WeekStart > 6 {
		return fmt.Errorf("CALENDAR_WEEK_START must be 0..6, got %d", c.WeekStart)
	}
	if !strings.HasPrefix(c.CMSBaseURL, "http://") && !strings.HasPrefix(c.CMSBaseURL, "https://") {
		return fmt.Errorf("CMS_BASE_URL must be an http(s) origin, got %q", c.CMSBaseURL)
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithPrefix reads configuration with a prefix.
func LoadWithPrefix(prefix string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config with prefix %s: %w", prefix, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
