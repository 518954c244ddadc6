// Package config loads ArtSea settings from defaults, an optional YAML file,
// a .env file and environment variables, in increasing order of precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/artsea-london/artsea/internal/fetch"
	"github.com/artsea-london/artsea/internal/scraper"
	"github.com/artsea-london/artsea/internal/store"
)

//go:embed venues.yaml
var defaultVenuesYAML []byte

const (
	DefaultDSN       = "~/.artsea/artsea.db"
	DefaultRetention = 30 * 24 * time.Hour
)

// FetchConfig controls the HTTP client. The User-Agent is fixed by the
// fetch package and has no setting.
type FetchConfig struct {
	Delay   time.Duration `yaml:"delay"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls log output
type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls where run metrics are written
type MetricsConfig struct {
	File string `yaml:"file"` // node_exporter textfile path; empty disables
}

// VenueConfig describes one venue and how to scrape it
type VenueConfig struct {
	Name       string       `yaml:"name"`
	Slug       string       `yaml:"slug"`
	WebsiteURL string       `yaml:"website_url"`
	Area       string       `yaml:"area"`
	Scraper    scraper.Kind `yaml:"scraper"`
	BaseURL    string       `yaml:"base_url,omitempty"`
	Path       string       `yaml:"path,omitempty"`
	Reason     string       `yaml:"reason,omitempty"`
}

// Spec returns the extractor spec for the venue
func (v VenueConfig) Spec() scraper.Spec {
	return scraper.Spec{
		Venue:   v.Slug,
		Kind:    v.Scraper,
		BaseURL: v.BaseURL,
		Path:    v.Path,
		Reason:  v.Reason,
	}
}

// Record returns the venue row to seed
func (v VenueConfig) Record() *store.Venue {
	return &store.Venue{
		Name:          v.Name,
		Slug:          v.Slug,
		WebsiteURL:    v.WebsiteURL,
		Area:          v.Area,
		ScraperModule: string(v.Scraper),
	}
}

// Config is the full application configuration
type Config struct {
	Database  store.DatabaseConfig `yaml:"database"`
	Fetch     FetchConfig          `yaml:"fetch"`
	Log       LogConfig            `yaml:"log"`
	Metrics   MetricsConfig        `yaml:"metrics"`
	Retention time.Duration        `yaml:"retention"`
	Venues    []VenueConfig        `yaml:"venues"`
}

// Default returns the built-in configuration, including the default venue list
func Default() (Config, error) {
	cfg := Config{
		Database: store.DatabaseConfig{Driver: "sqlite", DSN: DefaultDSN},
		Fetch: FetchConfig{
			Delay:   fetch.DefaultDelay,
			Timeout: fetch.Timeout,
		},
		Log:       LogConfig{Level: "info"},
		Retention: DefaultRetention,
	}
	if err := yaml.Unmarshal(defaultVenuesYAML, &cfg.Venues); err != nil {
		return Config{}, fmt.Errorf("parsing built-in venues: %w", err)
	}
	return cfg, nil
}

// Load builds the configuration. path may be empty; a venues list in the
// file replaces the built-in one. A .env file in the working directory is
// loaded first if present.
func Load(path string) (Config, error) {
	if err := LoadEnv(); err != nil {
		return Config{}, err
	}

	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnv loads variables from the given .env files (default ".env") without
// overriding ones already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.Driver = "postgres"
		c.Database.DSN = v
	}
	if v := os.Getenv("ARTSEA_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("ARTSEA_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("ARTSEA_FETCH_DELAY"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("ARTSEA_FETCH_DELAY: %w", err)
		}
		c.Fetch.Delay = d
	}
	if v := os.Getenv("ARTSEA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ARTSEA_METRICS_FILE"); v != "" {
		c.Metrics.File = v
	}
	return nil
}

// parseDuration accepts Go durations ("2s") or a bare number of milliseconds
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// Validate checks venue definitions
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	known := make(map[scraper.Kind]bool)
	for _, k := range scraper.Kinds() {
		known[k] = true
	}

	if c.Fetch.Delay < 0 {
		errs = append(errs, errors.New("fetch delay must not be negative"))
	}

	for i, v := range c.Venues {
		switch {
		case v.Slug == "":
			errs = append(errs, fmt.Errorf("venue #%d has no slug", i+1))
			continue
		case seen[v.Slug]:
			errs = append(errs, fmt.Errorf("venue %s is defined twice", v.Slug))
		}
		seen[v.Slug] = true

		if v.Name == "" {
			errs = append(errs, fmt.Errorf("venue %s has no name", v.Slug))
		}
		if !known[v.Scraper] {
			errs = append(errs, fmt.Errorf("venue %s: unknown scraper %q", v.Slug, v.Scraper))
		}
		if v.Scraper == scraper.KindTimeOut && v.Path == "" {
			errs = append(errs, fmt.Errorf("venue %s: timeout scraper needs a path", v.Slug))
		}
	}
	return errors.Join(errs...)
}

// Venue returns the venue with the given slug
func (c *Config) Venue(slug string) (VenueConfig, bool) {
	for _, v := range c.Venues {
		if v.Slug == slug {
			return v, true
		}
	}
	return VenueConfig{}, false
}

// SelectVenues returns the venues named by slugs, in configuration order,
// or every venue when slugs is empty
func (c *Config) SelectVenues(slugs []string) ([]VenueConfig, error) {
	if len(slugs) == 0 {
		return c.Venues, nil
	}

	want := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		s = strings.TrimSpace(s)
		if _, ok := c.Venue(s); !ok {
			return nil, fmt.Errorf("unknown venue %q", s)
		}
		want[s] = true
	}

	selected := make([]VenueConfig, 0, len(want))
	for _, v := range c.Venues {
		if want[v.Slug] {
			selected = append(selected, v)
		}
	}
	return selected, nil
}
