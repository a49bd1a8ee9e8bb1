package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"yatube/internal/models"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup. Values are layered:
// defaults, then the YAML file, then the environment, then flags.
type Config struct {
	Port          string        `yaml:"port"`
	DatabaseURL   string        `yaml:"database_url"`
	SessionSecret string        `yaml:"session_secret"`
	TemplatesDir  string        `yaml:"templates_dir"`
	StaticDir     string        `yaml:"static_dir"`
	MediaDir      string        `yaml:"media_dir"`
	PageCacheTTL  time.Duration `yaml:"page_cache_ttl"`
	PageCacheSize int           `yaml:"page_cache_size"`
	GinMode       string        `yaml:"gin_mode"`
	SeedGroups    []SeedGroup   `yaml:"seed_groups"`
}

// SeedGroup is a group created on first start.
type SeedGroup struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// Default returns the development configuration.
func Default() Config {
	return Config{
		Port:          "8080",
		SessionSecret: "secret_key_change_me",
		TemplatesDir:  "./web/templates",
		StaticDir:     "./web/static",
		MediaDir:      "./media",
		PageCacheTTL:  20 * time.Second,
		PageCacheSize: 500,
	}
}

// Load builds the configuration from path (optional, may be empty or
// missing) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Port, "PORT")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.SessionSecret, "SESSION_SECRET")
	setString(&c.TemplatesDir, "TEMPLATES_DIR")
	setString(&c.MediaDir, "MEDIA_DIR")
	setString(&c.GinMode, "GIN_MODE")

	if v := os.Getenv("PAGE_CACHE_TTL"); v != "" {
		ttl, err := parseTTL(v)
		if err != nil {
			return fmt.Errorf("PAGE_CACHE_TTL: %w", err)
		}
		c.PageCacheTTL = ttl
	}
	return nil
}

// parseTTL accepts a Go duration ("20s") or a bare number of seconds.
func parseTTL(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required")
	}
	if c.PageCacheTTL < 0 {
		return fmt.Errorf("page_cache_ttl must not be negative")
	}
	if c.PageCacheSize <= 0 {
		return fmt.Errorf("page_cache_size must be positive")
	}
	for i, g := range c.SeedGroups {
		if g.Title == "" {
			return fmt.Errorf("seed_groups[%d]: title is required", i)
		}
	}
	return nil
}

// Groups converts the seed list into models.
func (c *Config) Groups() []models.Group {
	groups := make([]models.Group, len(c.SeedGroups))
	for i, g := range c.SeedGroups {
		groups[i] = models.Group{Title: g.Title, Slug: g.Slug, Description: g.Description}
	}
	return groups
}

// Flags are the command-line overrides. Only flags that were set on the
// command line replace loaded values.
type Flags struct {
	ConfigPath   string
	Port         string
	DatabaseURL  string
	MediaDir     string
	TemplatesDir string
	PageCacheTTL time.Duration
}

// AddFlags registers the flags on flagSet.
func (f *Flags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.ConfigPath, "config", os.Getenv("YATUBE_CONFIG"), "path to a YAML config file")
	flagSet.StringVarP(&f.Port, "port", "p", "", "HTTP port")
	flagSet.StringVar(&f.DatabaseURL, "database-url", "", "PostgreSQL DSN")
	flagSet.StringVar(&f.MediaDir, "media-dir", "", "directory for uploaded images")
	flagSet.StringVar(&f.TemplatesDir, "templates-dir", "", "directory holding layouts/, includes/ and views/")
	flagSet.DurationVar(&f.PageCacheTTL, "page-cache-ttl", 0, "lifetime of cached index pages, 0 disables the cache")
}

// Apply copies the flags the user actually set into cfg and validates the
// result.
func (f *Flags) Apply(flagSet *pflag.FlagSet, cfg *Config) error {
	if flagSet.Changed("port") {
		cfg.Port = f.Port
	}
	if flagSet.Changed("database-url") {
		cfg.DatabaseURL = f.DatabaseURL
	}
	if flagSet.Changed("media-dir") {
		cfg.MediaDir = f.MediaDir
	}
	if flagSet.Changed("templates-dir") {
		cfg.TemplatesDir = f.TemplatesDir
	}
	if flagSet.Changed("page-cache-ttl") {
		cfg.PageCacheTTL = f.PageCacheTTL
	}
	return cfg.Validate()
}
