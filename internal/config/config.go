package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultRequestTimeout    = 30 * time.Second
	defaultSiteName          = "VineAI"
	defaultSiteURL           = "http://localhost:8080"
	defaultCacheTTL          = 60 * time.Second
	defaultSlugCacheTTL      = time.Hour
	defaultSanityDataset     = "production"
	defaultSanityAPIVersion  = "2026-02-19"
	defaultSanityAPIHost     = "api.sanity.io"
	defaultSanityTimeout     = 5 * time.Second
	defaultLogLevel          = "info"
)

// Content source selectors.
const (
	SourceAuto   = "auto"
	SourceSanity = "sanity"
	SourceSQLite = "sqlite"
	SourceStatic = "static"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server        ServerConfig
	Site          SiteConfig
	Content       ContentConfig
	Sanity        SanityConfig
	Store         StoreConfig
	Analytics     AnalyticsConfig
	Observability ObservabilityConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// SiteConfig holds presentation-wide settings.
type SiteConfig struct {
	Name       string
	BaseURL    string
	DevMode    bool
	Animations bool
}

// ContentConfig selects and tunes the content source.
type ContentConfig struct {
	Source       string
	Dir          string
	Watch        bool
	CacheTTL     time.Duration
	SlugCacheTTL time.Duration
}

// SanityConfig points at a Sanity-compatible GROQ query API.
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	APIHost    string
	Timeout    time.Duration
}

// StoreConfig locates the local SQLite document store.
type StoreConfig struct {
	Path string
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string
}

// ObservabilityConfig configures logging and tracing.
type ObservabilityConfig struct {
	LogLevel  string
	ProjectID string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises how configuration is loaded.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the dotenv file consulted last (empty disables it).
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap supplies explicit values that take precedence over everything else.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration from (in order of precedence) the explicit map, the process
// environment and the dotenv file.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:              stringWithDefault(lookup, "WEB_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadHeaderTimeout: durationWithDefault(lookup, "WEB_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout),
			ReadTimeout:       durationWithDefault(lookup, "WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      durationWithDefault(lookup, "WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout:    durationWithDefault(lookup, "WEB_REQUEST_TIMEOUT", defaultRequestTimeout),
		},
		Site: SiteConfig{
			Name:       stringWithDefault(lookup, "WEB_SITE_NAME", defaultSiteName),
			BaseURL:    strings.TrimRight(stringWithDefault(lookup, "WEB_SITE_URL", defaultSiteURL), "/"),
			DevMode:    boolWithDefault(lookup, "WEB_DEV", false),
			Animations: boolWithDefault(lookup, "WEB_ANIMATIONS", true),
		},
		Content: ContentConfig{
			Source:       strings.ToLower(stringWithDefault(lookup, "WEB_CONTENT_SOURCE", SourceAuto)),
			Dir:          stringWithDefault(lookup, "WEB_CONTENT_DIR", ""),
			Watch:        boolWithDefault(lookup, "WEB_CONTENT_WATCH", false),
			CacheTTL:     durationWithDefault(lookup, "WEB_CONTENT_CACHE_TTL", defaultCacheTTL),
			SlugCacheTTL: durationWithDefault(lookup, "WEB_CONTENT_SLUG_CACHE_TTL", defaultSlugCacheTTL),
		},
		Sanity: SanityConfig{
			ProjectID:  stringWithDefault(lookup, "SANITY_PROJECT_ID", ""),
			Dataset:    stringWithDefault(lookup, "SANITY_DATASET", defaultSanityDataset),
			APIVersion: stringWithDefault(lookup, "SANITY_API_VERSION", defaultSanityAPIVersion),
			Token:      stringWithDefault(lookup, "SANITY_API_TOKEN", ""),
			UseCDN:     boolWithDefault(lookup, "SANITY_USE_CDN", true),
			APIHost:    stringWithDefault(lookup, "SANITY_API_HOST", defaultSanityAPIHost),
			Timeout:    durationWithDefault(lookup, "SANITY_TIMEOUT", defaultSanityTimeout),
		},
		Store: StoreConfig{
			Path: stringWithDefault(lookup, "WEB_STORE_PATH", ""),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: stringWithDefault(lookup, "WEB_GA_MEASUREMENT_ID", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:  strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
			ProjectID: stringWithDefault(lookup, "GOOGLE_CLOUD_PROJECT", ""),
		},
	}

	if cfg.Content.Source == SourceAuto {
		switch {
		case cfg.Sanity.ProjectID != "":
			cfg.Content.Source = SourceSanity
		case cfg.Store.Path != "":
			cfg.Content.Source = SourceSQLite
		default:
			cfg.Content.Source = SourceStatic
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var fields []string
	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		fields = append(fields, "Server.Port")
	}
	if cfg.Server.RequestTimeout <= 0 {
		fields = append(fields, "Server.RequestTimeout")
	}
	if cfg.Site.BaseURL == "" {
		fields = append(fields, "Site.BaseURL")
	}
	switch cfg.Content.Source {
	case SourceSanity:
		if cfg.Sanity.ProjectID == "" {
			fields = append(fields, "Sanity.ProjectID")
		}
		if cfg.Sanity.Dataset == "" {
			fields = append(fields, "Sanity.Dataset")
		}
	case SourceSQLite:
		if cfg.Store.Path == "" {
			fields = append(fields, "Store.Path")
		}
	case SourceStatic:
	default:
		fields = append(fields, "Content.Source")
	}
	if cfg.Content.CacheTTL < 0 {
		fields = append(fields, "Content.CacheTTL")
	}
	if cfg.Content.SlugCacheTTL < 0 {
		fields = append(fields, "Content.SlugCacheTTL")
	}
	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
