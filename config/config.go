// Package config reads the process configuration from the environment, optionally seeded
// from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingEnv = errors.New("missing-env")

type Config struct {
	Port           string
	AllowedOrigins []string
	PublicURL      string
	Debug          bool
	LogPretty      bool

	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	AITimeout       time.Duration
	AIRatePerSecond float64
	AIBurst         int

	CategoriesPath     string
	SessionIdleTimeout time.Duration
}

// AIEnabled reports whether an API key was configured.
func (c Config) AIEnabled() bool { return c.GeminiAPIKey != "" }

// Load reads envFiles (".env" when none given) into the environment without overriding
// variables that are already set, then parses the configuration. Missing env files are
// ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv parses the configuration from lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	p := parser{lookup: lookup}
	cfg := Config{
		Port:               p.str("PORT", "5000"),
		PublicURL:          p.str("PUBLIC_URL", "http://localhost:5173"),
		Debug:              p.boolean("DEBUG"),
		LogPretty:          p.boolean("LOG_PRETTY"),
		GeminiAPIKey:       p.str("GEMINI_API_KEY", ""),
		GeminiModel:        p.str("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:      p.str("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AITimeout:          p.duration("AI_TIMEOUT", 10*time.Second),
		AIRatePerSecond:    p.float("AI_RATE_PER_SECOND", 1),
		AIBurst:            p.integer("AI_BURST", 3),
		CategoriesPath:     p.str("CATEGORIES_PATH", ""),
		SessionIdleTimeout: p.duration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
	}

	origins, ok := lookup("ALLOWED_ORIGINS")
	if !ok || strings.TrimSpace(origins) == "" {
		p.errs = append(p.errs, fmt.Errorf("%w: ALLOWED_ORIGINS", ErrMissingEnv))
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) str(key, fallback string) string {
	if v, ok := p.lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

func (p *parser) boolean(key string) bool {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return b
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return d
}

func (p *parser) integer(key string, fallback int) int {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return f
}
