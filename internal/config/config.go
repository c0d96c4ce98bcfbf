package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        int
	CORSOrigins string
	LogLevel    string
	LogFormat   string

	Database Database
	JWT      JWT
	Gemini   Gemini

	// ChatTimeout bounds a single gateway call.
	ChatTimeout time.Duration
}

type Database struct {
	Host     string
	Port     string
	Name     string
	Username string
	Password string
	Schema   string
}

// DSN returns a pgx connection URL with credentials escaped.
func (d Database) DSN() string {
	q := url.Values{}
	q.Set("sslmode", "disable")
	q.Set("search_path", d.Schema)
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.Username, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type Gemini struct {
	APIKey string
	Model  string
}

// Load reads the process environment. A .env file is picked up by the
// godotenv autoload import in main before this runs.
func Load() (*Config, error) {
	cfg := &Config{
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Database: Database{
			Host:     getEnv("KANBAN_DB_HOST", "localhost"),
			Port:     getEnv("KANBAN_DB_PORT", "5432"),
			Name:     getEnv("KANBAN_DB_DATABASE", "kanban"),
			Username: getEnv("KANBAN_DB_USERNAME", "kanban"),
			Password: os.Getenv("KANBAN_DB_PASSWORD"),
			Schema:   getEnv("KANBAN_DB_SCHEMA", "public"),
		},
		JWT: JWT{
			Secret: os.Getenv("JWT_SECRET"),
		},
		Gemini: Gemini{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.JWT.TTL, err = getDuration("JWT_TTL", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ChatTimeout, err = getDuration("CHAT_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// RequireGemini is checked by commands that talk to the model.
func (c *Config) RequireGemini() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

// AllowedOrigins returns CORSOrigins in the comma separated form fiber's cors
// middleware expects, with stray whitespace removed.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
