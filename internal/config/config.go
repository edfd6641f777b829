// Package config handles the configuration directory, .env loading, and
// backend settings.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	// AppName is the application directory name.
	AppName = "tugas"

	// OAuthClientFile is the OAuth client credentials filename (googletasks backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (googletasks backend).
	TokenFile = "token.json"

	// EnvFile is the optional dotenv file read from the config directory.
	EnvFile = ".env"
)

// Backend names accepted by --backend and TUGAS_BACKEND.
const (
	BackendFirestore   = "firestore"
	BackendGoogleTasks = "googletasks"
	BackendRedis       = "redis"
	BackendPostgres    = "postgres"
	BackendMySQL       = "mysql"
)

// Backends lists the accepted backend names.
var Backends = []string{
	BackendFirestore,
	BackendGoogleTasks,
	BackendRedis,
	BackendPostgres,
	BackendMySQL,
}

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Defaults.
const (
	DefaultBackend     = BackendFirestore
	DefaultCollection  = "tasks"
	DefaultTaskList    = "@default"
	DefaultRedisPrefix = "tugas"
	DefaultAddr        = ":8080"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the task store implementation.
	Backend string

	// ProjectID is the Google Cloud project (firestore backend).
	ProjectID string

	// CredentialsFile is a service account key file (firestore backend).
	// Empty means application default credentials.
	CredentialsFile string

	// Collection is the Firestore collection holding tasks.
	Collection string

	// TaskList is the Google Tasks list ID (googletasks backend).
	TaskList string

	// RedisURL and RedisPrefix configure the redis backend.
	RedisURL    string
	RedisPrefix string

	// DatabaseURL is the DSN for the postgres and mysql backends.
	DatabaseURL string

	// Location is the time zone deadlines are interpreted in.
	Location *time.Location

	// Addr is the listen address for the HTTP server.
	Addr string

	// Log is the logger commands and components write to.
	// Nil means logging is discarded.
	Log logrus.FieldLogger
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tugas or $HOME/.config/tugas.
// Settings are read from .env files (config dir, then working directory)
// and the environment; variables already set in the environment win.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	// Missing .env files are fine.
	_ = godotenv.Load(filepath.Join(dir, EnvFile))
	_ = godotenv.Load(EnvFile)

	cfg := &Config{
		Dir:             dir,
		Backend:         envOr("TUGAS_BACKEND", DefaultBackend),
		ProjectID:       envOr("TUGAS_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		CredentialsFile: envOr("TUGAS_CREDENTIALS", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		Collection:      envOr("TUGAS_COLLECTION", DefaultCollection),
		TaskList:        envOr("TUGAS_TASKLIST", DefaultTaskList),
		RedisURL:        os.Getenv("TUGAS_REDIS_URL"),
		RedisPrefix:     envOr("TUGAS_REDIS_PREFIX", DefaultRedisPrefix),
		DatabaseURL:     os.Getenv("TUGAS_DATABASE_URL"),
		Addr:            envOr("TUGAS_ADDR", DefaultAddr),
		Location:        time.Local,
	}

	if tz := os.Getenv("TUGAS_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TUGAS_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Logger returns the configured logger, or one that discards everything.
func (c *Config) Logger() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Loc returns the deadline time zone, defaulting to local time.
func (c *Config) Loc() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
