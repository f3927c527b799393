// Package config loads server settings from an optional .env file, the
// environment, and an optional config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"

	AuthIdentityToolkit = "identitytoolkit"
	AuthLocal           = "local"
)

type Config struct {
	ProjectID      string        `mapstructure:"google_cloud_project"`
	FirebaseAPIKey string        `mapstructure:"firebase_api_key"`
	Port           string        `mapstructure:"port"`
	SessionSecret  string        `mapstructure:"session_secret"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	SecureCookies  bool          `mapstructure:"secure_cookies"`
	StoreBackend   string        `mapstructure:"store_backend"`
	AuthBackend    string        `mapstructure:"auth_backend"`
	LogLevel       string        `mapstructure:"log_level"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`

	LineChannelToken  string `mapstructure:"line_channel_token"`
	LineChannelSecret string `mapstructure:"line_channel_secret"`
}

var keys = []string{
	"google_cloud_project", "firebase_api_key", "port", "session_secret",
	"session_ttl", "secure_cookies", "store_backend", "auth_backend",
	"log_level", "cors_origins", "line_channel_token", "line_channel_secret",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("session_ttl", 7*24*time.Hour)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("store_backend", StoreFirestore)
	v.SetDefault("auth_backend", AuthIdentityToolkit)
	v.SetDefault("log_level", "info")
}

// Load reads .env (if present), then configFile (if non-empty), then the
// environment, which wins over both.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found")
	}

	v := viper.New()
	setDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; bind them so that
	// environment-only values are picked up.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case StoreFirestore:
		if c.ProjectID == "" {
			errs = append(errs, errors.New("GOOGLE_CLOUD_PROJECT environment variable is required"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	switch c.AuthBackend {
	case AuthIdentityToolkit:
		if c.FirebaseAPIKey == "" {
			errs = append(errs, errors.New("FIREBASE_API_KEY environment variable is required"))
		}
	case AuthLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_BACKEND %q", c.AuthBackend))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET environment variable is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// LineEnabled reports whether the LINE webhook should be mounted.
func (c *Config) LineEnabled() bool {
	return c.LineChannelToken != "" && c.LineChannelSecret != ""
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
