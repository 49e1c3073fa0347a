package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/dictquery/internal/adapters/database"
	"github.com/satishbabariya/dictquery/internal/adapters/telemetry"
	"github.com/satishbabariya/dictquery/runtime/session"
)

// AppFs is the filesystem the CLI loads configuration from.
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Session    SessionConfig    `mapstructure:"session"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Debug      bool             `mapstructure:"debug"`
}

// DatabaseConfig selects and tunes the database connection.
type DatabaseConfig struct {
	Provider       string `mapstructure:"provider"`
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdleTime    int    `mapstructure:"max_idle_time"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
}

// DictionaryConfig locates the dictionary file.
type DictionaryConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// SessionConfig is the session queries run under.
type SessionConfig struct {
	ClientID int64  `mapstructure:"client_id"`
	OrgID    int64  `mapstructure:"org_id"`
	UserID   int64  `mapstructure:"user_id"`
	Language string `mapstructure:"language"`
}

// TelemetryConfig selects the telemetry adapter.
type TelemetryConfig struct {
	Type        string `mapstructure:"type"`
	ServiceName string `mapstructure:"service_name"`
}

var defaults = map[string]interface{}{
	"database.provider":        "sqlite",
	"database.url":             "",
	"database.max_connections": 0,
	"database.max_idle_time":   0,
	"database.connect_timeout": 0,
	"dictionary.path":          "dictionary.yaml",
	"dictionary.watch":         false,
	"session.client_id":        session.SystemClientID,
	"session.org_id":           0,
	"session.user_id":          0,
	"session.language":         "en_US",
	"telemetry.type":           "noop",
	"telemetry.service_name":   "dictquery",
	"debug":                    false,
}

// Load reads the configuration. file names an explicit config file; when
// empty, .dictquery.yaml is searched in the working directory, the home
// directory and ~/.config/dictquery, and a missing file is not an error.
// Values from DICTQUERY_* environment variables win over the file, and
// .env and .env.local are loaded into the environment first.
// DATABASE_URL overrides database.url.
func Load(fs afero.Fs, file string) (*Config, error) {
	if err := loadDotEnv(fs); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".dictquery")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "dictquery"))
		}
	}

	v.SetEnvPrefix("DICTQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	return &cfg, nil
}

// loadDotEnv loads .env without overriding the environment, then
// .env.local with priority.
func loadDotEnv(fs afero.Fs) error {
	for _, f := range []struct {
		name     string
		override bool
	}{{".env", false}, {".env.local", true}} {
		file, err := fs.Open(f.name)
		if err != nil {
			continue
		}
		env, err := godotenv.Parse(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
		for key, value := range env {
			if _, set := os.LookupEnv(key); set && !f.override {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// DatabaseAdapterConfig converts the database section for the adapters.
func (c *Config) DatabaseAdapterConfig() database.Config {
	return database.Config{
		Provider:       c.Database.Provider,
		URL:            c.Database.URL,
		MaxConnections: c.Database.MaxConnections,
		MaxIdleTime:    c.Database.MaxIdleTime,
		ConnectTimeout: c.Database.ConnectTimeout,
	}
}

// TelemetryAdapterConfig converts the telemetry section.
func (c *Config) TelemetryAdapterConfig() *telemetry.Config {
	return &telemetry.Config{
		Type:        c.Telemetry.Type,
		ServiceName: c.Telemetry.ServiceName,
	}
}

// SessionInfo converts the session section.
func (c *Config) SessionInfo() session.Info {
	return session.Info{
		ClientIDs: []int64{c.Session.ClientID},
		OrgID:     c.Session.OrgID,
		UserID:    c.Session.UserID,
		Language:  c.Session.Language,
	}
}
