package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for OBD Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Routes   []RouteConfig  `yaml:"routes"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`

	// AuthToken, when non-empty, is required as a Bearer token on the
	// upload endpoint. Empty disables the check (trusted network).
	AuthToken string `yaml:"auth_token"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// IngestConfig contains upload-endpoint behaviour settings.
type IngestConfig struct {
	// SessionTTL is the maximum age of a cached session in seconds.
	SessionTTL int `yaml:"session_ttl"`

	// MaxSessions bounds the session cache size.
	MaxSessions int `yaml:"max_sessions"`

	// Active gates the upload endpoint. When false the endpoint
	// answers 404 without touching any state.
	Active bool `yaml:"active"`

	// DefaultLanguage is used when a frame carries no lang parameter
	// and the matched route has none either.
	DefaultLanguage string `yaml:"default_language"`
}

// RouteConfig binds an uploader identity (email) to per-tenant behaviour.
// Routes may also be managed at runtime through the admin API.
type RouteConfig struct {
	EntryID  string `yaml:"entry_id"`
	Email    string `yaml:"email"`
	Imperial bool   `yaml:"imperial"`
	Language string `yaml:"language"`

	// MergeMode is one of "none", "name", "vin".
	MergeMode string `yaml:"merge_mode"`

	// NameMap is a multi-line (or ';'-separated) "alias -> canonical"
	// mapping used when MergeMode is "name".
	NameMap string `yaml:"name_map"`

	RejectPoorName    bool `yaml:"reject_poor_name"`
	RequireMappedName bool `yaml:"require_mapped_name"`
}

// DatabaseConfig contains SQLite settings for the entity/device catalog.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains broker settings for the vehicle state publisher.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains settings for the telemetry history writer.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: OBDCORE_SECTION_KEY
// For example: OBDCORE_DATABASE_PATH, OBDCORE_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8088,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Ingest: IngestConfig{
			SessionTTL:      600,
			MaxSessions:     64,
			Active:          true,
			DefaultLanguage: "en",
		},
		Database: DatabaseConfig{
			Path:        "./data/obdcore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "obdcore",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: OBDCORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OBDCORE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("OBDCORE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("OBDCORE_API_AUTH_TOKEN"); v != "" {
		cfg.API.AuthToken = v
	}
	if v := os.Getenv("OBDCORE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("OBDCORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("OBDCORE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("OBDCORE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("OBDCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// validMergeModes are the accepted values for RouteConfig.MergeMode.
var validMergeModes = map[string]bool{"": true, "none": true, "name": true, "vin": true}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if c.Ingest.SessionTTL <= 0 {
		errs = append(errs, "ingest.session_ttl must be positive")
	}
	if c.Ingest.MaxSessions <= 0 {
		errs = append(errs, "ingest.max_sessions must be positive")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.MQTT.Enabled && (c.MQTT.QoS < 0 || c.MQTT.QoS > 2) {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	seen := make(map[string]bool, len(c.Routes))
	for i, r := range c.Routes {
		if r.EntryID == "" {
			errs = append(errs, fmt.Sprintf("routes[%d].entry_id is required", i))
			continue
		}
		if seen[r.EntryID] {
			errs = append(errs, fmt.Sprintf("routes[%d].entry_id %q is duplicated", i, r.EntryID))
		}
		seen[r.EntryID] = true
		if !validMergeModes[strings.ToLower(strings.TrimSpace(r.MergeMode))] {
			errs = append(errs, fmt.Sprintf("routes[%d].merge_mode must be none, name, or vin", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
