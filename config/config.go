package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr    = ":8080"
	defaultStatusTimeout  = 5 * time.Second
	defaultSessionTimeout = 30 * time.Minute
	defaultMetricsPrefix = "activityboard"
	defaultJobName       = "activityboard"

	defaultLogLevel  = "info"
	defaultLogFormat = "json"
	defaultLogOutput = "stdout"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete application configuration
type Config struct {
	API        APIConfig        `yaml:"api"`
	Board      BoardConfig      `yaml:"board"`
	Listener   ListenerConfig   `yaml:"listener"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// APIConfig locates the remote activities API
type APIConfig struct {
	// BaseURL is the API root, including scheme, e.g. http://localhost:8000
	BaseURL string `yaml:"base_url" env:"ACTIVITYBOARD_API_URL"`
	// Timeout bounds each API request. Zero leaves the transport default.
	Timeout time.Duration `yaml:"timeout" env:"ACTIVITYBOARD_API_TIMEOUT"`
}

// BoardConfig holds board behavior settings
type BoardConfig struct {
	// StatusTimeout is how long a status message stays visible
	StatusTimeout  time.Duration `yaml:"status_timeout" env:"ACTIVITYBOARD_STATUS_TIMEOUT"`
	// SessionTimeout is how long an idle visitor keeps its form values and status
	SessionTimeout time.Duration `yaml:"session_timeout" env:"ACTIVITYBOARD_SESSION_TIMEOUT"`
}

// ListenerConfig holds HTTP server listener settings.
type ListenerConfig struct {
	// The listen address, defaults to :8080
	Addr        string `yaml:"addr" env:"ACTIVITYBOARD_LISTEN_ADDR"`
	TLSCertFile string `yaml:"tls_cert_file" env:"ACTIVITYBOARD_TLS_CERT_FILE"`
	TLSKeyFile  string `yaml:"tls_key_file" env:"ACTIVITYBOARD_TLS_KEY_FILE"`
}

// RefreshConfig configures the optional scheduled catalog refresh
type RefreshConfig struct {
	// Schedule is a 5 field cron spec. Empty disables scheduled refresh.
	Schedule string `yaml:"schedule" env:"ACTIVITYBOARD_REFRESH_SCHEDULE"`
}

// LoggingConfig defines logging behavior settings
type LoggingConfig struct {
	Level     string `yaml:"level" env:"ACTIVITYBOARD_LOG_LEVEL"`
	Format    string `yaml:"format" env:"ACTIVITYBOARD_LOG_FORMAT"`
	Output    string `yaml:"output" env:"ACTIVITYBOARD_LOG_OUTPUT"`
	AddSource bool   `yaml:"add_source"`
}

// MonitoringConfig holds metrics settings
type MonitoringConfig struct {
	// VictoriaMetricsURL is the remote write target used by the CLI. Optional.
	VictoriaMetricsURL string `yaml:"victoriametrics_url" env:"ACTIVITYBOARD_VICTORIAMETRICS_URL"`
	MetricsPrefix      string `yaml:"metrics_prefix"`
	JobName            string `yaml:"jobname"`
}

// TLSEnabled reports whether the listener serves HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.Listener.TLSCertFile != "" && c.Listener.TLSKeyFile != ""
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api base_url is required"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api base_url must be an absolute URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api timeout must not be negative"))
	}
	if c.Board.StatusTimeout <= 0 {
		errs = append(errs, fmt.Errorf("board status_timeout must be positive"))
	}
	if c.Board.SessionTimeout < 0 {
		errs = append(errs, fmt.Errorf("board session_timeout must not be negative"))
	}
	if (c.Listener.TLSCertFile == "") != (c.Listener.TLSKeyFile == "") {
		errs = append(errs, fmt.Errorf("listener tls_cert_file and tls_key_file must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SetDefaults sets reasonable default values for optional fields
func (c *Config) SetDefaults() {
	if c.Board.StatusTimeout == 0 {
		c.Board.StatusTimeout = defaultStatusTimeout
	}
	if c.Board.SessionTimeout == 0 {
		c.Board.SessionTimeout = defaultSessionTimeout
	}
	if c.Listener.Addr == "" {
		c.Listener.Addr = defaultListenAddr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = defaultLogOutput
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
}

// LoadConfig reads the YAML config file at path, applies ACTIVITYBOARD_* environment
// overrides and defaults, and validates the result. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
