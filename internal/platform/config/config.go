// Package config loads the client, CLI and probe server configuration using koanf.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"
)

// Default configuration values.
const (
	// DefaultConfigDir is where Load looks for base.yaml and profile files.
	DefaultConfigDir = "configs"

	// DefaultServerPort is the default probe server port.
	DefaultServerPort = 8080

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

const (
	appEnvPrefix        = "APP_"
	axcelerateEnvPrefix = "AXCELERATE_"
)

// Config is the root configuration structure.
type Config struct {
	App        AppConfig        `koanf:"app"        validate:"required"`
	Axcelerate AxcelerateConfig `koanf:"axcelerate"`
	Log        LogConfig        `koanf:"log"        validate:"required"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Server     ServerConfig     `koanf:"server"     validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// AxcelerateConfig holds the LMS connection settings. The URL and tokens are
// left unvalidated here: the client reports them as typed domain errors.
type AxcelerateConfig struct {
	BaseURL        string               `koanf:"base_url"`
	WSToken        string               `koanf:"ws_token"`
	APIToken       string               `koanf:"api_token"`
	Timeout        time.Duration        `koanf:"timeout"         validate:"min=100ms"`
	RetryAttempts  int                  `koanf:"retry_attempts"  validate:"min=0,max=10"`
	RetryDelay     time.Duration        `koanf:"retry_delay"     validate:"min=0s"`
	LogRequests    bool                 `koanf:"log_requests"`
	ServiceName    string               `koanf:"service_name"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	Transport      TransportConfig      `koanf:"transport"`
}

// CircuitBreakerConfig configures the opt-in breaker. MaxFailures 0 disables it.
type CircuitBreakerConfig struct {
	MaxFailures    int           `koanf:"max_failures"    validate:"min=0"`
	Cooldown       time.Duration `koanf:"cooldown"        validate:"min=0s"`
	ProbeSuccesses int           `koanf:"probe_successes" validate:"min=0"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"min=1s"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ServerConfig contains the probe server settings used by `axcelerate serve`.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	CheckTimeout    time.Duration `koanf:"check_timeout"    validate:"required,min=100ms"`
}

// ClientConfig converts the LMS section into the pipeline configuration.
func (c *Config) ClientConfig(logger *slog.Logger) *clients.Config {
	ax := c.Axcelerate
	retryAttempts := ax.RetryAttempts
	retryDelay := ax.RetryDelay

	return &clients.Config{
		BaseURL:       ax.BaseURL,
		WSToken:       ax.WSToken,
		APIToken:      ax.APIToken,
		Timeout:       ax.Timeout,
		RetryAttempts: &retryAttempts,
		RetryDelay:    &retryDelay,
		LogRequests:   ax.LogRequests,
		ServiceName:   ax.ServiceName,
		Breaker: clients.BreakerConfig{
			MaxFailures:    ax.CircuitBreaker.MaxFailures,
			Cooldown:       ax.CircuitBreaker.Cooldown,
			ProbeSuccesses: ax.CircuitBreaker.ProbeSuccesses,
		},
		Transport: clients.TransportConfig{
			MaxIdleConns:        ax.Transport.MaxIdleConns,
			MaxIdleConnsPerHost: ax.Transport.MaxIdleConnsPerHost,
			IdleConnTimeout:     ax.Transport.IdleConnTimeout,
		},
		Logger: logger,
	}
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "axcelerate",
		"app.version":     "dev",
		"app.environment": "local",

		"axcelerate.base_url":                          "",
		"axcelerate.ws_token":                          "",
		"axcelerate.api_token":                         "",
		"axcelerate.timeout":                           clients.DefaultTimeout.String(),
		"axcelerate.retry_attempts":                    clients.DefaultRetryAttempts,
		"axcelerate.retry_delay":                       clients.DefaultRetryDelay.String(),
		"axcelerate.log_requests":                      false,
		"axcelerate.service_name":                      clients.DefaultServiceName,
		"axcelerate.circuit_breaker.max_failures":      0,
		"axcelerate.circuit_breaker.cooldown":          "30s",
		"axcelerate.circuit_breaker.probe_successes":   1,
		"axcelerate.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"axcelerate.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"axcelerate.transport.idle_conn_timeout":       "90s",

		"log.level":            "info",
		"log.format":           "text",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/axcelerate.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "axcelerate",
		"telemetry.sampling_rate": 1.0,

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "10s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.check_timeout":    "5s",
	}
}

// Load loads configuration from DefaultConfigDir. See LoadFrom.
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultConfigDir, profile)
}

// LoadFrom loads configuration with the following precedence (highest to lowest):
//  1. AXCELERATE_ environment variables (BASE_URL, WS_TOKEN, ...)
//  2. APP_ environment variables
//  3. Profile config file ({dir}/{profile}.yaml)
//  4. Base config file ({dir}/base.yaml)
//  5. Default values
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider(appEnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, appEnvPrefix)),
			"_",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading APP_ env vars: %w", err)
	}

	err = k.Load(env.ProviderWithValue(axcelerateEnvPrefix, ".", axcelerateEnv), nil)
	if err != nil {
		return nil, fmt.Errorf("loading AXCELERATE_ env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// axcelerateEnv maps the LMS variables onto the axcelerate section. Bare
// integers are seconds for TIMEOUT and milliseconds for RETRY_DELAY. Unknown
// AXCELERATE_ variables are skipped.
func axcelerateEnv(key, value string) (string, any) {
	switch strings.TrimPrefix(key, axcelerateEnvPrefix) {
	case "BASE_URL":
		return "axcelerate.base_url", value
	case "WS_TOKEN":
		return "axcelerate.ws_token", value
	case "API_TOKEN":
		return "axcelerate.api_token", value
	case "TIMEOUT":
		return "axcelerate.timeout", withUnit(value, time.Second)
	case "RETRY_ATTEMPTS":
		return "axcelerate.retry_attempts", value
	case "RETRY_DELAY":
		return "axcelerate.retry_delay", withUnit(value, time.Millisecond)
	case "LOG_REQUESTS":
		return "axcelerate.log_requests", value
	default:
		return "", nil
	}
}

func withUnit(value string, unit time.Duration) string {
	value = strings.TrimSpace(value)

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return value
	}

	return (time.Duration(n) * unit).String()
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
