// Package config provides configuration loading for faultdx.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then FAULTDX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds the complete faultdx configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Knowledge KnowledgeConfig `koanf:"knowledge"`
	Matcher   MatcherConfig   `koanf:"matcher"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// KnowledgeConfig locates the knowledge base and controls hot reload.
type KnowledgeConfig struct {
	Path     string   `koanf:"path"`
	Watch    bool     `koanf:"watch"`
	Debounce Duration `koanf:"debounce"`
}

// MatcherConfig tunes the similarity matcher.
type MatcherConfig struct {
	Threshold  float64 `koanf:"threshold"`
	MaxResults int     `koanf:"max_results"` // 0 = unlimited
	CacheSize  int     `koanf:"cache_size"`  // rankings kept in memory, 0 = off
}

// CORSConfig controls cross-origin access to the HTTP API.
type CORSConfig struct {
	Enabled      bool     `koanf:"enabled"`
	AllowOrigins []string `koanf:"allow_origins"`
}

// RateLimitConfig controls per-client request limiting.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// LoggingConfig is the subset of logging options exposed in the config file.
type LoggingConfig struct {
	Level    string `koanf:"level"`
	Format   string `koanf:"format"`
	OTEL     bool   `koanf:"otel"`
	Sampling bool   `koanf:"sampling"`
}

// TelemetryConfig is the subset of OpenTelemetry options exposed in the
// config file.
type TelemetryConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	Protocol    string  `koanf:"protocol"` // grpc or http/protobuf
	Insecure    bool    `koanf:"insecure"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Knowledge: KnowledgeConfig{
			Path:     "base_conocimiento.json",
			Debounce: Duration(500 * time.Millisecond),
		},
		Matcher: MatcherConfig{
			Threshold: 0.4,
			CacheSize: 256,
		},
		CORS: CORSConfig{
			Enabled:      true,
			AllowOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Sampling: true,
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4317",
			Protocol:    "grpc",
			Insecure:    true,
			ServiceName: "faultdx",
			SampleRate:  1.0,
		},
	}
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if strings.TrimSpace(c.Knowledge.Path) == "" {
		return errors.New("knowledge.path is required")
	}
	if c.Knowledge.Watch && c.Knowledge.Debounce.Duration() <= 0 {
		return errors.New("knowledge.debounce must be positive when watch is enabled")
	}
	if c.Matcher.Threshold < 0 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher.threshold must be between 0 and 1, got %v", c.Matcher.Threshold)
	}
	if c.Matcher.MaxResults < 0 {
		return fmt.Errorf("matcher.max_results must be >= 0, got %d", c.Matcher.MaxResults)
	}
	if c.Matcher.CacheSize < 0 {
		return fmt.Errorf("matcher.cache_size must be >= 0, got %d", c.Matcher.CacheSize)
	}
	if c.CORS.Enabled && len(c.CORS.AllowOrigins) == 0 {
		return errors.New("cors.allow_origins must list at least one origin when cors is enabled")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate_limit.rps must be positive, got %v", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("rate_limit.burst must be >= 1, got %d", c.RateLimit.Burst)
		}
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return errors.New("telemetry.endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.Protocol != "grpc" && c.Telemetry.Protocol != "http/protobuf" {
			return fmt.Errorf("telemetry.protocol must be 'grpc' or 'http/protobuf', got %q", c.Telemetry.Protocol)
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			return fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %v", c.Telemetry.SampleRate)
		}
	}
	return nil
}
