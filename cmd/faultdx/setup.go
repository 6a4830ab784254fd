package main

import (
	"fmt"

	"github.com/fyrsmithlabs/faultdx/internal/config"
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
	"github.com/fyrsmithlabs/faultdx/internal/logging"
	"github.com/fyrsmithlabs/faultdx/internal/similarity"
	"github.com/fyrsmithlabs/faultdx/internal/telemetry"
	"github.com/fyrsmithlabs/faultdx/internal/troubleshoot"
	"go.opentelemetry.io/otel/log"
)

// loadConfig reads the layered configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if knowledgePath != "" {
		cfg.Knowledge.Path = knowledgePath
	}
	return cfg, nil
}

// loggingConfig maps the file-level logging options onto logging.Config.
func loggingConfig(c config.LoggingConfig) (*logging.Config, error) {
	lc := logging.NewDefaultConfig()
	level, err := logging.LevelFromString(c.Level)
	if err != nil {
		return nil, err
	}
	lc.Level = level
	lc.Format = c.Format
	lc.Output.OTEL = c.OTEL
	lc.Sampling.Enabled = c.Sampling
	lc.Fields["version"] = version
	return lc, nil
}

// telemetryConfig maps the file-level telemetry options onto telemetry.Config.
func telemetryConfig(c config.TelemetryConfig) *telemetry.Config {
	tc := telemetry.NewDefaultConfig()
	tc.Enabled = c.Enabled
	tc.Endpoint = c.Endpoint
	tc.Protocol = c.Protocol
	tc.Insecure = c.Insecure
	tc.ServiceName = c.ServiceName
	tc.ServiceVersion = version
	tc.Sampling.Rate = c.SampleRate
	return tc
}

func newLogger(c config.LoggingConfig, provider log.LoggerProvider) (*logging.Logger, error) {
	lc, err := loggingConfig(c)
	if err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	return logging.NewLogger(lc, provider)
}

func newMatcher(c config.MatcherConfig) (*similarity.Matcher, error) {
	return similarity.NewMatcher(c.Threshold, similarity.WithMaxResults(c.MaxResults))
}

// newLocalService builds a service for terminal commands: no metrics, no
// telemetry.
func newLocalService(cfg *config.Config, logger *logging.Logger) (*troubleshoot.Service, error) {
	store, err := knowledge.Open(cfg.Knowledge.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	matcher, err := newMatcher(cfg.Matcher)
	if err != nil {
		return nil, err
	}
	return troubleshoot.NewService(store, logger, matcher, nil, troubleshoot.WithMatchCache(cfg.Matcher.CacheSize))
}

// quietLogging keeps terminal sessions readable: only warnings and errors.
func quietLogging(c config.LoggingConfig) config.LoggingConfig {
	c.Level = "warn"
	c.Format = "console"
	c.OTEL = false
	return c
}
