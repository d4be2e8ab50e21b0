package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read on top of the config file.
const (
	EnvOfficialEmail = "OFFICIAL_EMAIL"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvPort          = "PORT"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:default} patterns in a string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		varName := submatch[1]
		defaultVal := ""
		if len(submatch) >= 3 {
			defaultVal = submatch[2]
		}
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return defaultVal
	})
}

// LoadFile reads a YAML file, expands env vars, and unmarshals into dest.
func LoadFile(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), dest); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Load builds the process configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides. The result is
// validated before it is returned.
func Load(path string, logger *slog.Logger) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load service config: %w", err)
		}
	}
	applyProviderDefaults(cfg)

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if logger != nil {
		logger.Info("configuration loaded",
			"file", path,
			"port", cfg.Server.Port,
			"delegate", cfg.Delegate.Active,
			"policy_enabled", cfg.Filter.Policy.Enabled,
		)
	}
	return cfg, nil
}

// applyEnv overlays the variables the service has always honoured. Set
// variables win over the file.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOfficialEmail); ok {
		cfg.Service.OfficialEmail = v
	}
	if v, ok := lookup(EnvGeminiAPIKey); ok {
		for name, p := range cfg.Delegate.Providers {
			if p.Type == ProviderGemini {
				p.APIKey = v
				cfg.Delegate.Providers[name] = p
			}
		}
	}
	if v, ok := lookup(EnvPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s=%q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}
	return nil
}

// applyProviderDefaults fills base URLs and models left empty in the file.
// yaml.v3 replaces map entries wholesale, so a partial provider block would
// otherwise lose the built-in values.
func applyProviderDefaults(cfg *Config) {
	for name, p := range cfg.Delegate.Providers {
		if p.Type == "" {
			p.Type = name
		}
		if p.Timeout == 0 {
			p.Timeout = 60 * time.Second
		}
		if p.MaxConcurrent == 0 {
			p.MaxConcurrent = 16
		}
		switch p.Type {
		case ProviderGemini:
			if p.BaseURL == "" {
				p.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
			}
			if p.Model == "" {
				p.Model = "gemini-pro"
			}
		case ProviderOpenAI:
			if p.BaseURL == "" {
				p.BaseURL = "https://api.openai.com/v1"
			}
		case ProviderAnthropic:
			if p.BaseURL == "" {
				p.BaseURL = "https://api.anthropic.com/v1"
			}
			if p.APIVersion == "" {
				p.APIVersion = "2023-06-01"
			}
		}
		cfg.Delegate.Providers[name] = p
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive"))
	}
	for _, p := range []struct {
		name string
		port int
	}{
		{"telemetry.metrics_port", c.Telemetry.MetricsPort},
		{"telemetry.grpc_health_port", c.Telemetry.GRPCHealthPort},
	} {
		if p.port < 0 || p.port > 65535 {
			errs = append(errs, fmt.Errorf("%s %d out of range", p.name, p.port))
		}
	}

	if p, ok := c.ActiveProvider(); !ok {
		errs = append(errs, fmt.Errorf("delegate.active %q has no provider entry", c.Delegate.Active))
	} else {
		switch p.Type {
		case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		default:
			errs = append(errs, fmt.Errorf("delegate provider %q: unknown type %q", c.Delegate.Active, p.Type))
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Telemetry.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("telemetry.log_level: %w", err))
	}
	switch c.Telemetry.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("telemetry.log_format %q must be json or text", c.Telemetry.LogFormat))
	}

	inj := c.Filter.Injection
	if inj.FlagThreshold < 0 || inj.BlockThreshold > 1 || inj.FlagThreshold > inj.BlockThreshold {
		errs = append(errs, fmt.Errorf("filter.injection thresholds must satisfy 0 <= flag <= block <= 1"))
	}
	if c.Filter.Policy.Enabled && c.Filter.Policy.BundlePath == "" {
		errs = append(errs, fmt.Errorf("filter.policy.bundle_path is required when the policy filter is enabled"))
	}

	return errors.Join(errs...)
}
