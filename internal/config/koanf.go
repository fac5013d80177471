// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ai-security-monitor/config.yaml",
	"/etc/ai-security-monitor/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first, then
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Name: "",
		},
		Detection: DetectionConfig{
			MaxRequestsPerMinute:       100,
			SuspiciousPatternThreshold: 0.85,
			FailedAttemptsThreshold:    5,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8780,
			Timeout:           30 * time.Second,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Alerts: AlertsConfig{
			Recipients: []string{},
			SMTP: SMTPConfig{
				Port:    587,
				UseTLS:  true,
				Timeout: 30 * time.Second,
			},
			Webhook: WebhookAlertConfig{
				Enabled:     false,
				RateLimitMs: 500,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. built-in defaults
//  2. optional YAML config file
//  3. environment variables (highest priority)
//
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are the paths parsed as comma-separated slices when they
// arrive as strings from the environment.
var sliceConfigPaths = []string{
	"alerts.recipients",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are dropped so unrelated environment noise never
// pollutes the config.
//
// Examples:
//   - MODEL_NAME -> model.name
//   - MAX_REQUESTS_PER_MINUTE -> detection.max_requests_per_minute
//   - ALERT_RECIPIENTS -> alerts.recipients
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"model_name": "model.name",

		"max_requests_per_minute":      "detection.max_requests_per_minute",
		"suspicious_pattern_threshold": "detection.suspicious_pattern_threshold",
		"failed_attempts_threshold":    "detection.failed_attempts_threshold",

		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_timeout":        "server.timeout",
		"rate_limit_requests": "server.rate_limit_requests",
		"rate_limit_window":   "server.rate_limit_window",

		"alert_recipients":      "alerts.recipients",
		"smtp_host":             "alerts.smtp.host",
		"smtp_port":             "alerts.smtp.port",
		"smtp_username":         "alerts.smtp.username",
		"smtp_password":         "alerts.smtp.password",
		"smtp_sender":           "alerts.smtp.sender",
		"smtp_use_tls":          "alerts.smtp.use_tls",
		"smtp_timeout":          "alerts.smtp.timeout",
		"webhook_url":           "alerts.webhook.url",
		"webhook_enabled":       "alerts.webhook.enabled",
		"webhook_rate_limit_ms": "alerts.webhook.rate_limit_ms",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
