// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

// Package config holds all monitor configuration, loaded from defaults, an
// optional YAML file, and environment variables in that precedence order.
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the top-level configuration for the monitor.
type Config struct {
	Model     ModelConfig     `koanf:"model"`
	Detection DetectionConfig `koanf:"detection"`
	Server    ServerConfig    `koanf:"server"`
	Alerts    AlertsConfig    `koanf:"alerts"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ModelConfig identifies the model under protection.
type ModelConfig struct {
	// Name appears in log records and alert subjects.
	Name string `koanf:"name" validate:"required"`
}

// DetectionConfig holds the threat-detection thresholds.
type DetectionConfig struct {
	// MaxRequestsPerMinute is the per-source rate threshold. Required; the
	// monitor refuses to start without it.
	MaxRequestsPerMinute int `koanf:"max_requests_per_minute" validate:"required,gt=0"`

	// SuspiciousPatternThreshold and FailedAttemptsThreshold are accepted
	// for forward compatibility; the statistical checks currently run on
	// fixed internal thresholds.
	SuspiciousPatternThreshold float64 `koanf:"suspicious_pattern_threshold" validate:"gte=0,lte=1"`
	FailedAttemptsThreshold    int     `koanf:"failed_attempts_threshold" validate:"gte=0"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimitRequests bounds reporting-endpoint traffic per client IP
	// within RateLimitWindow.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gt=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// AlertsConfig configures escalation transports.
type AlertsConfig struct {
	// Recipients is the security-team distribution list.
	Recipients []string `koanf:"recipients" validate:"dive,email"`

	SMTP    SMTPConfig         `koanf:"smtp"`
	Webhook WebhookAlertConfig `koanf:"webhook"`
}

// SMTPConfig holds mail delivery settings. Email alerting is enabled when
// Host is set and at least one recipient is configured.
type SMTPConfig struct {
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port" validate:"omitempty,gte=1,lte=65535"`
	Username string        `koanf:"username"`
	Password string        `koanf:"password"`
	Sender   string        `koanf:"sender" validate:"omitempty,email"`
	UseTLS   bool          `koanf:"use_tls"`
	Timeout  time.Duration `koanf:"timeout"`
}

// WebhookAlertConfig holds generic webhook delivery settings.
type WebhookAlertConfig struct {
	URL         string            `koanf:"url" validate:"omitempty,url"`
	Headers     map[string]string `koanf:"headers"`
	Enabled     bool              `koanf:"enabled"`
	RateLimitMs int               `koanf:"rate_limit_ms" validate:"gte=0"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration and returns a descriptive error on the
// first problem found. Structural rules come from validate tags; the
// cross-field rules that tags cannot express follow.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config: field %s failed rule %q (value %v)",
				strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.Alerts.SMTP.Host != "" {
		if c.Alerts.SMTP.Sender == "" {
			return fmt.Errorf("config: alerts.smtp.sender is required when alerts.smtp.host is set")
		}
		if len(c.Alerts.Recipients) == 0 {
			return fmt.Errorf("config: alerts.recipients is required when alerts.smtp.host is set")
		}
	}

	return nil
}
