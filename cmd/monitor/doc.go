// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

// Package main is the entry point for the AI security monitor.
//
// The monitor inspects inference requests sent to a protected model, flags
// suspicious ones with rate and statistical heuristics, records incidents in
// memory, and escalates medium and high severity incidents to the security
// team over SMTP and optionally a webhook.
//
// # Startup order
//
//  1. Configuration: defaults, optional YAML file, environment variables
//  2. Logging: zerolog, JSON or console format
//  3. Alert dispatcher: email and webhook transports from config
//  4. Monitor: rate tracker, pattern analyzer, incident log
//  5. HTTP server: detection and reporting endpoints plus /metrics
//
// # Configuration
//
// Required:
//   - MODEL_NAME: name of the protected model
//   - MAX_REQUESTS_PER_MINUTE: per-source rate threshold (default 100)
//
// Email alerting (optional):
//   - SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_SENDER
//   - ALERT_RECIPIENTS: comma-separated security team addresses
//
// Webhook alerting (optional):
//   - WEBHOOK_ENABLED=true, WEBHOOK_URL
//
// # Signal handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the server stops accepting
// connections and drains in-flight requests for up to 10 seconds.
//
// # Example
//
//	export MODEL_NAME=fraud-classifier
//	export MAX_REQUESTS_PER_MINUTE=100
//	export SMTP_HOST=mail.example.com
//	export SMTP_SENDER=monitor@example.com
//	export ALERT_RECIPIENTS=security@example.com
//	./ai-security-monitor
package main
