// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dewitt4/ai-security-monitor/internal/alert"
	"github.com/dewitt4/ai-security-monitor/internal/api"
	"github.com/dewitt4/ai-security-monitor/internal/config"
	"github.com/dewitt4/ai-security-monitor/internal/detection"
	"github.com/dewitt4/ai-security-monitor/internal/logging"
)

// shutdownTimeout bounds the drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("model", cfg.Model.Name).
		Int("max_requests_per_minute", cfg.Detection.MaxRequestsPerMinute).
		Msg("Starting AI security monitor")

	// A nil *Dispatcher must not become a non-nil AlertSink interface.
	var sink detection.AlertSink
	if dispatcher := buildDispatcher(cfg); dispatcher != nil {
		sink = dispatcher
	}

	monitor, err := detection.NewMonitor(detection.Config{
		ModelName:            cfg.Model.Name,
		MaxRequestsPerMinute: cfg.Detection.MaxRequestsPerMinute,
	}, sink)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build monitor")
	}

	router := api.NewRouter(api.NewHandler(monitor), api.RouterConfig{
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("HTTP server shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	logging.Info().Msg("Monitor stopped gracefully")
}

// buildDispatcher wires the configured alert transports. Returns nil when no
// transport is configured, in which case incidents are recorded but never
// escalated.
func buildDispatcher(cfg *config.Config) *alert.Dispatcher {
	var notifiers []alert.Notifier

	if cfg.Alerts.SMTP.Host != "" && len(cfg.Alerts.Recipients) > 0 {
		notifiers = append(notifiers, alert.NewEmailNotifier(alert.EmailConfig{
			Host:       cfg.Alerts.SMTP.Host,
			Port:       cfg.Alerts.SMTP.Port,
			Username:   cfg.Alerts.SMTP.Username,
			Password:   cfg.Alerts.SMTP.Password,
			Sender:     cfg.Alerts.SMTP.Sender,
			Recipients: cfg.Alerts.Recipients,
			UseTLS:     cfg.Alerts.SMTP.UseTLS,
			Timeout:    cfg.Alerts.SMTP.Timeout,
		}))
		logging.Info().
			Str("host", cfg.Alerts.SMTP.Host).
			Int("recipients", len(cfg.Alerts.Recipients)).
			Msg("Email alerting enabled")
	}

	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhookNotifier(alert.WebhookConfig{
			URL:         cfg.Alerts.Webhook.URL,
			Headers:     cfg.Alerts.Webhook.Headers,
			Enabled:     true,
			RateLimitMs: cfg.Alerts.Webhook.RateLimitMs,
		}))
		logging.Info().Msg("Webhook alerting enabled")
	}

	if len(notifiers) == 0 {
		logging.Warn().Msg("No alert transport configured; incidents will be recorded but not escalated")
		return nil
	}

	return alert.NewDispatcher(cfg.Model.Name, notifiers...)
}
