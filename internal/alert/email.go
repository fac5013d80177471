// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package alert

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dewitt4/ai-security-monitor/internal/logging"
	"github.com/dewitt4/ai-security-monitor/internal/metrics"
)

// EmailConfig configures SMTP delivery to the security team.
type EmailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Sender     string
	Recipients []string
	UseTLS     bool

	// Timeout bounds the TCP connect. Zero selects 30 seconds.
	Timeout time.Duration
}

// EmailNotifier delivers alerts over SMTP. Every delivery runs through a
// circuit breaker so a dead or slow mail server cannot stall the alert path
// for the breaker's open interval.
type EmailNotifier struct {
	cfg EmailConfig
	cb  *gobreaker.CircuitBreaker[any]

	mu      sync.RWMutex
	enabled bool
}

// NewEmailNotifier builds an SMTP notifier. The breaker opens after three
// consecutive failures and probes again two minutes later.
func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	metrics.SMTPBreakerState.Set(breakerStateValue(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("SMTP circuit breaker state transition")
			metrics.SMTPBreakerState.Set(breakerStateValue(to))
		},
	})

	return &EmailNotifier{
		cfg:     cfg,
		cb:      cb,
		enabled: true,
	}
}

// Name returns the notifier identifier.
func (n *EmailNotifier) Name() string { return "email" }

// Enabled reports whether the notifier has a usable configuration.
func (n *EmailNotifier) Enabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled && n.cfg.Host != "" && len(n.cfg.Recipients) > 0
}

// SetEnabled enables or disables delivery.
func (n *EmailNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Send delivers the alert to every configured recipient in one SMTP
// transaction, behind the circuit breaker.
func (n *EmailNotifier) Send(ctx context.Context, subject, body string) error {
	_, err := n.cb.Execute(func() (any, error) {
		return nil, n.sendSMTP(ctx, subject, body)
	})
	return err
}

func (n *EmailNotifier) sendSMTP(ctx context.Context, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	dialer := &net.Dialer{Timeout: n.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if n.cfg.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: n.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if n.cfg.Username != "" && n.cfg.Password != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(n.cfg.Sender); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range n.cfg.Recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(n.buildMessage(subject, body))); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// Quit failures after a completed DATA are ignored; the message is out.
	_ = client.Quit()
	return nil
}

func (n *EmailNotifier) buildMessage(subject, body string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", n.cfg.Sender))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(n.cfg.Recipients, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.String()
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
