// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/dewitt4/ai-security-monitor/internal/detection"
	"github.com/dewitt4/ai-security-monitor/internal/logging"
	"github.com/dewitt4/ai-security-monitor/internal/metrics"
)

// defaultSendTimeout bounds a single notifier delivery.
const defaultSendTimeout = 30 * time.Second

// Dispatcher fans escalated incidents out to a set of notifiers. It is the
// alert-side implementation of the detection layer's AlertSink: only medium
// and high severity incidents are delivered, and per-notifier failures are
// logged and counted without ever surfacing to the caller.
type Dispatcher struct {
	model       string
	notifiers   []Notifier
	sendTimeout time.Duration
}

// NewDispatcher creates a dispatcher for the named model. Nil notifiers are
// skipped so callers can pass conditionally-constructed entries directly.
func NewDispatcher(model string, notifiers ...Notifier) *Dispatcher {
	kept := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return &Dispatcher{
		model:       model,
		notifiers:   kept,
		sendTimeout: defaultSendTimeout,
	}
}

// Notify delivers the incident to every enabled notifier. Low severity
// incidents are recorded upstream but never delivered.
func (d *Dispatcher) Notify(ctx context.Context, incident detection.Incident) {
	if incident.Severity == detection.SeverityLow {
		return
	}

	subject := d.subject(incident)
	body := d.body(incident)

	for _, notifier := range d.notifiers {
		if !notifier.Enabled() {
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		start := time.Now()
		err := notifier.Send(sendCtx, subject, body)
		cancel()

		metrics.AlertSendDuration.WithLabelValues(notifier.Name()).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.AlertFailures.WithLabelValues(notifier.Name()).Inc()
			logging.Error().
				Err(err).
				Str("notifier", notifier.Name()).
				Str("incident_id", incident.ID).
				Str("severity", string(incident.Severity)).
				Msg("alert delivery failed")
			continue
		}

		metrics.AlertsSent.WithLabelValues(notifier.Name()).Inc()
		logging.Info().
			Str("notifier", notifier.Name()).
			Str("incident_id", incident.ID).
			Msg("alert delivered")
	}
}

func (d *Dispatcher) subject(incident detection.Incident) string {
	return fmt.Sprintf("Security Alert: %s - %s Severity", d.model, strings.ToUpper(string(incident.Severity)))
}

func (d *Dispatcher) body(incident detection.Incident) string {
	details, err := json.MarshalIndent(incident, "", "  ")
	if err != nil {
		details = []byte(fmt.Sprintf("unserializable incident: %v", err))
	}

	var b strings.Builder
	b.WriteString("Security Incident Detected\n\n")
	b.WriteString(fmt.Sprintf("Timestamp: %s\n", incident.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Severity: %s\n", incident.Severity))
	b.WriteString(fmt.Sprintf("Threats Detected: %s\n", strings.Join(incident.Threats, ", ")))
	b.WriteString(fmt.Sprintf("Source: %s\n", incident.SourceID))
	b.WriteString("\nFull Details:\n")
	b.Write(details)
	b.WriteString("\n")
	return b.String()
}
