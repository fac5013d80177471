// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

// Package alert turns recorded incidents into notifications. The Dispatcher
// implements the detection layer's AlertSink and fans each escalated incident
// out to the configured notifiers. Delivery failures are logged and counted
// but never propagate back into the detection path.
package alert

import "context"

// Notifier delivers a rendered alert over one transport.
type Notifier interface {
	// Send delivers the alert. Implementations honor ctx cancellation.
	Send(ctx context.Context, subject, body string) error

	// Name identifies the notifier in logs and metrics.
	Name() string

	// Enabled reports whether the notifier is configured to deliver.
	Enabled() bool
}
