// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

// Package detection implements the threat-detection core of the monitor:
// per-source rate-limit tracking over a trailing one-minute window,
// statistical anomaly checks on input tensors, severity assessment, and an
// append-only in-memory incident log with time-windowed summarization.
//
// All state lives and dies with a Monitor instance. Nothing is persisted and
// nothing is evicted: the per-source rate windows and the incident log grow
// for the process lifetime, which is an accepted property of the design.
//
// Escalation is delegated to an AlertSink so the core depends only on an
// abstract notification capability, never on a concrete transport.
package detection
