// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

// Package api exposes the monitor over HTTP: threat detection for inference
// requests plus reporting endpoints for incident summaries and recent
// incidents.
package api

import "time"

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMs float64   `json:"query_time_ms,omitempty"`
}

// APIError describes a request failure.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DetectRequest is the body of POST /api/v1/detect. SourceID is optional;
// when absent the client IP is used.
type DetectRequest struct {
	SourceID string `json:"source_id" validate:"omitempty,max=256"`
	Input    any    `json:"input"`
}
