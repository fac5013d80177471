// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dewitt4/ai-security-monitor/internal/detection"
)

// maxDetectBodyBytes caps the accepted request body. Tensor payloads beyond
// this are rejected before decoding.
const maxDetectBodyBytes = 8 << 20

// Handler serves the monitor's HTTP endpoints.
type Handler struct {
	monitor *detection.Monitor
}

// NewHandler creates a handler backed by the given monitor.
func NewHandler(monitor *detection.Monitor) *Handler {
	return &Handler{monitor: monitor}
}

// Detect analyzes one inference request.
//
// Method: POST
// Path: /api/v1/detect
//
// Response:
//   - 200: Assessment returned (clean or flagged)
//   - 400: Malformed body or missing input
//   - 405: Method not allowed
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxDetectBodyBytes)

	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", err)
		return
	}

	if req.SourceID == "" {
		req.SourceID = clientIP(r)
	}

	assessment, err := h.monitor.DetectThreat(r.Context(), detection.Request{
		SourceID: req.SourceID,
		Input:    req.Input,
	})
	if err != nil {
		switch {
		case errors.Is(err, detection.ErrMissingInput):
			respondError(w, http.StatusBadRequest, "MISSING_INPUT", "Request input is required", nil)
		case errors.Is(err, detection.ErrMissingSourceID):
			respondError(w, http.StatusBadRequest, "MISSING_SOURCE", "Request source could not be determined", nil)
		default:
			respondError(w, http.StatusInternalServerError, "DETECTION_ERROR", "Threat detection failed", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   assessment,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		},
	})
}

// Summary returns aggregated incident statistics for a trailing window.
//
// Method: GET
// Path: /api/v1/summary?hours=24
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	hours := getIntParam(r, "hours", 24)
	summary := h.monitor.IncidentSummary(hours)

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   summary,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		},
	})
}

// Incidents returns recorded incidents, newest first.
//
// Method: GET
// Path: /api/v1/incidents?limit=50
func (h *Handler) Incidents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := getIntParam(r, "limit", 50)
	incidents := h.monitor.RecentIncidents(limit)

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   incidents,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		},
	})
}

// Health reports liveness.
//
// Method: GET
// Path: /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]string{
			"status": "ok",
			"model":  h.monitor.ModelName(),
		},
		Metadata: Metadata{Timestamp: time.Now()},
	})
}
