// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package alert

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// WebhookConfig configures the generic webhook notifier.
type WebhookConfig struct {
	URL         string            `json:"url"`
	Headers     map[string]string `json:"headers,omitempty"`
	Enabled     bool              `json:"enabled"`
	RateLimitMs int               `json:"rate_limit_ms"`
}

// webhookPayload is the JSON body posted to the webhook endpoint.
type webhookPayload struct {
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// WebhookNotifier posts alerts to a generic webhook endpoint with a minimum
// interval between deliveries.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	client  *http.Client

	mu        sync.RWMutex
	enabled   bool
	lastSent  time.Time
	rateLimit time.Duration
}

// NewWebhookNotifier creates a webhook notifier from config.
func NewWebhookNotifier(config WebhookConfig) *WebhookNotifier {
	rateLimit := time.Duration(config.RateLimitMs) * time.Millisecond
	if rateLimit == 0 {
		rateLimit = 500 * time.Millisecond
	}

	headers := make(map[string]string)
	for k, v := range config.Headers {
		headers[k] = v
	}

	return &WebhookNotifier{
		url:       config.URL,
		headers:   headers,
		enabled:   config.Enabled,
		rateLimit: rateLimit,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the notifier identifier.
func (n *WebhookNotifier) Name() string { return "webhook" }

// Enabled reports whether the notifier is configured to deliver.
func (n *WebhookNotifier) Enabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled && n.url != ""
}

// SetEnabled enables or disables delivery.
func (n *WebhookNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Send posts the alert as JSON. Deliveries closer together than the rate
// limit wait out the remainder, honoring ctx cancellation.
func (n *WebhookNotifier) Send(ctx context.Context, subject, body string) error {
	n.mu.RLock()
	if !n.enabled || n.url == "" {
		n.mu.RUnlock()
		return nil
	}
	url := n.url
	headers := make(map[string]string)
	for k, v := range n.headers {
		headers[k] = v
	}
	rateLimit := n.rateLimit
	lastSent := n.lastSent
	n.mu.RUnlock()

	if since := time.Since(lastSent); since < rateLimit {
		select {
		case <-time.After(rateLimit - since):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	payload := webhookPayload{
		Subject:   subject,
		Body:      body,
		EventType: "security_alert",
		Timestamp: time.Now(),
		Source:    "ai-security-monitor",
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	n.mu.Lock()
	n.lastSent = time.Now()
	n.mu.Unlock()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
