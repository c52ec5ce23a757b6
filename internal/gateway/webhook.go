// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ManuGH/favbot/internal/bot"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/metrics"
	"github.com/rs/zerolog"
)

type webhookPayload struct {
	Session string    `json:"session"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sent_at"`
}

// WebhookSender posts every reply to a host callback URL.
type WebhookSender struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewWebhookSender returns a sender posting to url.
func NewWebhookSender(url string, client *http.Client) *WebhookSender {
	return &WebhookSender{
		url:    url,
		client: client,
		logger: xglog.WithComponent("webhook"),
	}
}

// Send implements bot.Sender. Any non-2xx answer is an error.
func (s *WebhookSender) Send(ctx context.Context, sessionKey, text string) error {
	err := s.send(ctx, sessionKey, text)
	metrics.IncReply("webhook", err)
	if err != nil {
		logger := xglog.WithContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldSessionID, sessionKey).
			Str(xglog.FieldEvent, "webhook.failed").
			Msg("reply webhook failed")
	}
	return err
}

func (s *WebhookSender) send(ctx context.Context, sessionKey, text string) error {
	body, err := json.Marshal(webhookPayload{Session: sessionKey, Text: text, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if reqID := xglog.RequestIDFromContext(ctx); reqID != "" {
		req.Header.Set(HeaderRequestID, reqID)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", res.StatusCode)
	}
	return nil
}

// MultiSender fans a reply out to every sender and joins their errors.
type MultiSender []bot.Sender

// Send implements bot.Sender.
func (m MultiSender) Send(ctx context.Context, sessionKey, text string) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, sessionKey, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
