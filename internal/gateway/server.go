// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package gateway exposes the bot runtime over HTTP: hosts post inbound chat
// events and collect queued replies (or receive them on a webhook).
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/favbot/internal/bot"
	"github.com/ManuGH/favbot/internal/health"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxEventBytes   = 64 << 10
	defaultPollWait = 0
	maxPollWait     = 30 * time.Second
)

// Dispatcher accepts inbound events.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev bot.Event) bot.Route
}

// Options wires the HTTP surface.
type Options struct {
	Dispatcher Dispatcher
	Outbox     *Outbox
	Health     *health.Manager
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	Stack   StackConfig
}

type eventRequest struct {
	ID         string `json:"id"`
	Platform   string `json:"platform"`
	SessionID  string `json:"session_id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
}

type eventResponse struct {
	ID      string `json:"id"`
	Session string `json:"session"`
	Route   string `json:"route"`
}

type messagesResponse struct {
	Messages []Message `json:"messages"`
}

type handler struct {
	dispatcher Dispatcher
	outbox     *Outbox
}

// NewRouter builds the gateway router.
func NewRouter(opts Options) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, opts.Stack)

	if opts.Health != nil {
		r.Get("/healthz", opts.Health.ServeHealth)
		r.Get("/readyz", opts.Health.ServeReady)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	h := &handler{dispatcher: opts.Dispatcher, outbox: opts.Outbox}
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events", h.postEvent)
		if h.outbox != nil {
			r.Get("/sessions/{session}/messages", h.getMessages)
		}
	})
	return r
}

func (h *handler) postEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, r, http.StatusBadRequest, "missing_field", "session_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, r, http.StatusBadRequest, "missing_field", "text is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	ev := bot.Event{
		ID:         req.ID,
		Platform:   req.Platform,
		SessionID:  req.SessionID,
		SenderID:   req.SenderID,
		SenderName: req.SenderName,
		Text:       req.Text,
		ReceivedAt: time.Now(),
	}
	route := h.dispatcher.Dispatch(r.Context(), ev)

	logger := xglog.WithComponentFromContext(r.Context(), "gateway")

	logger.Debug().
		Str(xglog.FieldEventID, ev.ID).
		Str(xglog.FieldSessionID, ev.SessionKey()).
		Str("route", string(route)).
		Str(xglog.FieldEvent, "gateway.event_accepted").
		Msg("event accepted")

	writeJSON(w, http.StatusAccepted, eventResponse{ID: ev.ID, Session: ev.SessionKey(), Route: string(route)})
}

func (h *handler) getMessages(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	wait, err := parseWait(r.URL.Query().Get("wait"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_wait", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, messagesResponse{Messages: h.outbox.Wait(r.Context(), session, wait)})
}

// parseWait accepts a Go duration ("5s") or plain seconds ("5"), capped at maxPollWait.
func parseWait(raw string) (time.Duration, error) {
	if raw == "" {
		return defaultPollWait, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, err
		}
		d = time.Duration(secs) * time.Second
	}
	if d < 0 {
		d = 0
	}
	if d > maxPollWait {
		d = maxPollWait
	}
	return d, nil
}
