// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bot is the small chat runtime the favorites plugin runs on: inbound
// events, outbound replies, per-session reply waiting and command dispatch.
package bot

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is one inbound chat message.
type Event struct {
	ID         string
	Platform   string
	SessionID  string
	SenderID   string
	SenderName string
	Text       string
	ReceivedAt time.Time
}

// SessionKey identifies the conversation the event belongs to. Replies and
// selection waits are scoped to it.
func (e Event) SessionKey() string {
	if e.Platform == "" {
		return e.SessionID
	}
	return e.Platform + ":" + e.SessionID
}

// withDefaults fills the fields a host may leave empty.
func (e Event) withDefaults() Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now()
	}
	return e
}

// Sender delivers a text reply to a session.
type Sender interface {
	Send(ctx context.Context, sessionKey, text string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, sessionKey, text string) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, sessionKey, text string) error {
	return f(ctx, sessionKey, text)
}
