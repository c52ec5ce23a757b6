// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/ManuGH/favbot/internal/metrics"
	"github.com/google/uuid"
)

// DefaultOutboxSize is the per-session reply queue bound.
const DefaultOutboxSize = 256

// Message is a queued reply.
type Message struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Outbox queues replies per session until the host collects them. When a
// session's queue is full the oldest reply is dropped.
type Outbox struct {
	limit int

	mu      sync.Mutex
	queues  map[string][]Message
	waiters map[string]chan struct{}
}

// NewOutbox returns an outbox holding at most limit replies per session.
func NewOutbox(limit int) *Outbox {
	if limit <= 0 {
		limit = DefaultOutboxSize
	}
	return &Outbox{
		limit:   limit,
		queues:  make(map[string][]Message),
		waiters: make(map[string]chan struct{}),
	}
}

// Send implements bot.Sender.
func (o *Outbox) Send(_ context.Context, sessionKey, text string) error {
	msg := Message{ID: uuid.NewString(), Text: text, SentAt: time.Now().UTC()}

	o.mu.Lock()
	queue := append(o.queues[sessionKey], msg)
	if over := len(queue) - o.limit; over > 0 {
		queue = append([]Message(nil), queue[over:]...)
		for i := 0; i < over; i++ {
			metrics.IncOutboxDropped()
		}
	}
	o.queues[sessionKey] = queue
	if ch, ok := o.waiters[sessionKey]; ok {
		close(ch)
		delete(o.waiters, sessionKey)
	}
	o.mu.Unlock()

	metrics.IncReply("outbox", nil)
	return nil
}

// Drain removes and returns the queued replies of a session.
func (o *Outbox) Drain(sessionKey string) []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.take(sessionKey)
}

// Wait drains the session queue. When it is empty it blocks until a reply
// arrives, wait passes, or ctx ends, and then drains again.
func (o *Outbox) Wait(ctx context.Context, sessionKey string, wait time.Duration) []Message {
	o.mu.Lock()
	if msgs := o.take(sessionKey); len(msgs) > 0 || wait <= 0 {
		o.mu.Unlock()
		return msgs
	}
	ch, ok := o.waiters[sessionKey]
	if !ok {
		ch = make(chan struct{})
		o.waiters[sessionKey] = ch
	}
	o.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
	case <-ctx.Done():
	}
	return o.Drain(sessionKey)
}

// Len returns the number of queued replies for a session.
func (o *Outbox) Len(sessionKey string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queues[sessionKey])
}

func (o *Outbox) take(sessionKey string) []Message {
	msgs := o.queues[sessionKey]
	delete(o.queues, sessionKey)
	if msgs == nil {
		return []Message{}
	}
	return msgs
}
