// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/rs/zerolog"
)

// replyBuffer is how many undelivered replies a waiting session holds before
// further replies are dropped.
const replyBuffer = 16

// ReplyFunc handles one reply during a wait. Returning done ends the wait;
// a non-nil error ends it and is returned from PromptAndWait.
type ReplyFunc func(ctx context.Context, ev Event) (done bool, err error)

// Waiter sends a prompt and feeds the session's following messages to onReply
// until it reports done, the timeout passes, or ctx ends.
type Waiter interface {
	PromptAndWait(ctx context.Context, sessionKey, prompt string, timeout time.Duration, onReply ReplyFunc) error
}

type conversation struct {
	replies chan Event
}

// Conversations is the in-memory Waiter. Deliver routes inbound events to the
// session waiting for them.
type Conversations struct {
	sender Sender
	logger zerolog.Logger

	mu     sync.Mutex
	active map[string]*conversation
}

// NewConversations returns a Waiter that sends prompts through sender.
func NewConversations(sender Sender) *Conversations {
	return &Conversations{
		sender: sender,
		logger: xglog.WithComponent("conversations"),
		active: make(map[string]*conversation),
	}
}

// PromptAndWait implements Waiter. The wait is registered before the prompt is
// sent, so a reply racing the prompt is still seen.
func (c *Conversations) PromptAndWait(ctx context.Context, sessionKey, prompt string, timeout time.Duration, onReply ReplyFunc) error {
	conv, err := c.register(sessionKey)
	if err != nil {
		return err
	}
	defer func() { _ = c.unregister(sessionKey, conv) }()

	if err := c.sender.Send(ctx, sessionKey, prompt); err != nil {
		return fmt.Errorf("send prompt: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		markParked(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrTimeout
		case ev := <-conv.replies:
			done, err := c.invoke(ctx, onReply, ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// Deliver hands ev to the wait active on its session. It reports whether a
// wait consumed the event; events for idle sessions return false.
func (c *Conversations) Deliver(ev Event) bool {
	key := ev.SessionKey()

	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.active[key]
	if !ok {
		return false
	}

	select {
	case conv.replies <- ev:
	default:
		c.logger.Warn().
			Str(xglog.FieldSessionID, key).
			Str(xglog.FieldEventID, ev.ID).
			Str(xglog.FieldEvent, "conversation.reply_dropped").
			Msg("reply buffer full, dropping message")
	}
	return true
}

// Waiting reports whether sessionKey has an active wait.
func (c *Conversations) Waiting(sessionKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.active[sessionKey]
	return ok
}

// Active returns the number of sessions currently waiting.
func (c *Conversations) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

func (c *Conversations) register(sessionKey string) (*conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.active[sessionKey]; busy {
		return nil, ErrSessionBusy
	}
	conv := &conversation{replies: make(chan Event, replyBuffer)}
	c.active[sessionKey] = conv
	return conv, nil
}

// unregister ends the wait and returns how many delivered replies it never
// consumed. Deliver holds mu while sending, so nothing lands after this.
func (c *Conversations) unregister(sessionKey string, conv *conversation) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active[sessionKey] == conv {
		delete(c.active, sessionKey)
	}

	discarded := 0
	for {
		select {
		case ev := <-conv.replies:
			discarded++
			c.logger.Warn().
				Str(xglog.FieldSessionID, sessionKey).
				Str(xglog.FieldEventID, ev.ID).
				Str(xglog.FieldEvent, "conversation.reply_discarded").
				Msg("wait ended before reply was read")
		default:
			return discarded
		}
	}
}

func (c *Conversations) invoke(ctx context.Context, onReply ReplyFunc, ev Event) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			c.logger.Error().
				Interface("panic", r).
				Bytes("stack", stack).
				Str(xglog.FieldSessionID, ev.SessionKey()).
				Str(xglog.FieldEvent, "conversation.reply_panic").
				Msg("recovered from panic in reply handler")
			done, err = false, &PanicError{Value: r, Stack: stack}
		}
	}()
	return onReply(ctx, ev)
}
