// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	ch   chan string
	err  error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{ch: make(chan string, 64)}
}

func (s *recordingSender) Send(_ context.Context, _ string, text string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.sent = append(s.sent, text)
	s.mu.Unlock()
	s.ch <- text
	return nil
}

func (s *recordingSender) next(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-s.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a sent message")
		return ""
	}
}

func reply(session, text string) Event {
	return Event{Platform: "test", SessionID: session, Text: text}
}

func TestPromptAndWait_DeliversUntilDone(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sender := newRecordingSender()
	conv := NewConversations(sender)

	var seen []string
	errCh := make(chan error, 1)
	go func() {
		errCh <- conv.PromptAndWait(context.Background(), "test:a", "pick one", time.Second, func(_ context.Context, ev Event) (bool, error) {
			seen = append(seen, ev.Text)
			return ev.Text == "2", nil
		})
	}()

	assert.Equal(t, "pick one", sender.next(t))
	assert.True(t, conv.Waiting("test:a"))
	assert.True(t, conv.Deliver(reply("a", "x")))
	assert.True(t, conv.Deliver(reply("a", "2")))

	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"x", "2"}, seen)
	assert.False(t, conv.Waiting("test:a"))
	assert.False(t, conv.Deliver(reply("a", "3")))
}

func TestPromptAndWait_Timeout(t *testing.T) {
	conv := NewConversations(newRecordingSender())

	start := time.Now()
	err := conv.PromptAndWait(context.Background(), "test:a", "p", 50*time.Millisecond, func(context.Context, Event) (bool, error) {
		return true, nil
	})
	require.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Zero(t, conv.Active())
}

func TestPromptAndWait_InvalidRepliesDoNotExtendDeadline(t *testing.T) {
	sender := newRecordingSender()
	conv := NewConversations(sender)

	errCh := make(chan error, 1)
	go func() {
		errCh <- conv.PromptAndWait(context.Background(), "test:a", "p", 150*time.Millisecond, func(context.Context, Event) (bool, error) {
			return false, nil
		})
	}()
	sender.next(t)

	start := time.Now()
	for i := 0; i < 5; i++ {
		conv.Deliver(reply("a", "nope"))
		time.Sleep(20 * time.Millisecond)
	}
	require.ErrorIs(t, <-errCh, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPromptAndWait_SessionBusy(t *testing.T) {
	sender := newRecordingSender()
	conv := NewConversations(sender)

	errCh := make(chan error, 1)
	go func() {
		errCh <- conv.PromptAndWait(context.Background(), "test:a", "first", time.Second, func(context.Context, Event) (bool, error) {
			return true, nil
		})
	}()
	sender.next(t)

	err := conv.PromptAndWait(context.Background(), "test:a", "second", time.Second, func(context.Context, Event) (bool, error) {
		return true, nil
	})
	require.ErrorIs(t, err, ErrSessionBusy)

	// Other sessions are unaffected.
	assert.False(t, conv.Deliver(reply("b", "1")))

	conv.Deliver(reply("a", "1"))
	require.NoError(t, <-errCh)
}

func TestPromptAndWait_CallbackErrorEndsWait(t *testing.T) {
	sender := newRecordingSender()
	conv := NewConversations(sender)
	boom := errors.New("boom")

	errCh := make(chan error, 1)
	go func() {
		errCh <- conv.PromptAndWait(context.Background(), "test:a", "p", time.Second, func(context.Context, Event) (bool, error) {
			return false, boom
		})
	}()
	sender.next(t)
	conv.Deliver(reply("a", "1"))
	require.ErrorIs(t, <-errCh, boom)
}

func TestPromptAndWait_CallbackPanicBecomesError(t *testing.T) {
	sender := newRecordingSender()
	conv := NewConversations(sender)

	errCh := make(chan error, 1)
	go func() {
		errCh <- conv.PromptAndWait(context.Background(), "test:a", "p", time.Second, func(context.Context, Event) (bool, error) {
			panic("kaboom")
		})
	}()
	sender.next(t)
	conv.Deliver(reply("a", "1"))

	err := <-errCh
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "kaboom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
	assert.Equal(t, "panic: kaboom", err.Error())
}

func TestPromptAndWait_ContextCancel(t *testing.T) {
	sender := newRecordingSender()
	conv := NewConversations(sender)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- conv.PromptAndWait(ctx, "test:a", "p", time.Minute, func(context.Context, Event) (bool, error) {
			return true, nil
		})
	}()
	sender.next(t)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Zero(t, conv.Active())
}

func TestPromptAndWait_SendFailureUnregisters(t *testing.T) {
	sender := newRecordingSender()
	sender.err = errors.New("offline")
	conv := NewConversations(sender)

	err := conv.PromptAndWait(context.Background(), "test:a", "p", time.Second, func(context.Context, Event) (bool, error) {
		return true, nil
	})
	require.ErrorIs(t, err, sender.err)
	assert.False(t, conv.Waiting("test:a"))
}

func TestEvent_SessionKey(t *testing.T) {
	assert.Equal(t, "qq:123", Event{Platform: "qq", SessionID: "123"}.SessionKey())
	assert.Equal(t, "123", Event{SessionID: "123"}.SessionKey())
}

func TestUnregister_DrainsUnreadReplies(t *testing.T) {
	conv := NewConversations(newRecordingSender())
	c, err := conv.register("test:a")
	require.NoError(t, err)

	require.True(t, conv.Deliver(reply("a", "1")))
	require.True(t, conv.Deliver(reply("a", "2")))

	assert.Equal(t, 2, conv.unregister("test:a", c))
	assert.False(t, conv.Deliver(reply("a", "3")))
	assert.Empty(t, c.replies)
}

func TestPromptAndWait_MarksTurnParked(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sender := newRecordingSender()
	conv := NewConversations(sender)
	tr := newTurn()
	ctx := context.WithValue(context.Background(), turnKey{}, tr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- conv.PromptAndWait(ctx, "test:a", "p", time.Second, func(_ context.Context, ev Event) (bool, error) {
			return ev.Text == "ok", nil
		})
	}()

	<-tr.parked
	assert.True(t, conv.Waiting("test:a"))
	require.True(t, conv.Deliver(reply("a", "again")))
	<-tr.parked
	require.True(t, conv.Deliver(reply("a", "ok")))
	require.NoError(t, <-errCh)
}
