// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ManuGH/favbot/internal/bot"
	"github.com/ManuGH/favbot/internal/platform/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOutbox_DropsOldest(t *testing.T) {
	o := NewOutbox(3)
	for i := 1; i <= 5; i++ {
		require.NoError(t, o.Send(context.Background(), "s", fmt.Sprintf("m%d", i)))
	}
	assert.Equal(t, 3, o.Len("s"))

	msgs := o.Drain("s")
	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Text)
		assert.NotEmpty(t, m.ID)
	}
	assert.Equal(t, []string{"m3", "m4", "m5"}, texts)
	assert.Zero(t, o.Len("s"))
}

func TestOutbox_SessionsAreIsolated(t *testing.T) {
	o := NewOutbox(0)
	require.NoError(t, o.Send(context.Background(), "a", "for a"))
	assert.Empty(t, o.Drain("b"))
	assert.Len(t, o.Drain("a"), 1)
}

func TestOutbox_WaitTimesOut(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	o := NewOutbox(0)
	start := time.Now()
	msgs := o.Wait(context.Background(), "s", 40*time.Millisecond)
	assert.Empty(t, msgs)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestOutbox_WaitHonorsContext(t *testing.T) {
	o := NewOutbox(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, o.Wait(ctx, "s", time.Minute))
}

func TestWebhookSender(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewWebhookSender(srv.URL, httpx.NewClient(httpx.Options{}))
	require.NoError(t, s.Send(context.Background(), "qq:42", "✓ 已清空关注列表"))
	assert.Equal(t, "qq:42", got.Session)
	assert.Equal(t, "✓ 已清空关注列表", got.Text)
	assert.False(t, got.SentAt.IsZero())
}

func TestWebhookSender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, httpx.NewClient(httpx.Options{})).Send(context.Background(), "s", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestMultiSender(t *testing.T) {
	o := NewOutbox(0)
	boom := errors.New("boom")
	failing := bot.SenderFunc(func(context.Context, string, string) error { return boom })

	err := MultiSender{o, failing}.Send(context.Background(), "s", "hello")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, o.Len("s"), "healthy sinks still receive the reply")

	require.NoError(t, MultiSender{o}.Send(context.Background(), "s", "again"))
}
