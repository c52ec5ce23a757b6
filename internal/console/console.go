// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package console runs the bot against a line-oriented terminal session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ManuGH/favbot/internal/bot"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/metrics"
)

// Session identifies the single console conversation.
const (
	Platform  = "console"
	SessionID = "local"
)

// Dispatcher accepts inbound events.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev bot.Event) bot.Route
}

// Writer prints replies. It is safe for concurrent use by command goroutines.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter returns a reply sink writing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Send implements bot.Sender.
func (w *Writer) Send(_ context.Context, _ string, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.out, text)
	metrics.IncReply("console", err)
	return err
}

// Run reads lines from in and dispatches each non-empty one, in order, as an event from
// the local session. It returns at EOF or when ctx ends.
func Run(ctx context.Context, in io.Reader, d Dispatcher, user string) error {
	logger := xglog.WithComponentFromContext(ctx, "console")
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					if err != nil {
						return fmt.Errorf("read console input: %w", err)
					}
				default:
				}
				logger.Debug().Str(xglog.FieldEvent, "console.eof").Msg("console input closed")
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			d.Dispatch(ctx, bot.Event{
				Platform:   Platform,
				SessionID:  SessionID,
				SenderID:   user,
				SenderName: user,
				Text:       line,
			})
		}
	}
}
