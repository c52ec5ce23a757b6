// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bot

import (
	"context"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/metrics"
	"github.com/rs/zerolog"
)

// Handler runs one command. args is the text after the command word, trimmed.
type Handler func(ctx context.Context, ev Event, args string)

// Route says where Dispatch sent an event.
type Route string

const (
	RouteReply   Route = "reply"
	RouteCommand Route = "command"
	RouteIgnored Route = "ignored"
	// RouteQueued means the caller stopped waiting before the event's turn
	// came. The event is still routed in order.
	RouteQueued Route = "queued"
)

// Deliverer accepts events for sessions with an active wait.
type Deliverer interface {
	Deliver(ev Event) bool
}

type job struct {
	ctx    context.Context
	ev     Event
	routed chan Route
}

// sessionQueue orders the events of one session. last is the most recent
// command started for the session.
type sessionQueue struct {
	jobs    []job
	running bool
	last    *turn
}

// Dispatcher routes inbound events: to an active wait on the session first,
// otherwise to the command handler named by the first word.
//
// Events of one session are handled in arrival order. The next event is routed
// only after the previous command has returned or is parked waiting for a
// reply, and after a delivered reply has been consumed. Sessions run
// independently, each command on its own goroutine.
type Dispatcher struct {
	waits    Deliverer
	handlers map[string]Handler
	names    []string // longest first
	logger   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionQueue

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher returns a dispatcher for the given command table.
func NewDispatcher(waits Deliverer, handlers map[string]Handler) *Dispatcher {
	names := make([]string, 0, len(handlers))
	table := make(map[string]Handler, len(handlers))
	for name, h := range handlers {
		names = append(names, name)
		table[name] = h
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	base, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		waits:    waits,
		handlers: table,
		names:    names,
		logger:   xglog.WithComponent("dispatcher"),
		sessions: make(map[string]*sessionQueue),
		base:     base,
		cancel:   cancel,
	}
}

// Commands returns the registered command names, longest first.
func (d *Dispatcher) Commands() []string {
	return append([]string(nil), d.names...)
}

// Dispatch queues ev on its session and blocks until it has been routed, or
// until ctx ends (RouteQueued). Command handlers keep ctx values but not its
// cancellation: they outlive the inbound request and stop only on Close.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) Route {
	ev = ev.withDefaults()
	j := job{ctx: ctx, ev: ev, routed: make(chan Route, 1)}
	key := ev.SessionKey()

	d.mu.Lock()
	if d.base.Err() != nil {
		d.mu.Unlock()
		metrics.IncEvent(string(RouteIgnored))
		return RouteIgnored
	}
	q, ok := d.sessions[key]
	if !ok {
		q = &sessionQueue{}
		d.sessions[key] = q
	}
	q.jobs = append(q.jobs, j)
	if !q.running {
		q.running = true
		d.wg.Add(1)
		go d.serve(key, q)
	}
	d.mu.Unlock()

	select {
	case route := <-j.routed:
		return route
	case <-ctx.Done():
		return RouteQueued
	}
}

// serve drains one session's queue.
func (d *Dispatcher) serve(key string, q *sessionQueue) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(q.jobs) == 0 || d.base.Err() != nil {
			for _, j := range q.jobs {
				j.routed <- RouteIgnored
			}
			q.jobs = nil
			q.running = false
			if q.last == nil || q.last.finished() {
				delete(d.sessions, key)
			}
			d.mu.Unlock()
			return
		}
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		prev := q.last
		d.mu.Unlock()

		route, started := d.route(key, q, j, prev)
		metrics.IncEvent(string(route))
		j.routed <- route

		switch {
		case started != nil:
			d.settle(started)
		case route == RouteReply && prev != nil:
			d.settle(prev)
		}
	}
}

func (d *Dispatcher) route(key string, q *sessionQueue, j job, prev *turn) (Route, *turn) {
	for {
		if d.base.Err() != nil {
			return RouteIgnored, nil
		}
		if d.waits != nil && d.waits.Deliver(j.ev) {
			return RouteReply, nil
		}
		if prev == nil || prev.finished() {
			break
		}
		// The previous command is between waits: let it park or return.
		d.settle(prev)
	}

	name, args, ok := d.match(j.ev.Text)
	if !ok {
		return RouteIgnored, nil
	}
	return RouteCommand, d.start(key, q, j, name, args)
}

func (d *Dispatcher) start(key string, q *sessionQueue, j job, name, args string) *turn {
	t := newTurn()

	hctx, cancel := context.WithCancel(context.WithoutCancel(j.ctx))
	stop := context.AfterFunc(d.base, cancel)
	hctx = xglog.ContextWithEventID(hctx, j.ev.ID)
	hctx = xglog.ContextWithSession(hctx, j.ev.SessionKey())
	hctx = context.WithValue(hctx, turnKey{}, t)

	d.mu.Lock()
	q.last = t
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.finish(key, q, t)
		defer stop()
		defer cancel()
		d.run(hctx, name, j.ev, args)
	}()
	return t
}

// finish marks t done and forgets an idle session.
func (d *Dispatcher) finish(key string, q *sessionQueue, t *turn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	close(t.done)
	if !q.running && q.last == t && d.sessions[key] == q {
		delete(d.sessions, key)
	}
}

// settle blocks until t parks, returns, or the dispatcher closes.
func (d *Dispatcher) settle(t *turn) {
	select {
	case <-t.parked:
	case <-t.done:
	case <-d.base.Done():
	}
}

func (d *Dispatcher) run(ctx context.Context, name string, ev Event, args string) {
	logger := xglog.WithContext(ctx, d.logger)
	start := time.Now()
	outcome := metrics.OutcomeSuccess

	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Str(xglog.FieldCommand, name).
				Str(xglog.FieldEvent, "command.panic").
				Msg("recovered from panic in command handler")
		}
		metrics.RecordCommand(name, outcome, time.Since(start))
	}()

	logger.Debug().
		Str(xglog.FieldCommand, name).
		Str(xglog.FieldSenderID, ev.SenderID).
		Str(xglog.FieldEvent, "command.start").
		Msg("handling command")
	d.handlers[name](ctx, ev, args)
}

// match finds the command the text starts with. An optional leading "/" is
// ignored. The command word must be followed by the end of text, whitespace or
// a digit, so "增加3" and "增加 3" both reach 增加.
func (d *Dispatcher) match(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "/")
	for _, candidate := range d.names {
		rest, found := strings.CutPrefix(text, candidate)
		if !found {
			continue
		}
		if rest == "" {
			return candidate, "", true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsSpace(r) || unicode.IsDigit(r) {
			return candidate, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}

// Wait blocks until every queued event is routed and every running command
// handler has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels running handlers and waits for them, giving up when ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.cancel()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
