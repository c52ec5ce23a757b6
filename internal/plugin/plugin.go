// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package plugin implements the favorites chat commands on top of the bot
// runtime: list, add, delete, clear and save-to-server.
package plugin

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ManuGH/favbot/internal/bot"
	"github.com/ManuGH/favbot/internal/favorites"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/rs/zerolog"
)

// Plugin identity as announced to the host.
const (
	Name    = "nikki_s"
	Version = "1.0.12"
)

// Command words.
const (
	CmdList   = "关注列表"
	CmdAdd    = "增加"
	CmdDelete = "删除"
	CmdClear  = "清空"
	CmdSave   = "保存"
)

// DefaultSelectionTimeout bounds an interactive selection.
const DefaultSelectionTimeout = 10 * time.Second

// DocumentStore is the local favorites persistence.
type DocumentStore interface {
	Load(ctx context.Context) favorites.Document
	Save(ctx context.Context, doc favorites.Document) error
}

// Pusher uploads the document to the config server.
type Pusher interface {
	Push(ctx context.Context, doc favorites.Document) error
}

// Options wires a Plugin.
type Options struct {
	Store            DocumentStore
	Catalog          favorites.Catalog
	Remote           Pusher
	Waiter           bot.Waiter
	Sender           bot.Sender
	SelectionTimeout time.Duration
}

// Plugin holds the command handlers and their collaborators.
type Plugin struct {
	store   DocumentStore
	catalog favorites.Catalog
	remote  Pusher
	waiter  bot.Waiter
	sender  bot.Sender
	timeout atomic.Int64
	logger  zerolog.Logger
}

// New returns a plugin. A zero Catalog means the default location catalog.
func New(opts Options) *Plugin {
	catalog := opts.Catalog
	if catalog.Len() == 0 {
		catalog = favorites.DefaultCatalog()
	}
	p := &Plugin{
		store:   opts.Store,
		catalog: catalog,
		remote:  opts.Remote,
		waiter:  opts.Waiter,
		sender:  opts.Sender,
		logger:  xglog.WithComponent("plugin"),
	}
	p.SetSelectionTimeout(opts.SelectionTimeout)
	return p
}

// SetSelectionTimeout changes the deadline used by selections started later.
// Non-positive values restore the default.
func (p *Plugin) SetSelectionTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultSelectionTimeout
	}
	p.timeout.Store(int64(d))
}

// SelectionTimeout returns the current selection deadline.
func (p *Plugin) SelectionTimeout() time.Duration {
	return time.Duration(p.timeout.Load())
}

// Commands returns the command table for bot.NewDispatcher.
func (p *Plugin) Commands() map[string]bot.Handler {
	return map[string]bot.Handler{
		CmdList:   p.List,
		CmdAdd:    p.Add,
		CmdDelete: p.Delete,
		CmdClear:  p.Clear,
		CmdSave:   p.Save,
	}
}

// Start logs the plugin identity and the effective server address.
func (p *Plugin) Start(ctx context.Context, serverURL string) {
	logger := xglog.WithContext(ctx, p.logger)
	logger.Info().
		Str("plugin", Name).
		Str("plugin_version", Version).
		Str(xglog.FieldServerURL, serverURL).
		Int("locations", p.catalog.Len()).
		Str(xglog.FieldEvent, "plugin.loaded").
		Msg("favbot plugin loaded")
}

// Terminate is the unload hook.
func (p *Plugin) Terminate(ctx context.Context) {
	logger := xglog.WithContext(ctx, p.logger)
	logger.Info().
		Str("plugin", Name).
		Str(xglog.FieldEvent, "plugin.unloaded").
		Msg("favbot plugin unloaded")
}

func (p *Plugin) reply(ctx context.Context, ev bot.Event, text string) {
	if err := p.sender.Send(ctx, ev.SessionKey(), text); err != nil {
		logger := xglog.WithContext(ctx, p.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "reply.failed").
			Msg("failed to deliver reply")
	}
}

// save persists doc. Failures are logged by the store and never reach the user.
func (p *Plugin) save(ctx context.Context, doc favorites.Document) {
	_ = p.store.Save(ctx, doc)
}
