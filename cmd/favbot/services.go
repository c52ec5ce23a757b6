// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"sync"
	"time"

	"github.com/ManuGH/favbot/internal/bot"
	"github.com/ManuGH/favbot/internal/config"
	"github.com/ManuGH/favbot/internal/favorites"
	"github.com/ManuGH/favbot/internal/platform/httpx"
	"github.com/ManuGH/favbot/internal/plugin"
	"github.com/ManuGH/favbot/internal/remote"
)

// services bundles the collaborators shared by every subcommand.
type services struct {
	store   *favorites.Store
	catalog favorites.Catalog
	remote  *remote.Client
	sync    syncState
}

// newServices builds the store and remote client. serverURL is consulted on
// every request so reloads take effect.
func newServices(cfg config.AppConfig, serverURL func() string) *services {
	client := httpx.NewClient(httpx.Options{Traced: cfg.Telemetry.Enabled})
	return &services{
		store:   favorites.NewStore(cfg.DataDir),
		catalog: favorites.DefaultCatalog(),
		remote:  remote.New(serverURL, client),
	}
}

// wire builds the plugin, the waiter and the dispatcher around sender.
func (rt *services) wire(sender bot.Sender, timeout time.Duration) (*plugin.Plugin, *bot.Dispatcher) {
	conversations := bot.NewConversations(sender)
	p := plugin.New(plugin.Options{
		Store:            rt.store,
		Catalog:          rt.catalog,
		Remote:           rt.remote,
		Waiter:           conversations,
		Sender:           sender,
		SelectionTimeout: timeout,
	})
	return p, bot.NewDispatcher(conversations, p.Commands())
}

// initialSync performs the startup fetch and records its outcome.
func (rt *services) initialSync(ctx context.Context) error {
	err := remote.InitialSync(ctx, rt.remote, rt.store, rt.catalog)
	rt.sync.set(err)
	return err
}

// syncState remembers when the startup fetch finished and how.
type syncState struct {
	mu  sync.Mutex
	at  time.Time
	err error
}

func (s *syncState) set(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.at, s.err = time.Now(), err
}

func (s *syncState) last() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.at, s.err
}
