// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package plugin

import (
	"context"

	"github.com/ManuGH/favbot/internal/bot"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (p *Plugin) startCommand(ctx context.Context, command string, ev bot.Event) (context.Context, trace.Span) {
	return telemetry.Tracer("favbot/plugin").Start(ctx, "command."+command,
		trace.WithAttributes(telemetry.CommandAttributes(command, ev.SessionKey(), ev.Platform, ev.ID)...))
}

// List shows the current favorites.
func (p *Plugin) List(ctx context.Context, ev bot.Event, _ string) {
	ctx, span := p.startCommand(ctx, CmdList, ev)
	defer span.End()

	p.reply(ctx, ev, ListMessage(p.store.Load(ctx)))
}

// Add adds a catalog location, either the one named by an inline index or
// the one picked interactively.
func (p *Plugin) Add(ctx context.Context, ev bot.Event, args string) {
	ctx, span := p.startCommand(ctx, CmdAdd, ev)
	defer span.End()

	if position := inlineIndex(args); position >= 1 && position <= p.catalog.Len() {
		p.reply(ctx, ev, p.addAt(ctx, position))
		return
	}
	p.selection(ctx, ev, "add", msgAddPrompt, p.catalog.Names(), p.addAt)
}

func (p *Plugin) addAt(ctx context.Context, position int) string {
	location, _ := p.catalog.At(position)
	doc := p.store.Load(ctx)
	if doc.Contains(location) {
		return msgAlreadyFavorite(location)
	}
	doc.Append(location)
	p.save(ctx, doc)

	logger := xglog.WithContext(ctx, p.logger)

	logger.Info().
		Str(xglog.FieldEvent, "favorites.added").
		Str(xglog.FieldLocation, location).
		Int(xglog.FieldIndex, position).
		Msg("favorite added")
	return msgAdded(location)
}

// Delete removes a favorite by inline index or interactive pick. The
// interactive pick applies to the list as it was shown in the prompt.
func (p *Plugin) Delete(ctx context.Context, ev bot.Event, args string) {
	ctx, span := p.startCommand(ctx, CmdDelete, ev)
	defer span.End()

	doc := p.store.Load(ctx)
	if len(doc.Favorites) == 0 {
		p.reply(ctx, ev, msgDeleteEmpty)
		return
	}

	removeAt := func(ctx context.Context, position int) string {
		removed, err := doc.RemoveAt(position)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return msgFailed(err)
		}
		p.save(ctx, doc)

		logger := xglog.WithContext(ctx, p.logger)

		logger.Info().
			Str(xglog.FieldEvent, "favorites.deleted").
			Str(xglog.FieldLocation, removed).
			Int(xglog.FieldIndex, position).
			Msg("favorite deleted")
		return msgDeleted(removed)
	}

	if position := inlineIndex(args); position >= 1 && position <= len(doc.Favorites) {
		p.reply(ctx, ev, removeAt(ctx, position))
		return
	}
	shown := doc.Clone().Favorites
	p.selection(ctx, ev, "delete", msgDeletePrompt, shown, removeAt)
}

// Clear empties the favorites list.
func (p *Plugin) Clear(ctx context.Context, ev bot.Event, _ string) {
	ctx, span := p.startCommand(ctx, CmdClear, ev)
	defer span.End()

	doc := p.store.Load(ctx)
	if len(doc.Favorites) == 0 {
		p.reply(ctx, ev, msgAlreadyEmpty)
		return
	}
	doc.Clear()
	p.save(ctx, doc)

	logger := xglog.WithContext(ctx, p.logger)

	logger.Info().
		Str(xglog.FieldEvent, "favorites.cleared").
		Msg("favorites cleared")
	p.reply(ctx, ev, msgCleared)
}

// Save pushes the local document to the config server.
func (p *Plugin) Save(ctx context.Context, ev bot.Event, _ string) {
	ctx, span := p.startCommand(ctx, CmdSave, ev)
	defer span.End()

	err := p.remote.Push(ctx, p.store.Load(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	p.reply(ctx, ev, SaveMessage(err))
}
