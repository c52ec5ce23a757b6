// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package plugin

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/ManuGH/favbot/internal/bot"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/metrics"
	"github.com/ManuGH/favbot/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// applyFunc performs the chosen action for a 1-based position and returns the
// message to send.
type applyFunc func(ctx context.Context, position int) string

// selection prompts with the numbered options and waits for one valid reply in
// the same session. Invalid replies are answered and the wait continues on the
// original deadline.
func (p *Plugin) selection(ctx context.Context, ev bot.Event, action, header string, options []string, apply applyFunc) {
	ctx, span := telemetry.Tracer("favbot/plugin").Start(ctx, "selection."+action)
	span.SetAttributes(telemetry.SelectionAttributes(action, len(options))...)
	defer span.End()

	logger := xglog.WithContext(ctx, p.logger)
	release := metrics.SelectionStarted()
	defer release()

	limit := len(options)
	err := p.waiter.PromptAndWait(ctx, ev.SessionKey(), numbered(header, options), p.SelectionTimeout(),
		func(ctx context.Context, reply bot.Event) (bool, error) {
			position, status := parseChoice(reply.Text, limit)
			switch status {
			case choiceNotNumber:
				metrics.IncSelectionInvalidReply("not_a_number")
				p.reply(ctx, reply, msgInvalidIndex)
				return false, nil
			case choiceOutOfRange:
				metrics.IncSelectionInvalidReply("out_of_range")
				p.reply(ctx, reply, msgOutOfRange(limit))
				return false, nil
			}
			p.reply(ctx, reply, apply(ctx, position))
			return true, nil
		})

	outcome := "resolved"
	switch {
	case err == nil:
	case errors.Is(err, bot.ErrTimeout):
		outcome = "timeout"
		logger.Info().
			Str(xglog.FieldEvent, "selection.timeout").
			Str("action", action).
			Msg("selection timed out")
		p.reply(ctx, ev, msgTimeout)
	default:
		outcome = "error"
		if errors.Is(err, bot.ErrSessionBusy) {
			outcome = "busy"
		}
		stack := debug.Stack()
		var panicErr *bot.PanicError
		if errors.As(err, &panicErr) {
			stack = panicErr.Stack
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().
			Err(err).
			Bytes("stack", stack).
			Str(xglog.FieldEvent, "selection.failed").
			Str("action", action).
			Msg("selection failed")
		p.reply(ctx, ev, msgFailed(err))
	}

	span.SetAttributes(attribute.String(telemetry.SelectionOutcomeKey, outcome))
	metrics.RecordSelection(action, outcome)
}
