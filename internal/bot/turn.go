// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bot

import "context"

// turn tracks one running command so the dispatcher can hold a session's next
// event until the command is parked on a wait or has returned.
type turn struct {
	parked chan struct{}
	done   chan struct{}
}

type turnKey struct{}

func newTurn() *turn {
	return &turn{
		parked: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (t *turn) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// markParked reports that the command running under ctx is blocked waiting
// for the session's next message.
func markParked(ctx context.Context) {
	t, ok := ctx.Value(turnKey{}).(*turn)
	if !ok {
		return
	}
	select {
	case t.parked <- struct{}{}:
	default:
	}
}
