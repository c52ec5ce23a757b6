// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bot

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when no reply finished a wait before its deadline.
	ErrTimeout = errors.New("bot: wait timed out")

	// ErrSessionBusy is returned when a session already has an active wait.
	ErrSessionBusy = errors.New("bot: session already waiting for a reply")
)

// PanicError wraps a panic recovered from a reply callback.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
