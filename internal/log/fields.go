// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"
	FieldEventID   = "event_id"
	FieldSenderID  = "sender_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldCommand   = "command"

	// Favorites fields
	FieldLocation = "location"
	FieldIndex    = "index"
	FieldCount    = "count"

	// Path / URL fields
	FieldPath      = "path"
	FieldServerURL = "server_url"
	FieldStatus    = "status"
)
