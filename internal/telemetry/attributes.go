// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// Chat attributes
	ChatCommandKey  = "chat.command"
	ChatSessionKey  = "chat.session"
	ChatPlatformKey = "chat.platform"
	ChatEventIDKey  = "chat.event_id"

	// Selection attributes
	SelectionActionKey  = "selection.action"
	SelectionOptionsKey = "selection.options"
	SelectionOutcomeKey = "selection.outcome"

	// Sync attributes
	SyncOperationKey = "sync.operation"
	SyncServerKey    = "sync.server"
	SyncStatusKey    = "sync.http_status"
	SyncFavoritesKey = "sync.favorites"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// CommandAttributes describes one chat command invocation.
func CommandAttributes(command, session, platform, eventID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	attrs = append(attrs, attribute.String(ChatCommandKey, command))
	if session != "" {
		attrs = append(attrs, attribute.String(ChatSessionKey, session))
	}
	if platform != "" {
		attrs = append(attrs, attribute.String(ChatPlatformKey, platform))
	}
	if eventID != "" {
		attrs = append(attrs, attribute.String(ChatEventIDKey, eventID))
	}
	return attrs
}

// SelectionAttributes describes an interactive selection.
func SelectionAttributes(action string, options int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(SelectionActionKey, action),
		attribute.Int(SelectionOptionsKey, options),
	}
}

// SyncAttributes describes one remote config call.
func SyncAttributes(operation, server string, favorites int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(SyncOperationKey, operation),
		attribute.String(SyncServerKey, server),
		attribute.Int(SyncFavoritesKey, favorites),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
