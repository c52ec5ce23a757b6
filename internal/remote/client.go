// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package remote talks to the favorites config server: one GET to pull the
// document at startup, one POST to push it on demand. Calls are never retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/favbot/internal/favorites"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/metrics"
	"github.com/ManuGH/favbot/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	configPath = "/config"

	// maxResponseBytes caps how much of a server response is read.
	maxResponseBytes = 1 << 20
)

// StatusError reports a non-200 answer from the config server.
type StatusError struct {
	Operation string
	Code      int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Operation, configPath, e.Code)
}

// Client is the config server client.
type Client struct {
	baseURL func() string
	http    *http.Client
	logger  zerolog.Logger
}

// New returns a client. baseURL is consulted on every call so a reloaded
// server address applies to the next request.
func New(baseURL func() string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		logger:  xglog.WithComponent("remote"),
	}
}

// NewStatic returns a client for a fixed base URL.
func NewStatic(baseURL string, httpClient *http.Client) *Client {
	return New(func() string { return baseURL }, httpClient)
}

// ServerURL returns the base URL the next request will use.
func (c *Client) ServerURL() string {
	return strings.TrimRight(c.baseURL(), "/")
}

// Fetch downloads the config document.
func (c *Client) Fetch(ctx context.Context) (favorites.Document, error) {
	server := c.ServerURL()
	ctx, span := telemetry.Tracer("favbot/remote").Start(ctx, "remote.fetch")
	span.SetAttributes(telemetry.SyncAttributes("fetch", server, 0)...)
	defer span.End()

	start := time.Now()
	doc, err := c.fetch(ctx, server)
	metrics.RecordRemoteRequest("fetch", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return favorites.Document{}, err
	}
	span.SetAttributes(attribute.Int(telemetry.SyncFavoritesKey, len(doc.Favorites)))
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, server string) (favorites.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+configPath, nil)
	if err != nil {
		return favorites.Document{}, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return favorites.Document{}, fmt.Errorf("fetch config: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		drain(res.Body)
		return favorites.Document{}, &StatusError{Operation: http.MethodGet, Code: res.StatusCode}
	}

	var doc favorites.Document
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&doc); err != nil {
		return favorites.Document{}, fmt.Errorf("decode fetched config: %w", err)
	}
	return doc, nil
}

// Push uploads doc, replacing the server copy.
func (c *Client) Push(ctx context.Context, doc favorites.Document) error {
	server := c.ServerURL()
	ctx, span := telemetry.Tracer("favbot/remote").Start(ctx, "remote.push")
	span.SetAttributes(telemetry.SyncAttributes("push", server, len(doc.Favorites))...)
	defer span.End()

	start := time.Now()
	err := c.push(ctx, server, doc)
	metrics.RecordRemoteRequest("push", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger := xglog.WithContext(ctx, c.logger)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "sync.push_failed").
			Str(xglog.FieldServerURL, server).
			Msg("failed to upload config")
		return err
	}

	logger := xglog.WithContext(ctx, c.logger)

	logger.Info().
		Str(xglog.FieldEvent, "sync.pushed").
		Str(xglog.FieldServerURL, server).
		Int(xglog.FieldCount, len(doc.Favorites)).
		Msg("config uploaded")
	return nil
}

func (c *Client) push(ctx context.Context, server string, doc favorites.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+configPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push config: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		drain(res.Body)
		return &StatusError{Operation: http.MethodPost, Code: res.StatusCode}
	}

	// The body only has to be JSON; its content is not used.
	var ack json.RawMessage
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&ack); err != nil {
		return fmt.Errorf("decode push response: %w", err)
	}
	return nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxResponseBytes))
}
