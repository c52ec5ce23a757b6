// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/metrics"
	"github.com/rs/zerolog"
)

// FileName is the name of the favorites document inside the data directory.
const FileName = "config.json"

// Store reads and writes the favorites document on local disk.
// It takes no locks: one writer at a time is assumed.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore returns a store for <dataDir>/config.json.
func NewStore(dataDir string) *Store {
	return &Store{
		path:   filepath.Join(dataDir, FileName),
		logger: xglog.WithComponent("store"),
	}
}

// Path returns the location of the document file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored document. A missing, unreadable or corrupt file
// yields an empty document; the problem is logged, never returned.
func (s *Store) Load(ctx context.Context) Document {
	logger := xglog.WithContext(ctx, s.logger)

	// #nosec G304 -- path is derived from the operator-configured data dir
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.IncStoreOperation("load", "missing")
			logger.Debug().
				Str(xglog.FieldEvent, "store.load_missing").
				Str(xglog.FieldPath, s.path).
				Msg("favorites file not found, using empty document")
			return Empty()
		}
		metrics.IncStoreOperation("load", metrics.OutcomeFailure)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "store.load_failed").
			Str(xglog.FieldPath, s.path).
			Msg("failed to read favorites file")
		return Empty()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		metrics.IncStoreOperation("load", "corrupt")
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "store.load_corrupt").
			Str(xglog.FieldPath, s.path).
			Msg("favorites file is not a valid document")
		return Empty()
	}

	metrics.IncStoreOperation("load", metrics.OutcomeSuccess)
	metrics.SetFavoritesCount(len(doc.Favorites))
	return doc
}

// Save replaces the stored document wholesale.
func (s *Store) Save(ctx context.Context, doc Document) error {
	logger := xglog.WithContext(ctx, s.logger)

	err := s.save(ctx, doc)
	if err != nil {
		metrics.IncStoreOperation("save", metrics.OutcomeFailure)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "store.save_failed").
			Str(xglog.FieldPath, s.path).
			Msg("failed to save favorites file")
		return err
	}

	metrics.IncStoreOperation("save", metrics.OutcomeSuccess)
	metrics.SetFavoritesCount(len(doc.Favorites))
	logger.Info().
		Str(xglog.FieldEvent, "store.saved").
		Int(xglog.FieldCount, len(doc.Favorites)).
		Msg("favorites saved")
	return nil
}

func (s *Store) save(ctx context.Context, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return writeFile(ctx, s.path, data)
}
