// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuGH/favbot/internal/favorites"
	xglog "github.com/ManuGH/favbot/internal/log"
)

// Fetcher downloads the remote document.
type Fetcher interface {
	Fetch(ctx context.Context) (favorites.Document, error)
}

// DocumentSaver persists a document locally.
type DocumentSaver interface {
	Save(ctx context.Context, doc favorites.Document) error
}

// InitialSync pulls the remote document once and writes it locally. When the
// fetch fails for any reason an empty document is written instead. The fetch
// error is returned for callers that want to report it, joined with any error
// from writing the local file.
func InitialSync(ctx context.Context, f Fetcher, s DocumentSaver, catalog favorites.Catalog) error {
	logger := xglog.WithComponentFromContext(ctx, "sync")

	doc, err := f.Fetch(ctx)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			logger.Warn().
				Int(xglog.FieldStatus, statusErr.Code).
				Str(xglog.FieldEvent, "sync.fetch_rejected").
				Msg("config server returned an error, starting with an empty list")
		} else {
			logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "sync.fetch_failed").
				Msg("initial config fetch failed, starting with an empty list")
		}
		if saveErr := s.Save(ctx, favorites.Empty()); saveErr != nil {
			logger.Error().
				Err(saveErr).
				Str(xglog.FieldEvent, "sync.save_failed").
				Msg("failed to reset local favorites")
			return errors.Join(err, fmt.Errorf("reset local config: %w", saveErr))
		}
		return err
	}

	// Server content is authoritative: unknown or duplicate entries are kept as-is.
	if unknown := unknownEntries(doc, catalog); len(unknown) > 0 {
		logger.Warn().
			Strs("entries", unknown).
			Str(xglog.FieldEvent, "sync.unknown_locations").
			Msg("fetched favorites contain names outside the location catalog")
	}

	if err := s.Save(ctx, doc); err != nil {
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "sync.save_failed").
			Msg("fetched config could not be written locally")
		return fmt.Errorf("save fetched config: %w", err)
	}
	logger.Info().
		Str(xglog.FieldEvent, "sync.fetched").
		Strs("favorites", doc.Favorites).
		Msg("pulled config from server")
	return nil
}

func unknownEntries(doc favorites.Document, catalog favorites.Catalog) []string {
	var out []string
	for _, name := range doc.Favorites {
		if !catalog.Has(name) {
			out = append(out, name)
		}
	}
	return out
}
