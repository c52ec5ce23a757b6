// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build !windows

package favorites

import (
	"context"
	"fmt"

	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/google/renameio/v2"
)

// writeFile replaces path with data: temp file, fsync, atomic rename.
func writeFile(ctx context.Context, path string, data []byte) error {
	logger := xglog.WithComponentFromContext(ctx, "store")

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending favorites file: %w", err)
	}
	defer func() {
		// no-op once committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending favorites file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write favorites data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace favorites file: %w", err)
	}
	return nil
}
