// SPDX-License-Identifier: MIT

//go:build windows

package favorites

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// writeFile replaces path with data using temp file + rename.
// Windows has no fsync-then-rename guarantee, so this is best effort.
func writeFile(_ context.Context, path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".favbot-config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp favorites file: %w", err)
	}
	tmpPath := tmpFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write favorites data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp favorites file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace favorites file: %w", err)
	}
	committed = true
	return nil
}
