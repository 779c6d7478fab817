// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build !windows

package secrets

import (
	"context"
	"fmt"

	xglog "github.com/ManuGH/devsecrets/internal/log"
	"github.com/google/renameio/v2"
)

// writeAtomic writes data with full durability guarantees using renameio.
// fsync before rename keeps either the old or the new file after a crash.
func writeAtomic(ctx context.Context, path string, data []byte) error {
	logger := xglog.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(filePerm))
	if err != nil {
		return fmt.Errorf("create pending secrets file: %w", err)
	}
	defer func() {
		// no-op once the file has been committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending secrets file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write secrets data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace secrets file: %w", err)
	}

	logger.Debug().Str(xglog.FieldPath, path).Int("bytes", len(data)).Msg("secrets file written")
	return nil
}
