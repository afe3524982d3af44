// Package ledger answers "was this tag already archived?". The default
// backend reads the answer out of the tracking repository's own commit
// history; the store backend keeps an explicit processed-set in BadgerDB.
// Both sit behind domain.Ledger so the orchestrator never knows which one
// it is talking to.
package ledger

import (
	"fmt"
	"path/filepath"

	"github.com/relforge/tagmirror/internal/config"
	"github.com/relforge/tagmirror/internal/domain"
	"github.com/relforge/tagmirror/internal/utils"
)

// New creates the ledger selected by cfg, bound to the given tracking
// repository
func New(cfg config.LedgerConfig, tracking domain.TrackingRepository, logger *utils.Logger) (domain.Ledger, error) {
	switch cfg.Backend {
	case config.LedgerHistory:
		return NewHistory(tracking, logger), nil
	case config.LedgerStore:
		dir := cfg.Directory
		if dir == "" {
			// Outside the tracking worktree, so the processed-set never
			// shows up in archival commits
			dir = filepath.Join(config.ConfigDir(), "ledger")
		}
		return NewStore(StoreOptions{Directory: dir})
	default:
		return nil, fmt.Errorf("unknown ledger backend: %q", cfg.Backend)
	}
}
