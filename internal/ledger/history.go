package ledger

import (
	"context"

	"github.com/relforge/tagmirror/internal/domain"
	"github.com/relforge/tagmirror/internal/utils"
)

// Ensure History implements domain.Ledger
var _ domain.Ledger = (*History)(nil)

// History treats the tracking repository's commit log as the ledger: a tag
// counts as processed when some commit message carries its marker line.
// Log failures read as "not processed" so a fresh tracking repository can
// take its first tag.
type History struct {
	tracking domain.TrackingRepository
	logger   *utils.Logger
}

// NewHistory creates a history-backed ledger
func NewHistory(tracking domain.TrackingRepository, logger *utils.Logger) *History {
	return &History{tracking: tracking, logger: logger}
}

// Processed reports whether a commit bearing the tag's marker line exists
func (h *History) Processed(ctx context.Context, tag string) (bool, error) {
	found, err := h.tracking.HasMessageLine(ctx, domain.Marker(tag))
	if err != nil {
		if h.logger != nil {
			h.logger.Debug().Err(err).Str("tag", tag).
				Msg("History search failed, treating tag as unprocessed")
		}
		return false, nil
	}
	return found, nil
}

// Mark is a no-op: the archival commit itself is the marker
func (h *History) Mark(ctx context.Context, tag string) error {
	return nil
}

// Close is a no-op
func (h *History) Close() error {
	return nil
}
