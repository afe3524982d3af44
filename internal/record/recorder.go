// Package record turns an extraction result into an archival commit.
package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/relforge/tagmirror/internal/domain"
	"github.com/relforge/tagmirror/internal/utils"
)

// Recorder stages and commits tracking repository changes with a message
// that names the version and lists extracted and missing files.
type Recorder struct {
	tracking domain.TrackingRepository
	logger   *utils.Logger
}

// RecorderOptions contains options for creating a recorder
type RecorderOptions struct {
	Tracking domain.TrackingRepository
	Logger   *utils.Logger
}

// NewRecorder creates a new recorder
func NewRecorder(opts RecorderOptions) *Recorder {
	return &Recorder{
		tracking: opts.Tracking,
		logger:   opts.Logger,
	}
}

// Record commits the tag's extraction result if the working tree has any
// changes. Returns whether a commit was created. A clean tree is the
// expected outcome when this version's files match the previous recorded
// version, so it is not an error.
func (r *Recorder) Record(ctx context.Context, tag string, result domain.ExtractionResult) (bool, error) {
	changed, err := r.tracking.HasChanges(ctx)
	if err != nil {
		return false, fmt.Errorf("checking working tree: %w", err)
	}
	if !changed {
		if r.logger != nil {
			r.logger.Debug().Str("tag", tag).Msg("No changes to record")
		}
		return false, nil
	}

	message := BuildMessage(tag, result)
	hash, err := r.tracking.CommitAll(ctx, message)
	if err != nil {
		return false, err
	}

	if r.logger != nil {
		r.logger.Info().
			Str("tag", tag).
			Str("commit", hash).
			Int("extracted", len(result.Extracted)).
			Int("missing", len(result.Missing)).
			Msg("Recorded metadata")
	}
	return true, nil
}

// BuildMessage produces the archival commit message. The first line is the
// marker the history ledger searches for; its format is frozen. The
// "Missing:" section is omitted entirely when empty.
func BuildMessage(tag string, result domain.ExtractionResult) string {
	var b strings.Builder

	b.WriteString(domain.Marker(tag))
	b.WriteString("\n\nExtracted:\n")
	for _, label := range result.Extracted {
		fmt.Fprintf(&b, "- %s\n", label)
	}

	if len(result.Missing) > 0 {
		b.WriteString("\nMissing:\n")
		for _, label := range result.Missing {
			fmt.Fprintf(&b, "- %s\n", label)
		}
	}

	return b.String()
}
