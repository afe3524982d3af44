// Package extract copies the tracked file set out of whatever revision the
// source repository currently has checked out.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/relforge/tagmirror/internal/domain"
	"github.com/relforge/tagmirror/internal/utils"
)

// Extractor copies each configured file from the source working tree into
// the tracking repository, overwriting destinations in place.
type Extractor struct {
	specs  []domain.FileSpec
	logger *utils.Logger
}

// ExtractorOptions contains options for creating an extractor
type ExtractorOptions struct {
	Specs  []domain.FileSpec
	Logger *utils.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(opts ExtractorOptions) *Extractor {
	return &Extractor{
		specs:  opts.Specs,
		logger: opts.Logger,
	}
}

// Run copies every spec's source file from sourceRoot into trackingRoot.
// Any read failure files the label under Missing; absence and read errors
// are not distinguished, both are signal about that revision. Copy errors
// on the destination side are real errors and abort the extraction.
func (e *Extractor) Run(ctx context.Context, sourceRoot, trackingRoot string) (domain.ExtractionResult, error) {
	var result domain.ExtractionResult

	for _, spec := range e.specs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		src := filepath.Join(sourceRoot, filepath.FromSlash(spec.Source))
		dst := filepath.Join(trackingRoot, filepath.FromSlash(spec.Dest))

		data, err := os.ReadFile(src)
		if err != nil {
			if e.logger != nil {
				e.logger.Debug().Err(err).Str("source", spec.Source).
					Msg("Source file not readable at this revision")
			}
			result.Missing = append(result.Missing, spec.Label)
			continue
		}

		if err := utils.EnsureDir(dst); err != nil {
			return result, fmt.Errorf("creating destination dir for %s: %w", spec.Dest, err)
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return result, fmt.Errorf("writing %s: %w", spec.Dest, err)
		}

		result.Extracted = append(result.Extracted, spec.Label)
	}

	return result, nil
}
