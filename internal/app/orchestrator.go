package app

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/relforge/tagmirror/internal/config"
	"github.com/relforge/tagmirror/internal/domain"
	"github.com/relforge/tagmirror/internal/extract"
	"github.com/relforge/tagmirror/internal/gitrepo"
	"github.com/relforge/tagmirror/internal/ledger"
	"github.com/relforge/tagmirror/internal/record"
	"github.com/relforge/tagmirror/internal/utils"
)

// Orchestrator drives the per-tag archival loop: ledger check, checkout,
// extract, record. Strictly sequential; the source repository's single
// working tree cannot support concurrent tag processing.
type Orchestrator struct {
	cfg       *config.Config
	source    domain.SourceRepository
	tracking  domain.TrackingRepository
	ledger    domain.Ledger
	extractor *extract.Extractor
	recorder  *record.Recorder
	logger    *utils.Logger
	opts      Options

	// bar is set for the duration of Run
	bar *progressbar.ProgressBar
}

// Options contains options for a run
type Options struct {
	StartFrom string
	Limit     int
	DryRun    bool
	Verbose   bool
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config *config.Config
	Logger *utils.Logger
	Run    Options

	// Overrides for testing; nil selects the go-git implementations
	Source   domain.SourceRepository
	Tracking domain.TrackingRepository
	Ledger   domain.Ledger
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Run.Verbose,
		})
	}

	source := opts.Source
	if source == nil {
		var err error
		source, err = gitrepo.OpenSource(gitrepo.SourceOptions{
			Path:      utils.ExpandPath(cfg.Source.Path),
			TagPrefix: cfg.Source.TagPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("opening source repository: %w", err)
		}
	}

	tracking := opts.Tracking
	if tracking == nil {
		var err error
		tracking, err = gitrepo.OpenTracking(gitrepo.TrackingOptions{
			Path:        utils.ExpandPath(cfg.Tracking.Path),
			AuthorName:  cfg.Commit.AuthorName,
			AuthorEmail: cfg.Commit.AuthorEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("opening tracking repository: %w", err)
		}
	}

	led := opts.Ledger
	if led == nil {
		var err error
		led, err = ledger.New(cfg.Ledger, tracking, logger.WithComponent("ledger"))
		if err != nil {
			return nil, fmt.Errorf("creating ledger: %w", err)
		}
	}

	return &Orchestrator{
		cfg:      cfg,
		source:   source,
		tracking: tracking,
		ledger:   led,
		extractor: extract.NewExtractor(extract.ExtractorOptions{
			Specs:  cfg.FileSpecs(),
			Logger: logger.WithComponent("extract"),
		}),
		recorder: record.NewRecorder(record.RecorderOptions{
			Tracking: tracking,
			Logger:   logger.WithComponent("record"),
		}),
		logger: logger,
		opts:   opts.Run,
	}, nil
}

// Close releases orchestrator resources
func (o *Orchestrator) Close() error {
	return o.ledger.Close()
}

// Run executes the archival loop. Per-tag failures are logged and skipped;
// only setup failures (tag enumeration, unknown --start-from) are returned.
// The source repository is returned to its primary branch before Run
// exits, whatever happened in between.
func (o *Orchestrator) Run(ctx context.Context) error {
	tags, err := o.source.Tags(ctx)
	if err != nil {
		return fmt.Errorf("enumerating tags: %w", err)
	}

	tags, err = filterTags(tags, o.opts.StartFrom, o.opts.Limit)
	if err != nil {
		return err
	}

	o.logger.Info().
		Int("tags", len(tags)).
		Str("source", o.source.Root()).
		Str("tracking", o.tracking.Root()).
		Msg("Starting metadata archival")

	defer func() {
		branch := o.cfg.Source.PrimaryBranch
		if err := o.source.CheckoutBranch(context.Background(), branch); err != nil {
			o.logger.Error().Err(err).Str("branch", branch).
				Msg("Failed to restore source repository branch")
			return
		}
		o.logger.Debug().Str("branch", branch).Msg("Source repository restored")
	}()

	o.bar = utils.NewProgressBar(len(tags), utils.DescProcessing)
	defer o.bar.Finish()

	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return err
		}

		o.runTag(ctx, tag)
		o.bar.Add(1)
	}

	o.logger.Info().Msg("Archival run complete")
	return nil
}

// runTag handles one tag: ledger check, skip, dry-run, process. Failures
// are logged here so the loop moves on to the next tag.
func (o *Orchestrator) runTag(ctx context.Context, tag domain.VersionTag) {
	processed, err := o.ledger.Processed(ctx, tag.Name)
	if err != nil {
		o.logger.Error().Err(domain.NewTagError(tag.Name, domain.StageLedger, err)).
			Msg("Tag failed, continuing")
		return
	}
	if processed {
		o.logger.Info().Str("tag", tag.Name).Msg("Already processed, skipping")
		return
	}

	if o.opts.DryRun {
		o.logger.Info().Str("tag", tag.Name).Msg("Would process tag (dry run)")
		return
	}

	if err := o.processTag(ctx, tag); err != nil {
		o.logger.Error().Err(err).Msg("Tag failed, continuing")
	}
}

// processTag runs checkout, extraction and recording for one tag
func (o *Orchestrator) processTag(ctx context.Context, tag domain.VersionTag) error {
	log := o.logger.WithTag(tag.Name)
	log.Debug().Str("hash", tag.Hash).Msg("Processing tag")

	if err := o.source.CheckoutTag(ctx, tag.Name); err != nil {
		return domain.NewTagError(tag.Name, domain.StageCheckout, err)
	}

	result, err := o.extractor.Run(ctx, o.source.Root(), o.tracking.Root())
	if err != nil {
		return domain.NewTagError(tag.Name, domain.StageExtract, err)
	}

	committed, err := o.recorder.Record(ctx, tag.Name, result)
	if err != nil {
		return domain.NewTagError(tag.Name, domain.StageCommit, err)
	}

	if committed {
		if err := o.ledger.Mark(ctx, tag.Name); err != nil {
			return domain.NewTagError(tag.Name, domain.StageLedger, err)
		}
	}
	return nil
}

// filterTags applies the --start-from cut (inclusive), then the --limit
// truncation, preserving enumeration order. An absent start tag is fatal.
func filterTags(tags []domain.VersionTag, startFrom string, limit int) ([]domain.VersionTag, error) {
	if startFrom != "" {
		idx := -1
		for i, t := range tags {
			if t.Name == startFrom {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: start tag %q not in enumerated set", domain.ErrTagNotFound, startFrom)
		}
		tags = tags[idx:]
	}

	if limit > 0 && limit < len(tags) {
		tags = tags[:limit]
	}
	return tags, nil
}
