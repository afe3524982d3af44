package config

import (
	"fmt"

	"github.com/relforge/tagmirror/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source" yaml:"source"`
	Tracking TrackingConfig `mapstructure:"tracking" yaml:"tracking"`
	Commit   CommitConfig   `mapstructure:"commit" yaml:"commit"`
	Ledger   LedgerConfig   `mapstructure:"ledger" yaml:"ledger"`
	Files    []FileConfig   `mapstructure:"files" yaml:"files"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig locates the external repository being sampled
type SourceConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	PrimaryBranch string `mapstructure:"primary_branch" yaml:"primary_branch"`
	TagPrefix     string `mapstructure:"tag_prefix" yaml:"tag_prefix"`
}

// TrackingConfig locates the repository archival commits are written to
type TrackingConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CommitConfig sets the identity used for archival commits
type CommitConfig struct {
	AuthorName  string `mapstructure:"author_name" yaml:"author_name"`
	AuthorEmail string `mapstructure:"author_email" yaml:"author_email"`
}

// Ledger backends
const (
	LedgerHistory = "history"
	LedgerStore   = "store"
)

// LedgerConfig selects the already-processed check implementation
type LedgerConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// FileConfig is one tracked file: source path, destination path, label
type FileConfig struct {
	Source string `mapstructure:"source" yaml:"source"`
	Dest   string `mapstructure:"dest" yaml:"dest"`
	Label  string `mapstructure:"label" yaml:"label"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, back-filling defaults for empty
// fields and rejecting values that cannot be defaulted away
func (c *Config) Validate() error {
	if c.Source.Path == "" {
		c.Source.Path = DefaultSourcePath
	}
	if c.Source.PrimaryBranch == "" {
		c.Source.PrimaryBranch = DefaultPrimaryBranch
	}
	if c.Source.TagPrefix == "" {
		c.Source.TagPrefix = DefaultTagPrefix
	}
	if c.Tracking.Path == "" {
		c.Tracking.Path = DefaultTrackingPath
	}
	if c.Commit.AuthorName == "" {
		c.Commit.AuthorName = DefaultAuthorName
	}
	if c.Commit.AuthorEmail == "" {
		c.Commit.AuthorEmail = DefaultAuthorEmail
	}
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = LedgerHistory
	}
	if c.Ledger.Backend != LedgerHistory && c.Ledger.Backend != LedgerStore {
		return fmt.Errorf("invalid ledger.backend: %q", c.Ledger.Backend)
	}
	if len(c.Files) == 0 {
		c.Files = DefaultFiles()
	}
	for i, f := range c.Files {
		if f.Source == "" || f.Dest == "" || f.Label == "" {
			return fmt.Errorf("files[%d]: source, dest and label are all required", i)
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}

// FileSpecs converts the configured file set into domain values
func (c *Config) FileSpecs() []domain.FileSpec {
	specs := make([]domain.FileSpec, 0, len(c.Files))
	for _, f := range c.Files {
		specs = append(specs, domain.FileSpec{
			Source: f.Source,
			Dest:   f.Dest,
			Label:  f.Label,
		})
	}
	return specs
}
