package config

import (
	"os"
	"path/filepath"
)

// Default values
const (
	// Repository defaults
	DefaultSourcePath    = "~/src/upstream"
	DefaultTrackingPath  = "~/src/metadata-tracker"
	DefaultPrimaryBranch = "main"
	DefaultTagPrefix     = "v"

	// Commit identity defaults
	DefaultAuthorName  = "tagmirror"
	DefaultAuthorEmail = "tagmirror@localhost"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultFiles returns the fixed file set archived from each release tag
func DefaultFiles() []FileConfig {
	return []FileConfig{
		{
			Source: "src/core/prompts.md",
			Dest:   "metadata/core-prompts.md",
			Label:  "Core prompts",
		},
		{
			Source: "src/tools/registry.json",
			Dest:   "metadata/tool-registry.json",
			Label:  "Tool registry",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tagmirror"
	}
	return filepath.Join(home, ".tagmirror")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Path:          DefaultSourcePath,
			PrimaryBranch: DefaultPrimaryBranch,
			TagPrefix:     DefaultTagPrefix,
		},
		Tracking: TrackingConfig{
			Path: DefaultTrackingPath,
		},
		Commit: CommitConfig{
			AuthorName:  DefaultAuthorName,
			AuthorEmail: DefaultAuthorEmail,
		},
		Ledger: LedgerConfig{
			Backend: LedgerHistory,
		},
		Files: DefaultFiles(),
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
