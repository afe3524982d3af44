package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	v := viper.GetViper()
	return loadFrom(v)
}

// LoadWithViper loads configuration from a fresh viper instance, ignoring
// any global flag bindings. Used by tests and the config subcommand.
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := loadFrom(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (TAGMIRROR_*), e.g. TAGMIRROR_SOURCE_PATH,
	// TAGMIRROR_TRACKING_PATH
	v.SetEnvPrefix("TAGMIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers defaults so environment lookups resolve even when
// no config file is present
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.path", DefaultSourcePath)
	v.SetDefault("source.primary_branch", DefaultPrimaryBranch)
	v.SetDefault("source.tag_prefix", DefaultTagPrefix)
	v.SetDefault("tracking.path", DefaultTrackingPath)
	v.SetDefault("commit.author_name", DefaultAuthorName)
	v.SetDefault("commit.author_email", DefaultAuthorEmail)
	v.SetDefault("ledger.backend", LedgerHistory)
	v.SetDefault("ledger.directory", "")
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
