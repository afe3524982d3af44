package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithViper_Defaults(t *testing.T) {
	cfg, v, err := LoadWithViper()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, DefaultSourcePath, cfg.Source.Path)
	assert.Equal(t, DefaultTrackingPath, cfg.Tracking.Path)
	assert.Equal(t, DefaultPrimaryBranch, cfg.Source.PrimaryBranch)
	assert.Equal(t, LedgerHistory, cfg.Ledger.Backend)
	assert.Len(t, cfg.Files, 2)
}

func TestLoadWithViper_EnvOverrides(t *testing.T) {
	t.Setenv("TAGMIRROR_SOURCE_PATH", "/opt/upstream-checkout")
	t.Setenv("TAGMIRROR_TRACKING_PATH", "/opt/tracking")
	t.Setenv("TAGMIRROR_SOURCE_PRIMARY_BRANCH", "trunk")

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)

	assert.Equal(t, "/opt/upstream-checkout", cfg.Source.Path)
	assert.Equal(t, "/opt/tracking", cfg.Tracking.Path)
	assert.Equal(t, "trunk", cfg.Source.PrimaryBranch)
}

func TestLoadWithViper_InvalidEnvValue(t *testing.T) {
	t.Setenv("TAGMIRROR_LEDGER_BACKEND", "postgres")

	_, _, err := LoadWithViper()
	assert.Error(t, err)
}
