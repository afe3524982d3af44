package gitrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relforge/tagmirror/internal/domain"
	"github.com/relforge/tagmirror/internal/gittest"
)

func newTracking(t *testing.T) (*gittest.Repo, *Tracking) {
	t.Helper()
	fixture := gittest.Init(t)
	tracking, err := OpenTracking(TrackingOptions{
		Path:        fixture.Dir,
		AuthorName:  "archiver",
		AuthorEmail: "archiver@example.com",
	})
	require.NoError(t, err)
	return fixture, tracking
}

func TestOpenTracking(t *testing.T) {
	_, err := OpenTracking(TrackingOptions{Path: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrRepoUnavailable)
}

func TestTracking_HasChanges(t *testing.T) {
	ctx := context.Background()
	fixture, tracking := newTracking(t)

	t.Run("untracked file counts as change", func(t *testing.T) {
		fixture.WriteFile("metadata/core-prompts.md", "content")
		changed, err := tracking.HasChanges(ctx)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("clean after commit", func(t *testing.T) {
		fixture.CommitAll("initial", time.Now())
		changed, err := tracking.HasChanges(ctx)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("modification counts as change", func(t *testing.T) {
		fixture.WriteFile("metadata/core-prompts.md", "updated content")
		changed, err := tracking.HasChanges(ctx)
		require.NoError(t, err)
		assert.True(t, changed)
	})
}

func TestTracking_CommitAll(t *testing.T) {
	ctx := context.Background()
	fixture, tracking := newTracking(t)

	fixture.WriteFile("metadata/core-prompts.md", "v1")
	hash, err := tracking.CommitAll(ctx, "Add metadata for v0.1.0\n\nExtracted:\n- Core prompts\n")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Equal(t, 1, fixture.CommitCount())

	changed, err := tracking.HasChanges(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	fixture.WriteFile("metadata/extra.md", "tmp")
	_, err = tracking.CommitAll(ctx, "Add metadata for v0.2.0\n\nExtracted:\n- Core prompts\n")
	require.NoError(t, err)
	assert.Equal(t, 2, fixture.CommitCount())
}

func TestTracking_HasMessageLine(t *testing.T) {
	ctx := context.Background()
	fixture, tracking := newTracking(t)

	t.Run("no history", func(t *testing.T) {
		_, err := tracking.HasMessageLine(ctx, "Add metadata for v0.1.0")
		assert.ErrorIs(t, err, domain.ErrNoHistory)
	})

	fixture.WriteFile("metadata/core-prompts.md", "v1")
	fixture.CommitAll("Add metadata for v0.1.0\n\nExtracted:\n- Core prompts\n", time.Now())

	t.Run("marker line found", func(t *testing.T) {
		found, err := tracking.HasMessageLine(ctx, "Add metadata for v0.1.0")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("absent marker not found", func(t *testing.T) {
		found, err := tracking.HasMessageLine(ctx, "Add metadata for v0.2.0")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("prefix of a longer line does not match", func(t *testing.T) {
		found, err := tracking.HasMessageLine(ctx, "Add metadata for v0.1")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("matches lines beyond the first", func(t *testing.T) {
		fixture.WriteFile("metadata/core-prompts.md", "v2")
		fixture.CommitAll("chore: housekeeping\n\nAdd metadata for v0.9.0\n", time.Now())

		found, err := tracking.HasMessageLine(ctx, "Add metadata for v0.9.0")
		require.NoError(t, err)
		assert.True(t, found)
	})
}
