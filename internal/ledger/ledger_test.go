package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relforge/tagmirror/internal/config"
	"github.com/relforge/tagmirror/internal/domain"
)

// stubTracking implements domain.TrackingRepository with canned answers
type stubTracking struct {
	root    string
	found   bool
	findErr error
}

func (s *stubTracking) HasChanges(ctx context.Context) (bool, error) { return false, nil }
func (s *stubTracking) CommitAll(ctx context.Context, message string) (string, error) {
	return "", nil
}
func (s *stubTracking) HasMessageLine(ctx context.Context, line string) (bool, error) {
	return s.found, s.findErr
}
func (s *stubTracking) Root() string { return s.root }

func TestHistory_Processed(t *testing.T) {
	ctx := context.Background()

	t.Run("marker found", func(t *testing.T) {
		h := NewHistory(&stubTracking{found: true}, nil)
		processed, err := h.Processed(ctx, "v1.0.0")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("marker absent", func(t *testing.T) {
		h := NewHistory(&stubTracking{found: false}, nil)
		processed, err := h.Processed(ctx, "v1.0.0")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("search failure is fail-open", func(t *testing.T) {
		h := NewHistory(&stubTracking{findErr: domain.ErrNoHistory}, nil)
		processed, err := h.Processed(ctx, "v1.0.0")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("arbitrary failure is also fail-open", func(t *testing.T) {
		h := NewHistory(&stubTracking{findErr: errors.New("corrupt pack")}, nil)
		processed, err := h.Processed(ctx, "v1.0.0")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("mark and close are no-ops", func(t *testing.T) {
		h := NewHistory(&stubTracking{}, nil)
		assert.NoError(t, h.Mark(ctx, "v1.0.0"))
		assert.NoError(t, h.Close())
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unmarked tag is unprocessed", func(t *testing.T) {
		s, err := NewStore(StoreOptions{InMemory: true})
		require.NoError(t, err)
		defer s.Close()

		processed, err := s.Processed(ctx, "v0.1.0")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("mark then processed", func(t *testing.T) {
		s, err := NewStore(StoreOptions{InMemory: true})
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Mark(ctx, "v0.1.0"))

		processed, err := s.Processed(ctx, "v0.1.0")
		require.NoError(t, err)
		assert.True(t, processed)

		// Other tags unaffected
		processed, err = s.Processed(ctx, "v0.2.0")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("marks persist across reopen", func(t *testing.T) {
		dir := t.TempDir()

		s, err := NewStore(StoreOptions{Directory: dir})
		require.NoError(t, err)
		require.NoError(t, s.Mark(ctx, "v2.0.0"))
		require.NoError(t, s.Close())

		s, err = NewStore(StoreOptions{Directory: dir})
		require.NoError(t, err)
		defer s.Close()

		processed, err := s.Processed(ctx, "v2.0.0")
		require.NoError(t, err)
		assert.True(t, processed)
	})
}

func TestNew(t *testing.T) {
	tracking := &stubTracking{root: t.TempDir()}

	t.Run("history backend", func(t *testing.T) {
		led, err := New(config.LedgerConfig{Backend: config.LedgerHistory}, tracking, nil)
		require.NoError(t, err)
		defer led.Close()
		assert.IsType(t, &History{}, led)
	})

	t.Run("store backend", func(t *testing.T) {
		led, err := New(config.LedgerConfig{Backend: config.LedgerStore, Directory: t.TempDir()}, tracking, nil)
		require.NoError(t, err)
		defer led.Close()
		assert.IsType(t, &Store{}, led)
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		_, err := New(config.LedgerConfig{Backend: "csv"}, tracking, nil)
		assert.Error(t, err)
	})
}
