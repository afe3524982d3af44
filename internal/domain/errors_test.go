package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagError(t *testing.T) {
	t.Run("message includes stage and tag", func(t *testing.T) {
		err := NewTagError("v1.2.3", StageCheckout, errors.New("dirty worktree"))
		assert.Equal(t, "checkout failed for tag v1.2.3: dirty worktree", err.Error())
	})

	t.Run("unwraps to the cause", func(t *testing.T) {
		cause := ErrTagNotFound
		err := NewTagError("v9.9.9", StageLedger, cause)
		assert.True(t, errors.Is(err, ErrTagNotFound))
	})

	t.Run("errors.As finds the typed error", func(t *testing.T) {
		var tagErr *TagError
		wrapped := NewTagError("v0.1.0", StageCommit, errors.New("boom"))
		require.True(t, errors.As(error(wrapped), &tagErr))
		assert.Equal(t, "v0.1.0", tagErr.Tag)
		assert.Equal(t, StageCommit, tagErr.Stage)
	})
}
