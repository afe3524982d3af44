package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/relforge/tagmirror/internal/domain"
)

// Ensure Tracking implements domain.TrackingRepository
var _ domain.TrackingRepository = (*Tracking)(nil)

// Tracking is a go-git backed handle on the repository archival commits
// are written to.
type Tracking struct {
	repo        *git.Repository
	root        string
	authorName  string
	authorEmail string
}

// TrackingOptions contains options for opening a tracking repository
type TrackingOptions struct {
	Path        string
	AuthorName  string
	AuthorEmail string
}

// OpenTracking opens the tracking repository at the given path
func OpenTracking(opts TrackingOptions) (*Tracking, error) {
	repo, err := git.PlainOpen(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRepoUnavailable, opts.Path, err)
	}
	return &Tracking{
		repo:        repo,
		root:        opts.Path,
		authorName:  opts.AuthorName,
		authorEmail: opts.AuthorEmail,
	}, nil
}

// Root returns the working tree root path
func (t *Tracking) Root() string {
	return t.root
}

// HasChanges reports whether the working tree differs from the last commit
func (t *Tracking) HasChanges(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	wt, err := t.repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// CommitAll stages every change in the working tree and commits it with
// the given message, returning the new commit hash
func (t *Tracking) CommitAll(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	wt, err := t.repo.Worktree()
	if err != nil {
		return "", err
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("staging changes: %w", err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  t.authorName,
			Email: t.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}
	return hash.String(), nil
}

// HasMessageLine walks history from HEAD and reports whether any commit
// message contains a line exactly equal to line. A repository without
// history yields domain.ErrNoHistory.
func (t *Tracking) HasMessageLine(ctx context.Context, line string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	iter, err := t.repo.Log(&git.LogOptions{})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, domain.ErrNoHistory
		}
		return false, err
	}
	defer iter.Close()

	found := false
	err = iter.ForEach(func(c *object.Commit) error {
		for _, l := range strings.Split(c.Message, "\n") {
			if l == line {
				found = true
				return storer.ErrStop
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
