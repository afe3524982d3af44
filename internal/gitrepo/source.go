package gitrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/relforge/tagmirror/internal/domain"
)

// Ensure Source implements domain.SourceRepository
var _ domain.SourceRepository = (*Source)(nil)

// Source is a go-git backed handle on the external repository being sampled.
// Checkout moves its single working tree, so callers must not interleave
// operations from multiple goroutines or processes.
type Source struct {
	repo      *git.Repository
	root      string
	tagPrefix string
}

// SourceOptions contains options for opening a source repository
type SourceOptions struct {
	Path      string
	TagPrefix string
}

// OpenSource opens the source repository at the given path
func OpenSource(opts SourceOptions) (*Source, error) {
	repo, err := git.PlainOpen(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRepoUnavailable, opts.Path, err)
	}
	return &Source{
		repo:      repo,
		root:      opts.Path,
		tagPrefix: opts.TagPrefix,
	}, nil
}

// Root returns the working tree root path
func (s *Source) Root() string {
	return s.root
}

// Tags enumerates tags whose short name starts with the configured prefix,
// ordered by creation time, oldest first. The list is recomputed from
// current repository state on every call.
func (s *Source) Tags(ctx context.Context) ([]domain.VersionTag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter, err := s.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []domain.VersionTag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !strings.HasPrefix(name, s.tagPrefix) {
			return nil
		}
		hash, when, err := s.peel(ref)
		if err != nil {
			return fmt.Errorf("resolving tag %s: %w", name, err)
		}
		tags = append(tags, domain.VersionTag{
			Name: name,
			Hash: hash.String(),
			When: when,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].When.Before(tags[j].When)
	})

	return tags, nil
}

// CheckoutTag switches the working tree to the named tag, leaving HEAD
// detached. A dirty working tree fails the checkout.
func (s *Source) CheckoutTag(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ref, err := s.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrTagNotFound, name)
	}
	hash, _, err := s.peel(ref)
	if err != nil {
		return fmt.Errorf("resolving tag %s: %w", name, err)
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Hash: hash})
}

// CheckoutBranch returns the working tree to the named branch
func (s *Source) CheckoutBranch(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	branch := plumbing.NewBranchReferenceName(name)
	if _, err := s.repo.Reference(branch, true); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, name)
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Branch: branch})
}

// peel resolves a tag reference to its commit hash and creation time:
// tagger time for annotated tags, committer time for lightweight ones.
func (s *Source) peel(ref *plumbing.Reference) (plumbing.Hash, time.Time, error) {
	if tagObj, err := s.repo.TagObject(ref.Hash()); err == nil {
		commit, err := tagObj.Commit()
		if err != nil {
			return plumbing.ZeroHash, time.Time{}, err
		}
		return commit.Hash, tagObj.Tagger.When, nil
	}

	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return plumbing.ZeroHash, time.Time{}, err
	}
	return commit.Hash, commit.Committer.When, nil
}
