// Package gittest builds throwaway git repositories for tests, entirely
// in-process through go-git.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo wraps a temporary repository with fixture helpers. All methods fail
// the test on error.
type Repo struct {
	T    *testing.T
	Dir  string
	Repo *git.Repository
}

// Init creates a repository in a fresh temp directory with "main" as the
// default branch.
func Init(t *testing.T) *Repo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
		Bare:        false,
	})
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return &Repo{T: t, Dir: dir, Repo: repo}
}

// WriteFile writes content at a slash-separated path inside the worktree
func (r *Repo) WriteFile(path, content string) {
	r.T.Helper()
	full := filepath.Join(r.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		r.T.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		r.T.Fatalf("write %s: %v", path, err)
	}
}

// Commit stages the given paths and commits them at the given time
func (r *Repo) Commit(message string, when time.Time, paths ...string) plumbing.Hash {
	r.T.Helper()
	wt, err := r.Repo.Worktree()
	if err != nil {
		r.T.Fatalf("worktree: %v", err)
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			r.T.Fatalf("add %s: %v", p, err)
		}
	}
	sig := &object.Signature{Name: "fixture", Email: "fixture@example.com", When: when}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.T.Fatalf("commit: %v", err)
	}
	return hash
}

// CommitAll stages everything and commits at the given time
func (r *Repo) CommitAll(message string, when time.Time) plumbing.Hash {
	r.T.Helper()
	wt, err := r.Repo.Worktree()
	if err != nil {
		r.T.Fatalf("worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		r.T.Fatalf("add all: %v", err)
	}
	sig := &object.Signature{Name: "fixture", Email: "fixture@example.com", When: when}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.T.Fatalf("commit: %v", err)
	}
	return hash
}

// Tag creates a lightweight tag at the given commit
func (r *Repo) Tag(name string, hash plumbing.Hash) {
	r.T.Helper()
	if _, err := r.Repo.CreateTag(name, hash, nil); err != nil {
		r.T.Fatalf("tag %s: %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag at the given commit with the given
// tagger time
func (r *Repo) AnnotatedTag(name string, hash plumbing.Hash, when time.Time) {
	r.T.Helper()
	_, err := r.Repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "fixture", Email: "fixture@example.com", When: when},
		Message: name,
	})
	if err != nil {
		r.T.Fatalf("annotated tag %s: %v", name, err)
	}
}

// Head returns the current HEAD reference
func (r *Repo) Head() *plumbing.Reference {
	r.T.Helper()
	head, err := r.Repo.Head()
	if err != nil {
		r.T.Fatalf("head: %v", err)
	}
	return head
}

// CommitCount walks the log from HEAD and counts commits; zero for a
// repository without history
func (r *Repo) CommitCount() int {
	r.T.Helper()
	iter, err := r.Repo.Log(&git.LogOptions{})
	if err != nil {
		return 0
	}
	defer iter.Close()
	count := 0
	_ = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	return count
}

// ReadFile reads a slash-separated path from the worktree
func (r *Repo) ReadFile(path string) string {
	r.T.Helper()
	data, err := os.ReadFile(filepath.Join(r.Dir, filepath.FromSlash(path)))
	if err != nil {
		r.T.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
