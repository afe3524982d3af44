package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrTagNotFound indicates a requested tag is absent from the source repository
	ErrTagNotFound = errors.New("tag not found")

	// ErrNoHistory indicates the tracking repository has no commits yet
	ErrNoHistory = errors.New("no commit history")

	// ErrBranchNotFound indicates the primary branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrRepoUnavailable indicates a repository path could not be opened
	ErrRepoUnavailable = errors.New("repository unavailable")
)

// Stage names for TagError
const (
	StageCheckout = "checkout"
	StageExtract  = "extract"
	StageCommit   = "commit"
	StageLedger   = "ledger"
)

// TagError wraps a failure from one stage of a single tag's iteration.
// The orchestrator catches these at the per-tag boundary and continues.
type TagError struct {
	Tag   string
	Stage string
	Err   error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s failed for tag %s: %v", e.Stage, e.Tag, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

// NewTagError creates a new TagError
func NewTagError(tag, stage string, err error) *TagError {
	return &TagError{Tag: tag, Stage: stage, Err: err}
}
