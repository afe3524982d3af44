package domain

import "context"

// SourceRepository is an owned handle on the external repository being
// sampled. Its checkout pointer is shared mutable state: every method that
// moves it affects all subsequent reads of the working tree.
type SourceRepository interface {
	// Tags enumerates release tags matching the configured prefix,
	// ordered by creation time, oldest first
	Tags(ctx context.Context) ([]VersionTag, error)
	// CheckoutTag switches the working tree to the named tag, detached
	CheckoutTag(ctx context.Context, name string) error
	// CheckoutBranch returns the working tree to the named branch
	CheckoutBranch(ctx context.Context, name string) error
	// Root returns the working tree root path
	Root() string
}

// TrackingRepository is the repository that archival commits are written to.
type TrackingRepository interface {
	// HasChanges reports whether the working tree differs from HEAD
	HasChanges(ctx context.Context) (bool, error)
	// CommitAll stages everything and commits with the given message,
	// returning the new commit hash
	CommitAll(ctx context.Context, message string) (string, error)
	// HasMessageLine reports whether any commit reachable from HEAD has a
	// message line exactly equal to line
	HasMessageLine(ctx context.Context, line string) (bool, error)
	// Root returns the working tree root path
	Root() string
}

// Ledger answers whether a tag has already been archived. Implementations
// are fail-open: an unreadable ledger reads as "not processed" so a fresh
// tracking repository can take its first tag.
type Ledger interface {
	// Processed reports whether the tag was already archived
	Processed(ctx context.Context, tag string) (bool, error)
	// Mark records the tag as archived after a commit was created
	Mark(ctx context.Context, tag string) error
	// Close releases ledger resources
	Close() error
}
