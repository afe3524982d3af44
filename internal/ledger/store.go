package ledger

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/relforge/tagmirror/internal/domain"
)

// Ensure Store implements domain.Ledger
var _ domain.Ledger = (*Store)(nil)

const keyPrefix = "tag:"

// Store is a BadgerDB-backed processed-set. Mark is only called after a
// commit was actually created, so its verdicts track the history backend's.
type Store struct {
	db *badger.DB
}

// StoreOptions contains options for opening a store ledger
type StoreOptions struct {
	Directory string
	InMemory  bool
}

// NewStore opens (creating if needed) the processed-set database
func NewStore(opts StoreOptions) (*Store, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Processed reports whether the tag was marked in a previous run
func (s *Store) Processed(ctx context.Context, tag string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyPrefix + tag))
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Mark records the tag as archived, keyed by name, valued with the mark time
func (s *Store) Mark(ctx context.Context, tag string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		when := time.Now().UTC().Format(time.RFC3339)
		return txn.Set([]byte(keyPrefix+tag), []byte(when))
	})
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}
