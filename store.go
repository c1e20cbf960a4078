package filestore

import (
	"sync"

	"github.com/mlflow-go/filestore/internal/meta"
)

// Store is a filesystem-backed tracking store for experiments, runs,
// params, metrics, and tags. It holds no in-memory cache of entities;
// every read reaches the filesystem, and it is safe for concurrent use
// from many goroutines.
type Store struct {
	root string
	opts storeOptions
	meta *meta.Codec

	// idMu serializes experiment-id allocation so concurrent
	// CreateExperiment calls don't race on the same candidate id; it
	// guards only id selection, not the resulting directory creation.
	idMu sync.Mutex
}

// NewStore returns a Store rooted at root, creating the default
// experiment if it does not already exist. root must be a directory
// (created if absent).
func NewStore(root string, opts ...Option) (*Store, error) {
	o := storeOptions{
		codecMaxRetries:         meta.DefaultMaxRetries,
		codecRetryBackoff:       meta.DefaultRetryBackoff,
		searchMaxResultsCeiling: maxSearchMaxResults,
	}
	for _, opt := range opts {
		opt.apply(&o)
	}

	if err := ensureDir(root); err != nil {
		return nil, errInternal(err, "failed to create store root %s", root)
	}

	s := &Store{
		root: root,
		opts: o,
		meta: &meta.Codec{MaxRetries: o.codecMaxRetries, RetryBackoff: o.codecRetryBackoff},
	}

	if err := s.ensureDefaultExperiment(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }
