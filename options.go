package filestore

import "time"

// maxSearchMaxResults is the default implementation-chosen ceiling that
// ValidateMaxResults enforces on max_results. defaultSearchMaxResults is
// not applied anywhere: a search without max_results is rejected.
const (
	defaultSearchMaxResults = 1000
	maxSearchMaxResults     = 50000
)

// storeOptions holds the configurable knobs of a Store, each with a
// sensible zero-value default.
type storeOptions struct {
	defaultArtifactRootURI string
	codecMaxRetries         int
	codecRetryBackoff       time.Duration
	searchMaxResultsCeiling int
}

// Option configures a Store at construction time, following the same
// functional-options pattern as CreateOption/DeleteOption/GetOption.
type Option interface {
	apply(*storeOptions)
}

type optionFunc func(*storeOptions)

func (f optionFunc) apply(o *storeOptions) { f(o) }

// WithDefaultArtifactRoot sets the root URI new experiments derive their
// artifact_location from when the caller does not supply one explicitly.
func WithDefaultArtifactRoot(uri string) Option {
	return optionFunc(func(o *storeOptions) { o.defaultArtifactRootURI = uri })
}

// WithCodecRetryPolicy overrides the Metadata Codec's retry count and
// backoff between attempts when reading a transiently empty/unparseable
// document.
func WithCodecRetryPolicy(maxRetries int, backoff time.Duration) Option {
	return optionFunc(func(o *storeOptions) {
		o.codecMaxRetries = maxRetries
		o.codecRetryBackoff = backoff
	})
}

// WithSearchMaxResultsCeiling overrides the upper bound enforced on a
// caller-supplied max_results.
func WithSearchMaxResultsCeiling(n int) Option {
	return optionFunc(func(o *storeOptions) { o.searchMaxResultsCeiling = n })
}
