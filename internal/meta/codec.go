// Package meta reads and writes the small YAML metadata documents that
// back experiments and runs (meta.yaml). A writer replaces the whole
// file; a reader that observes an empty or unparseable document retries
// a few times before giving up, since a concurrent writer may have been
// caught mid truncate-then-write.
package meta

import (
	"os"
	"time"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// DefaultMaxRetries and DefaultRetryBackoff are the retry policy a Codec
// uses unless overridden.
const (
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 5 * time.Millisecond
)

// Codec reads and writes metadata documents with retry-on-transient-read
// semantics.
type Codec struct {
	MaxRetries   int
	RetryBackoff time.Duration

	group singleflight.Group
}

// NewCodec returns a Codec with the default retry policy.
func NewCodec() *Codec {
	return &Codec{MaxRetries: DefaultMaxRetries, RetryBackoff: DefaultRetryBackoff}
}

// ReadError is returned when a document could not be read after
// exhausting the retry policy. It is always the result of either a
// missing file or a still-empty/unparseable file after retries.
type ReadError struct {
	Path    string
	NotExist bool
	cause   error
}

func (e *ReadError) Error() string {
	if e.NotExist {
		return "meta: " + e.Path + " does not exist"
	}
	return "meta: " + e.Path + " could not be read: " + e.cause.Error()
}

func (e *ReadError) Unwrap() error { return e.cause }

// Read unmarshals the YAML document at path into out. If the file does
// not exist, a *ReadError with NotExist=true is returned immediately (no
// retry: a missing file is not a transient condition). If the file
// exists but is empty or fails to parse, Read retries up to MaxRetries
// times with RetryBackoff between attempts before giving up.
//
// Concurrent reads of the same path are collapsed via singleflight so a
// burst of readers racing a writer's rewrite window perform one retry
// loop rather than one each.
func (c *Codec) Read(path string, out any) error {
	v, err, _ := c.group.Do(path, func() (any, error) {
		return c.readRetrying(path)
	})
	if err != nil {
		return err
	}
	return yaml.Unmarshal(v.([]byte), out)
}

func (c *Codec) readRetrying(path string) ([]byte, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	backoff := c.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &ReadError{Path: path, NotExist: true, cause: err}
			}
			lastErr = err
		} else if len(data) == 0 {
			lastErr = &emptyFileError{path: path}
		} else {
			var probe map[string]any
			if unmarshalErr := yaml.Unmarshal(data, &probe); unmarshalErr != nil {
				lastErr = unmarshalErr
			} else {
				return data, nil
			}
		}
		if attempt < maxRetries {
			time.Sleep(backoff)
		}
	}
	return nil, &ReadError{Path: path, cause: lastErr}
}

type emptyFileError struct{ path string }

func (e *emptyFileError) Error() string { return "meta: " + e.path + " is empty" }

// Write marshals in as YAML and replaces the contents of path in full.
// This is a truncate-then-write, not a rename-into-place: atomicity
// across crashes is best-effort, with readers relying on Read's retry
// policy to mask the write window.
func (c *Codec) Write(path string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
