// Package filestore implements a filesystem-backed tracking store for
// machine-learning experiment metadata: experiments, runs, params,
// metrics (with full history), and tags. The store keeps no in-memory
// cache; every operation reads through to a directory tree of small
// metadata documents and per-key leaf files, described in full in
// internal/path.
package filestore
