package core

import "context"

// CandidateSource is one discovery strategy. Sources run in a fixed,
// audited priority order; they are not a runtime extension point.
// A source that finds nothing returns an empty slice and a nil error;
// probe failures are swallowed inside the source.
type CandidateSource interface {
	// Name identifies the source in logs and diagnostics
	Name() string

	// Tier is the precedence tier candidates from this source carry
	Tier() OriginTier

	// Candidates yields every interpreter this source can discover
	Candidates(ctx context.Context) ([]Interpreter, error)
}

// Prober introspects an interpreter binary for its version and architecture
type Prober interface {
	// Probe inspects the binary at path. Version may require spawning
	// the interpreter once; architecture is read from the file header.
	Probe(ctx context.Context, path string) (Version, Architecture, error)
}

// ProbeStore persists probe results between invocations so repeated
// launches do not re-spawn interpreters whose binaries have not changed
type ProbeStore interface {
	// Get returns the cached result for a binary identified by path,
	// modification time (ns) and size; ok is false on miss or staleness.
	Get(ctx context.Context, path string, mtimeNs, size int64) (Version, Architecture, bool)

	// Put records a probe result, replacing any stale row for the path
	Put(ctx context.Context, path string, mtimeNs, size int64, v Version, arch Architecture) error

	// Prune drops rows whose binaries no longer exist
	Prune(ctx context.Context) (int, error)

	// Close releases the underlying store
	Close() error
}
