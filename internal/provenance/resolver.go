package provenance

import (
	"io"
	"log/slog"
)

// Resolver walks an ordered list of sources and returns the first commit
// hash that validates
type Resolver struct {
	Logger *slog.Logger
}

// NewResolver creates a resolver that logs each probe at debug level
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{Logger: logger}
}

// Sources returns the standard resolution order: every environment
// candidate, then version control
func Sources(env Lookup, hasRepository bool, revision RevisionFunc) []Source {
	sources := make([]Source, 0, len(EnvCandidates)+1)
	for _, key := range EnvCandidates {
		sources = append(sources, EnvSource(key, env))
	}
	return append(sources, GitSource(hasRepository, revision))
}

// Resolve determines the commit hash for a build. It never fails; when no
// source produces a valid hash the result is Unknown.
func (r *Resolver) Resolve(env Lookup, hasRepository bool, revision RevisionFunc) CommitHash {
	return r.First(Sources(env, hasRepository, revision))
}

// First probes sources in order and stops at the first accepted one
func (r *Resolver) First(sources []Source) CommitHash {
	for _, s := range sources {
		a := s.Probe()
		r.log(a)
		if a.Outcome == OutcomeAccepted {
			return a.Hash
		}
	}
	return Unknown
}

// Explain resolves like Resolve but returns a record for every source.
// Sources after the winner are reported as skipped without being probed.
func (r *Resolver) Explain(env Lookup, hasRepository bool, revision RevisionFunc) (CommitHash, []Attempt) {
	sources := Sources(env, hasRepository, revision)
	attempts := make([]Attempt, 0, len(sources))
	result := Unknown
	for _, s := range sources {
		if result != Unknown {
			attempts = append(attempts, Attempt{Source: s.Name(), Outcome: OutcomeSkipped, Detail: "earlier source accepted"})
			continue
		}
		a := s.Probe()
		r.log(a)
		if a.Outcome == OutcomeAccepted {
			result = a.Hash
		}
		attempts = append(attempts, a)
	}
	return result, attempts
}

func (r *Resolver) log(a Attempt) {
	logger := r.logger()
	if a.Outcome == OutcomeAccepted {
		logger.Debug("commit hash resolved", "source", a.Source, "hash", a.Hash)
		return
	}
	logger.Debug("commit hash source unusable", "source", a.Source, "outcome", a.Outcome, "detail", a.Detail)
}

func (r *Resolver) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return discard
	}
	return r.Logger
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Resolve determines the commit hash without logging
func Resolve(env Lookup, hasRepository bool, revision RevisionFunc) CommitHash {
	return (*Resolver)(nil).Resolve(env, hasRepository, revision)
}
