package provenance

// EnvCandidates lists the environment variables consulted for a commit hash,
// highest priority first
var EnvCandidates = []string{
	"GIT_COMMIT",
	"COMMIT_HASH",
	"SOURCE_VERSION",
	"GITHUB_SHA",
	"CI_COMMIT_SHA",
	"VERCEL_GIT_COMMIT_SHA",
}

// Lookup reads a single environment variable. os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// MapLookup adapts a plain map to a Lookup
func MapLookup(env map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// RevisionFunc returns the full hash of the checked-out revision
type RevisionFunc func() (string, error)

// Outcome describes what happened when a source was consulted
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeAbsent   Outcome = "absent"
	OutcomeFailed   Outcome = "failed"
	OutcomeSkipped  Outcome = "skipped"
)

// Attempt records a single source probe
type Attempt struct {
	Source  string
	Raw     string
	Outcome Outcome
	Hash    CommitHash
	Detail  string
}

// Source is one strategy for obtaining a commit hash.
// Probe never fails; problems are reported through the Attempt.
type Source interface {
	Name() string
	Probe() Attempt
}

type envSource struct {
	key    string
	lookup Lookup
}

// EnvSource reads the commit hash from a single environment variable
func EnvSource(key string, lookup Lookup) Source {
	return envSource{key: key, lookup: lookup}
}

func (s envSource) Name() string { return "env:" + s.key }

func (s envSource) Probe() Attempt {
	a := Attempt{Source: s.Name()}
	if s.lookup == nil {
		a.Outcome = OutcomeAbsent
		return a
	}
	raw, ok := s.lookup(s.key)
	if !ok || raw == "" {
		a.Outcome = OutcomeAbsent
		return a
	}
	a.Raw = raw
	return accept(a, raw)
}

type gitSource struct {
	hasRepository bool
	revision      RevisionFunc
}

// GitSource asks version control for the checked-out revision.
// revision is not called when hasRepository is false.
func GitSource(hasRepository bool, revision RevisionFunc) Source {
	return gitSource{hasRepository: hasRepository, revision: revision}
}

func (s gitSource) Name() string { return "git" }

func (s gitSource) Probe() Attempt {
	a := Attempt{Source: s.Name()}
	if !s.hasRepository {
		a.Outcome = OutcomeSkipped
		a.Detail = "no repository"
		return a
	}
	if s.revision == nil {
		a.Outcome = OutcomeSkipped
		a.Detail = "no revision query"
		return a
	}
	out, err := s.revision()
	if err != nil {
		a.Outcome = OutcomeFailed
		a.Detail = err.Error()
		return a
	}
	a.Raw = out
	return accept(a, out)
}

func accept(a Attempt, raw string) Attempt {
	hash, ok := Normalize(raw)
	if !ok {
		a.Outcome = OutcomeRejected
		a.Detail = "not a hex commit hash"
		return a
	}
	a.Outcome = OutcomeAccepted
	a.Hash = hash
	return a
}
