package provenance

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revisionStub struct {
	out   string
	err   error
	calls int
}

func (s *revisionStub) run() (string, error) {
	s.calls++
	return s.out, s.err
}

func TestResolvePriorityOrder(t *testing.T) {
	git := &revisionStub{out: "ffffffffffffffffffffffffffffffffffffffff"}
	env := MapLookup(map[string]string{
		"GIT_COMMIT": "not-hex!!",
		"GITHUB_SHA": "cafebabe",
	})

	got := Resolve(env, true, git.run)

	assert.Equal(t, CommitHash("cafebabe"), got)
	assert.Zero(t, git.calls, "git must not run once an environment candidate is accepted")
}

func TestResolveFirstValidCandidateWins(t *testing.T) {
	env := MapLookup(map[string]string{
		"VERCEL_GIT_COMMIT_SHA": "1111111",
		"SOURCE_VERSION":        "2222222",
		"COMMIT_HASH":           "abc",
		"GIT_COMMIT":            "",
	})

	assert.Equal(t, CommitHash("2222222"), Resolve(env, false, nil))
}

func TestResolveNoRepositorySkipsGit(t *testing.T) {
	git := &revisionStub{out: "1234567890abcdef1234567890abcdef12345678"}

	got := Resolve(MapLookup(nil), false, git.run)

	assert.Equal(t, Unknown, got)
	assert.Zero(t, git.calls)
}

func TestResolveFromGit(t *testing.T) {
	git := &revisionStub{out: "1234567890ABCDEF1234567890abcdef12345678\n"}

	got := Resolve(MapLookup(map[string]string{}), true, git.run)

	assert.Equal(t, CommitHash("1234567890abcdef1234567890abcdef12345678"), got)
	assert.Equal(t, 1, git.calls)
}

func TestResolveGitFailureFallsBackToUnknown(t *testing.T) {
	tests := []struct {
		name string
		stub *revisionStub
	}{
		{"command error", &revisionStub{err: errors.New("exit status 128")}},
		{"empty output", &revisionStub{out: "\n"}},
		{"garbage output", &revisionStub{out: "fatal: not a git repository"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Unknown, Resolve(nil, true, tt.stub.run))
			assert.Equal(t, 1, tt.stub.calls)
		})
	}
}

func TestResolveNilRevisionFunc(t *testing.T) {
	assert.Equal(t, Unknown, Resolve(nil, true, nil))
}

func TestResolveIdempotent(t *testing.T) {
	env := MapLookup(map[string]string{"CI_COMMIT_SHA": "DEADBEEF"})
	git := &revisionStub{out: "0000000"}

	first := Resolve(env, true, git.run)
	second := Resolve(env, true, git.run)

	assert.Equal(t, first, second)
	assert.Equal(t, CommitHash("deadbeef"), first)
}

func TestExplain(t *testing.T) {
	env := MapLookup(map[string]string{
		"GIT_COMMIT":    "feature/login",
		"COMMIT_HASH":   "abc",
		"CI_COMMIT_SHA": "0123456789abcdef",
	})
	git := &revisionStub{out: "ffffffff"}

	hash, attempts := NewResolver(nil).Explain(env, true, git.run)

	require.Equal(t, CommitHash("0123456789abcdef"), hash)
	require.Len(t, attempts, len(EnvCandidates)+1)

	want := []Outcome{
		OutcomeRejected, // GIT_COMMIT
		OutcomeRejected, // COMMIT_HASH
		OutcomeAbsent,   // SOURCE_VERSION
		OutcomeAbsent,   // GITHUB_SHA
		OutcomeAccepted, // CI_COMMIT_SHA
		OutcomeSkipped,  // VERCEL_GIT_COMMIT_SHA
		OutcomeSkipped,  // git
	}
	for i, a := range attempts {
		assert.Equal(t, want[i], a.Outcome, a.Source)
	}
	assert.Equal(t, "env:GIT_COMMIT", attempts[0].Source)
	assert.Equal(t, "feature/login", attempts[0].Raw)
	assert.Equal(t, "git", attempts[6].Source)
	assert.Zero(t, git.calls)
}

func TestExplainGitFailure(t *testing.T) {
	git := &revisionStub{err: errors.New("git: executable file not found in $PATH")}

	hash, attempts := NewResolver(nil).Explain(MapLookup(nil), true, git.run)

	assert.Equal(t, Unknown, hash)
	last := attempts[len(attempts)-1]
	assert.Equal(t, OutcomeFailed, last.Outcome)
	assert.Contains(t, last.Detail, "not found")
}

func TestResolverLogsAttempts(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := MapLookup(map[string]string{"GITHUB_SHA": "cafebabe"})

	got := NewResolver(logger).Resolve(env, false, nil)

	assert.Equal(t, CommitHash("cafebabe"), got)
	assert.Contains(t, buf.String(), "source=env:GITHUB_SHA")
	assert.Contains(t, buf.String(), "hash=cafebabe")
}
