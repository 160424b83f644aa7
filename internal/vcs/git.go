// Package vcs answers "which revision is checked out" for a project root.
package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/raitses/stamp/internal/provenance"
)

const (
	// BackendExec shells out to the git binary
	BackendExec = "exec"

	// BackendLibrary reads the repository in-process with go-git
	BackendLibrary = "go-git"
)

// ErrUnknownBackend is returned for a backend name that is not supported
var ErrUnknownBackend = errors.New("unknown git backend")

// Backends lists the supported backend names
func Backends() []string {
	return []string{BackendExec, BackendLibrary}
}

// HasRepository reports whether root holds repository metadata.
// Worktrees and submodules use a .git file instead of a directory; both count.
func HasRepository(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

// ForBackend returns the revision query for the named backend
func ForBackend(name, root string) (provenance.RevisionFunc, error) {
	switch name {
	case "", BackendExec:
		return Exec(root), nil
	case BackendLibrary:
		return Library(root), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// command runs git; replaced in tests
var command = func(dir string, args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	return cmd
}

// Exec returns a query running `git rev-parse HEAD` in root.
// Standard error is discarded; a launch failure or non-zero exit is an error.
func Exec(root string) provenance.RevisionFunc {
	return func() (string, error) {
		cmd := command(root, "rev-parse", "HEAD")
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = io.Discard
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("git rev-parse HEAD: %w", err)
		}
		out := stdout.String()
		if strings.TrimSpace(out) == "" {
			return "", errors.New("git rev-parse HEAD: empty output")
		}
		return out, nil
	}
}
