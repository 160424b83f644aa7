package vcs

import (
	"fmt"

	git "github.com/go-git/go-git/v5"

	"github.com/raitses/stamp/internal/provenance"
)

// Library returns a query that opens the repository at root with go-git and
// reads HEAD. Parent directories are not searched, matching HasRepository.
func Library(root string) provenance.RevisionFunc {
	return func() (string, error) {
		repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
			EnableDotGitCommonDir: true,
		})
		if err != nil {
			return "", fmt.Errorf("failed to open repository: %w", err)
		}

		head, err := repo.Head()
		if err != nil {
			return "", fmt.Errorf("failed to read HEAD: %w", err)
		}

		return head.Hash().String(), nil
	}
}
