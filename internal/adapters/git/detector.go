// Package git reads the branch of the working directory using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/xvierd/dailo/internal/ports"
)

// ErrDetachedHead is returned when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

// openOptions walk up from the start directory to the enclosing
// repository and follow linked worktrees to their common dir.
var openOptions = &git.PlainOpenOptions{DetectDotGit: true, EnableDotGitCommonDir: true}

// Detector implements ports.BranchDetector using go-git.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

var _ ports.BranchDetector = (*Detector)(nil)

// CurrentBranch returns the short branch name of the repository that
// contains workingDir, or of the current directory when empty.
func (d *Detector) CurrentBranch(ctx context.Context, workingDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	repo, err := open(workingDir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// IsAvailable reports whether the current directory is inside a
// repository.
func (d *Detector) IsAvailable() bool {
	_, err := open("")
	return err == nil
}

func open(dir string) (*git.Repository, error) {
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	repo, err := git.PlainOpenWithOptions(dir, openOptions)
	if err != nil {
		return nil, fmt.Errorf("no git repository at %s: %w", dir, err)
	}
	return repo, nil
}
