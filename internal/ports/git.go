package ports

import "context"

// BranchDetector reads the git branch of a working directory.
// This is a driven port (implemented by adapters).
type BranchDetector interface {
	// CurrentBranch returns the short branch name of the repository
	// containing workingDir.
	CurrentBranch(ctx context.Context, workingDir string) (string, error)

	// IsAvailable reports whether the current directory is inside a repository.
	IsAvailable() bool
}
