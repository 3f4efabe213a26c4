package driven

import "context"

// RepoInfo describes a repository as reported by its hosting service.
type RepoInfo struct {
	FullName      string
	Private       bool
	DefaultBranch string
}

// RepoHost queries the hosting service of a submission repository.
type RepoHost interface {
	// Lookup fetches repository metadata.
	// Returns domain.ErrNotFound when the repository is missing or not visible.
	Lookup(ctx context.Context, owner, repo string) (*RepoInfo, error)

	// ListBranches lists the repository's branch names.
	ListBranches(ctx context.Context, owner, repo string) ([]string, error)
}
