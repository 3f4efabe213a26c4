package driven

import "context"

// VCS runs version-control operations on submission repositories.
type VCS interface {
	// Clone clones url into dir.
	Clone(ctx context.Context, url, dir string) error

	// Checkout switches the working tree at dir to branch.
	Checkout(ctx context.Context, dir, branch string) error

	// Branches lists the branch names known to the repository at dir,
	// local and remote-tracking, without remote prefixes.
	Branches(ctx context.Context, dir string) ([]string, error)
}
