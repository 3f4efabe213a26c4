package driving

import "context"

// WatchService re-runs work whenever a directory tree changes.
type WatchService interface {
	// Watch calls fn once, then again after each settled change below dir,
	// until ctx is cancelled or fn fails.
	Watch(ctx context.Context, dir string, fn func(ctx context.Context) error) error
}
