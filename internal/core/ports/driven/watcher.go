package driven

import "context"

// Watcher reports changes below a directory tree.
type Watcher interface {
	// Watch emits one value per settled burst of changes below root.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, root string) (<-chan string, error)
}
