package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
	"github.com/custodia-labs/autoscore/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// ErrWatchUnavailable is returned when no change watcher is configured.
var ErrWatchUnavailable = errors.New("watch mode unavailable")

// WatchService re-grades a local checkout as it changes.
type WatchService struct {
	watcher driven.Watcher
}

// NewWatchService creates a watch service. watcher may be nil.
func NewWatchService(watcher driven.Watcher) *WatchService {
	return &WatchService{watcher: watcher}
}

// Watch calls fn once, then after every settled change below dir.
// Cancelling ctx ends the loop without error.
func (s *WatchService) Watch(ctx context.Context, dir string, fn func(ctx context.Context) error) error {
	if s.watcher == nil {
		return ErrWatchUnavailable
	}

	changes, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if err := fn(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("change detected: %s", path)
			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}
