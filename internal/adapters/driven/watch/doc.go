// Package watch implements driven.Watcher with fsnotify.
//
// fsnotify watches single directories, so the watcher adds every directory
// below the root and follows directories created later. Events are
// coalesced: a burst of writes produces one notification once the tree has
// been quiet for the debounce interval.
package watch
