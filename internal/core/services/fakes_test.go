package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
)

var errUnreadable = errors.New("permission denied")

// fakeFS is an in-memory driven.FileSystem keyed by cleaned paths.
type fakeFS struct {
	dirs       map[string][]domain.Entry
	files      map[string]int64
	unreadable map[string]bool
	count      int
}

var _ driven.FileSystem = (*fakeFS)(nil)

func newFakeFS() *fakeFS {
	return &fakeFS{
		dirs:       make(map[string][]domain.Entry),
		files:      make(map[string]int64),
		unreadable: make(map[string]bool),
	}
}

// addFile registers a file and every parent directory entry leading to it.
func (f *fakeFS) addFile(path string, size int64) {
	path = filepath.Clean(path)
	f.files[path] = size
	f.link(path, false)
}

func (f *fakeFS) addDir(path string) {
	path = filepath.Clean(path)
	if _, ok := f.dirs[path]; !ok {
		f.dirs[path] = nil
	}
	f.link(path, true)
}

func (f *fakeFS) link(path string, isDir bool) {
	for {
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		name := filepath.Base(path)
		found := false
		for _, e := range f.dirs[parent] {
			if e.Name == name {
				found = true
				break
			}
		}
		if !found {
			f.dirs[parent] = append(f.dirs[parent], domain.Entry{Name: name, IsDir: isDir})
		}
		path, isDir = parent, true
	}
}

func (f *fakeFS) Exists(path string) bool {
	return f.IsDir(path) || f.IsFile(path)
}

func (f *fakeFS) IsDir(path string) bool {
	_, ok := f.dirs[filepath.Clean(path)]
	return ok
}

func (f *fakeFS) IsFile(path string) bool {
	_, ok := f.files[filepath.Clean(path)]
	return ok
}

func (f *fakeFS) Size(path string) (int64, error) {
	size, ok := f.files[filepath.Clean(path)]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return size, nil
}

func (f *fakeFS) ListEntries(dir string) ([]domain.Entry, error) {
	dir = filepath.Clean(dir)
	if f.unreadable[dir] {
		return nil, errUnreadable
	}
	entries, ok := f.dirs[dir]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return entries, nil
}

func (f *fakeFS) CountEntries(string) int {
	return f.count
}

// fakeVCS records calls and serves canned results.
type fakeVCS struct {
	mu          sync.Mutex
	cloneErr    error
	onClone     func(dir string)
	branches    []string
	branchesErr error
	checkoutErr map[string]error
	checkouts   []string
	clones      []string
}

var _ driven.VCS = (*fakeVCS)(nil)

func (v *fakeVCS) Clone(_ context.Context, url, dir string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clones = append(v.clones, url+" -> "+dir)
	if v.cloneErr != nil {
		return v.cloneErr
	}
	if v.onClone != nil {
		v.onClone(dir)
	}
	return nil
}

func (v *fakeVCS) Checkout(_ context.Context, _, branch string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.checkouts = append(v.checkouts, branch)
	return v.checkoutErr[branch]
}

func (v *fakeVCS) Branches(context.Context, string) ([]string, error) {
	return v.branches, v.branchesErr
}

// fakeHost serves canned repository metadata.
type fakeHost struct {
	info     *driven.RepoInfo
	err      error
	branches []string
}

var _ driven.RepoHost = (*fakeHost)(nil)

func (h *fakeHost) Lookup(context.Context, string, string) (*driven.RepoInfo, error) {
	return h.info, h.err
}

func (h *fakeHost) ListBranches(context.Context, string, string) ([]string, error) {
	return h.branches, h.err
}
