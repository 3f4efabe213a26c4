package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
	"github.com/custodia-labs/autoscore/internal/logger"
)

// Ensure Git implements the interface.
var _ driven.VCS = (*Git)(nil)

// Git runs git commands.
type Git struct {
	binary string
	env    []string
}

// New creates a runner for the git binary on PATH. Credential prompts are
// disabled so a private repository fails instead of waiting for input.
func New() *Git {
	return &Git{
		binary: "git",
		env:    append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GCM_INTERACTIVE=never"),
	}
}

// Clone clones url into dir. A previous clone at dir is replaced; any other
// existing content is left alone and reported as an error.
func (g *Git) Clone(ctx context.Context, url, dir string) error {
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() || !isRepo(dir) {
			return fmt.Errorf("clone %s: %s exists and is not a previous clone: %w", url, dir, domain.ErrCloneFailed)
		}
		logger.Debug("git: removing previous clone at %s", dir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clone %s: %w", url, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}

	if _, err := g.run(ctx, "", "clone", "--quiet", url, dir); err != nil {
		return fmt.Errorf("clone %s: %w: %w", url, domain.ErrCloneFailed, err)
	}
	return nil
}

// Checkout switches the working tree at dir to branch, creating a local
// tracking branch from origin when needed.
func (g *Git) Checkout(ctx context.Context, dir, branch string) error {
	if _, err := g.run(ctx, dir, "checkout", "--quiet", branch); err != nil {
		if strings.Contains(err.Error(), "did not match any") {
			err = fmt.Errorf("%w: %w", domain.ErrBranchNotFound, err)
		}
		return fmt.Errorf("checkout %s: %w: %w", branch, domain.ErrCheckoutFailed, err)
	}
	return nil
}

// Branches lists local and remote-tracking branch names without remote
// prefixes, in ref order and without duplicates.
func (g *Git) Branches(ctx context.Context, dir string) ([]string, error) {
	out, err := g.run(ctx, dir, "for-each-ref", "--format=%(refname)", "refs/heads", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return parseRefs(out), nil
}

// run executes git with args in dir and returns stdout. Stderr is folded
// into the error.
func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	logger.Debug("git %s (in %q)", strings.Join(args, " "), dir)

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = dir
	cmd.Env = g.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", err
		}
		return "", fmt.Errorf("%w: %s", err, msg)
	}

	return stdout.String(), nil
}

// parseRefs turns full ref names into branch names, dropping remote HEAD
// pointers.
func parseRefs(out string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(out, "\n") {
		ref := strings.TrimSpace(line)
		var name string
		switch {
		case strings.HasPrefix(ref, "refs/heads/"):
			name = strings.TrimPrefix(ref, "refs/heads/")
		case strings.HasPrefix(ref, "refs/remotes/"):
			_, rest, ok := strings.Cut(strings.TrimPrefix(ref, "refs/remotes/"), "/")
			if !ok {
				continue
			}
			name = rest
		default:
			continue
		}

		if name == "" || name == "HEAD" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

func isRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return !errors.Is(err, os.ErrNotExist)
}
