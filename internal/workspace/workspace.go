package workspace

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/insetavijit/theme-env2.0/internal/execx"
	"github.com/insetavijit/theme-env2.0/internal/models"
)

// CloneOptions configures an upstream clone.
type CloneOptions struct {
	URL   string
	Dest  string
	Depth int    // 0 means full clone
	Ref   string // optional commit/branch/tag to check out after cloning
}

// Cloner fetches an upstream repository into a destination path.
type Cloner interface {
	Clone(ctx context.Context, opts CloneOptions) error
}

// GitCloner shells out to git for clones. When a ref is pinned the shallow
// depth is ignored, since the ref may not be reachable in a shallow clone.
type GitCloner struct{}

func (GitCloner) Clone(ctx context.Context, opts CloneOptions) error {
	args := []string{"clone"}
	if opts.Depth > 0 && opts.Ref == "" {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	args = append(args, opts.URL, opts.Dest)

	if err := execx.Run(ctx, "", "git", args...); err != nil {
		return err
	}

	if opts.Ref != "" {
		if err := execx.Run(ctx, opts.Dest, "git", "checkout", opts.Ref); err != nil {
			return err
		}
	}

	return nil
}

// Manager owns the temporary workspace used as a staging area for the
// freshly fetched upstream copy. At most one workspace exists at a time.
type Manager struct {
	path     string
	upstream models.UpstreamConfig
	cloner   Cloner
}

// NewManager creates a workspace manager from the setup configuration,
// wiring the default git cloner.
func NewManager(cfg models.SetupConfig) *Manager {
	return NewManagerWithCloner(cfg, GitCloner{})
}

// NewManagerWithCloner creates a workspace manager with an explicit cloner,
// letting tests substitute the upstream fetch.
func NewManagerWithCloner(cfg models.SetupConfig, cloner Cloner) *Manager {
	return &Manager{
		path:     cfg.WorkspaceDir,
		upstream: cfg.Upstream,
		cloner:   cloner,
	}
}

// Path returns the workspace path.
func (m *Manager) Path() string {
	return m.path
}

// ThemesDir returns the themes subtree inside the workspace.
func (m *Manager) ThemesDir() string {
	return filepath.Join(m.path, filepath.FromSlash(m.upstream.ThemesSubdir))
}

// EnsureClean deletes the workspace recursively if present. A workspace that
// is already absent (or vanished between check and delete) is not an error.
func (m *Manager) EnsureClean(ctx context.Context) error {
	if _, err := os.Stat(m.path); os.IsNotExist(err) {
		slog.Info("workspace already absent", "path", m.path)
		return nil
	}

	slog.Info("removing workspace", "path", m.path)
	if err := os.RemoveAll(m.path); err != nil {
		return models.Errorf(models.ErrCleanFailed, "removing workspace %s: %w", m.path, err)
	}

	return nil
}

// MaterializeFromUpstream clones the upstream repository into the workspace
// path. A stale workspace is removed first as a self-repair step. The clone
// is not retried on failure.
func (m *Manager) MaterializeFromUpstream(ctx context.Context) error {
	if _, err := os.Stat(m.path); err == nil {
		slog.Warn("stale workspace found, removing before clone", "path", m.path)
		if err := m.EnsureClean(ctx); err != nil {
			return err
		}
	}

	slog.Info("cloning upstream",
		"url", m.upstream.RepoURL,
		"dest", m.path,
		"depth", m.upstream.Depth,
		"ref", m.upstream.Ref)

	err := m.cloner.Clone(ctx, CloneOptions{
		URL:   m.upstream.RepoURL,
		Dest:  m.path,
		Depth: m.upstream.Depth,
		Ref:   m.upstream.Ref,
	})
	if err != nil {
		return models.Errorf(models.ErrProvisioningFailed, "cloning %s: %w", m.upstream.RepoURL, err)
	}

	return nil
}
