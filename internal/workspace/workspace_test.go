package workspace_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/insetavijit/theme-env2.0/internal/models"
	"github.com/insetavijit/theme-env2.0/internal/workspace"
)

// fakeCloner writes a known upstream layout instead of running git.
type fakeCloner struct {
	calls int
	files map[string]string // relative path -> content
	err   error
}

func (c *fakeCloner) Clone(ctx context.Context, opts workspace.CloneOptions) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	for rel, content := range c.files {
		path := filepath.Join(opts.Dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func testConfig(t *testing.T) models.SetupConfig {
	t.Helper()
	root := t.TempDir()
	return models.SetupConfig{
		WorkspaceDir:   filepath.Join(root, "temp-wp"),
		ThemesDir:      filepath.Join(root, "themes"),
		PermissionMode: "775",
		Upstream: models.UpstreamConfig{
			RepoURL:      "https://example.com/wp.git",
			Depth:        1,
			ThemesSubdir: "wp-content/themes",
		},
	}
}

func TestEnsureCleanIdempotent(t *testing.T) {
	cfg := testConfig(t)
	m := workspace.NewManagerWithCloner(cfg, &fakeCloner{})

	if err := os.MkdirAll(filepath.Join(cfg.WorkspaceDir, "sub"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := m.EnsureClean(context.Background()); err != nil {
		t.Fatalf("first EnsureClean failed: %v", err)
	}

	if _, err := os.Stat(cfg.WorkspaceDir); !os.IsNotExist(err) {
		t.Error("workspace still present after EnsureClean")
	}

	// Second call on an absent workspace is a no-op and never raises.
	if err := m.EnsureClean(context.Background()); err != nil {
		t.Fatalf("second EnsureClean failed: %v", err)
	}
}

func TestMaterializeRemovesStaleWorkspace(t *testing.T) {
	cfg := testConfig(t)
	cloner := &fakeCloner{files: map[string]string{
		"wp-content/themes/twentytwentyfour/style.css": "body {}",
	}}
	m := workspace.NewManagerWithCloner(cfg, cloner)

	// Sentinel file in a stale workspace must be gone after materialize.
	marker := filepath.Join(cfg.WorkspaceDir, "stale-marker")
	if err := os.MkdirAll(cfg.WorkspaceDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(marker, []byte("stale"), 0644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	if err := m.MaterializeFromUpstream(context.Background()); err != nil {
		t.Fatalf("MaterializeFromUpstream failed: %v", err)
	}

	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("stale marker survived materialize")
	}

	if _, err := os.Stat(filepath.Join(m.ThemesDir(), "twentytwentyfour", "style.css")); err != nil {
		t.Errorf("upstream content missing after materialize: %v", err)
	}

	if cloner.calls != 1 {
		t.Errorf("expected 1 clone call, got %d", cloner.calls)
	}
}

func TestMaterializeWrapsCloneFailure(t *testing.T) {
	cfg := testConfig(t)
	m := workspace.NewManagerWithCloner(cfg, &fakeCloner{err: errors.New("remote unreachable")})

	err := m.MaterializeFromUpstream(context.Background())
	if err == nil {
		t.Fatal("expected error from failed clone")
	}

	if models.Kind(err) != models.ErrProvisioningFailed {
		t.Errorf("expected provisioning_failed, got %s", models.Kind(err))
	}
}

func TestThemesDir(t *testing.T) {
	cfg := testConfig(t)
	m := workspace.NewManagerWithCloner(cfg, &fakeCloner{})

	want := filepath.Join(cfg.WorkspaceDir, "wp-content", "themes")
	if got := m.ThemesDir(); got != want {
		t.Errorf("ThemesDir() = %s, want %s", got, want)
	}
}
