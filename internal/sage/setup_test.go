package sage_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/insetavijit/theme-env2.0/internal/models"
	"github.com/insetavijit/theme-env2.0/internal/sage"
	"github.com/insetavijit/theme-env2.0/internal/workspace"
)

type fakeCloner struct {
	calls int
}

func (c *fakeCloner) Clone(ctx context.Context, opts workspace.CloneOptions) error {
	c.calls++
	return os.MkdirAll(opts.Dest, 0755)
}

// commandLog records every run invocation as "dir|name args...".
type commandLog struct {
	commands []string
	failOn   string
}

func (l *commandLog) run(ctx context.Context, dir, name string, args ...string) error {
	cmd := strings.TrimSpace(name + " " + strings.Join(args, " "))
	l.commands = append(l.commands, dir+"|"+cmd)
	if l.failOn != "" && strings.HasPrefix(cmd, l.failOn) {
		return errors.New("exit status 1")
	}
	return nil
}

func okCapture(ctx context.Context, dir, name string, args ...string) (string, error) {
	return name + " version 1.0.0", nil
}

func testConfig(t *testing.T) models.SetupConfig {
	t.Helper()
	return models.SetupConfig{
		WorkspaceDir:   filepath.Join(t.TempDir(), "temp-wp"),
		ThemesDir:      t.TempDir(),
		PermissionMode: "775",
		Sage: models.SageConfig{
			RepoURL:   "https://example.com/sage.git",
			ThemeName: "sage",
			Tools:     []string{"git", "composer", "npm"},
			Install:   []string{"composer install", "npm install"},
		},
	}
}

func TestRunClonesAndInstalls(t *testing.T) {
	cfg := testConfig(t)
	cloner := &fakeCloner{}
	log := &commandLog{}

	s := sage.NewWithRunners(cfg, cloner, log.run, okCapture)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cloner.calls != 1 {
		t.Errorf("expected 1 clone, got %d", cloner.calls)
	}

	themeDir := filepath.Join(cfg.ThemesDir, "sage")
	want := []string{
		themeDir + "|composer install",
		themeDir + "|npm install",
	}
	if len(log.commands) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), log.commands)
	}
	for i, w := range want {
		if log.commands[i] != w {
			t.Errorf("command %d: got %q, want %q", i, log.commands[i], w)
		}
	}
}

func TestRunSkipsExistingTheme(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(filepath.Join(cfg.ThemesDir, "sage"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cloner := &fakeCloner{}
	log := &commandLog{}

	s := sage.NewWithRunners(cfg, cloner, log.run, okCapture)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cloner.calls != 0 {
		t.Errorf("expected clone skipped for existing theme, got %d calls", cloner.calls)
	}

	if len(log.commands) != 2 {
		t.Errorf("expected installs to run, got %v", log.commands)
	}
}

func TestPreflightFailsOnMissingTool(t *testing.T) {
	cfg := testConfig(t)
	cloner := &fakeCloner{}
	log := &commandLog{}

	missingCapture := func(ctx context.Context, dir, name string, args ...string) (string, error) {
		if name == "composer" {
			return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
		}
		return name + " version 1.0.0", nil
	}

	s := sage.NewWithRunners(cfg, cloner, log.run, missingCapture)
	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected preflight failure")
	}

	if models.Kind(err) != models.ErrProvisioningFailed {
		t.Errorf("expected provisioning_failed, got %s", models.Kind(err))
	}

	// Preflight fails before any mutation
	if cloner.calls != 0 || len(log.commands) != 0 {
		t.Errorf("mutations happened despite preflight failure: clones=%d commands=%v", cloner.calls, log.commands)
	}
}

func TestRunAbortsOnInstallFailure(t *testing.T) {
	cfg := testConfig(t)
	log := &commandLog{failOn: "composer"}

	s := sage.NewWithRunners(cfg, &fakeCloner{}, log.run, okCapture)
	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected install failure")
	}

	if models.Kind(err) != models.ErrProvisioningFailed {
		t.Errorf("expected provisioning_failed, got %s", models.Kind(err))
	}

	// npm install never ran after composer failed
	if len(log.commands) != 1 {
		t.Errorf("expected abort after first install failure, got %v", log.commands)
	}
}
