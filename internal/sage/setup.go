package sage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/insetavijit/theme-env2.0/internal/execx"
	"github.com/insetavijit/theme-env2.0/internal/models"
	"github.com/insetavijit/theme-env2.0/internal/workspace"
)

// RunFunc executes an external command with a working directory override.
type RunFunc func(ctx context.Context, dir, name string, args ...string) error

// CaptureFunc executes an external command and returns its trimmed stdout.
type CaptureFunc func(ctx context.Context, dir, name string, args ...string) (string, error)

// Setup provisions the Sage starter theme under the themes root and installs
// its dependencies with composer and npm.
type Setup struct {
	cfg     models.SetupConfig
	cloner  workspace.Cloner
	run     RunFunc
	capture CaptureFunc
}

// New creates a Setup from the configuration, wiring the default git cloner
// and command runner.
func New(cfg models.SetupConfig) *Setup {
	return &Setup{
		cfg:     cfg,
		cloner:  workspace.GitCloner{},
		run:     execx.Run,
		capture: execx.Capture,
	}
}

// NewWithRunners creates a Setup with explicit collaborators for tests.
func NewWithRunners(cfg models.SetupConfig, cloner workspace.Cloner, run RunFunc, capture CaptureFunc) *Setup {
	return &Setup{cfg: cfg, cloner: cloner, run: run, capture: capture}
}

// Preflight verifies the required tools are on the host, probing them in
// parallel. A missing tool fails setup before any filesystem mutation.
func (s *Setup) Preflight(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, tool := range s.cfg.Sage.Tools {
		tool := tool
		g.Go(func() error {
			version, err := s.capture(ctx, "", tool, "--version")
			if err != nil {
				return models.Errorf(models.ErrProvisioningFailed, "required tool %s not available: %w", tool, err)
			}
			if i := strings.IndexByte(version, '\n'); i >= 0 {
				version = version[:i]
			}
			slog.Debug("tool available", "tool", tool, "version", version)
			return nil
		})
	}

	return g.Wait()
}

// Run performs preflight, theme checkout and dependency installs, strictly
// in that order.
func (s *Setup) Run(ctx context.Context) error {
	if err := s.Preflight(ctx); err != nil {
		return err
	}

	themeDir := filepath.Join(s.cfg.ThemesDir, s.cfg.Sage.ThemeName)
	if _, err := os.Stat(themeDir); err == nil {
		slog.Info("theme already present, skipping clone", "path", themeDir)
	} else {
		slog.Info("cloning starter theme", "url", s.cfg.Sage.RepoURL, "dest", themeDir)
		err := s.cloner.Clone(ctx, workspace.CloneOptions{
			URL:   s.cfg.Sage.RepoURL,
			Dest:  themeDir,
			Depth: 1,
		})
		if err != nil {
			return models.Errorf(models.ErrProvisioningFailed, "cloning %s: %w", s.cfg.Sage.RepoURL, err)
		}
	}

	for _, install := range s.cfg.Sage.Install {
		fields := strings.Fields(install)
		if len(fields) == 0 {
			continue
		}

		slog.Info("installing dependencies", "cmd", install, "dir", themeDir)
		if err := s.run(ctx, themeDir, fields[0], fields[1:]...); err != nil {
			return models.Errorf(models.ErrProvisioningFailed, "%s failed: %w", install, err)
		}
	}

	return nil
}
