package pipeline

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/insetavijit/theme-env2.0/internal/fscopy"
	"github.com/insetavijit/theme-env2.0/internal/models"
	"github.com/insetavijit/theme-env2.0/internal/permissions"
	"github.com/insetavijit/theme-env2.0/internal/themes"
	"github.com/insetavijit/theme-env2.0/internal/util"
	"github.com/insetavijit/theme-env2.0/internal/workspace"
)

// TaskNames lists the selectors the dispatcher accepts, composite order
// first-to-last for "all".
var TaskNames = []string{"clone", "copy", "clean", "fixperms", "all"}

// IsTask reports whether name is a known selector.
func IsTask(name string) bool {
	return slices.Contains(TaskNames, name)
}

// Pipeline composes workspace provisioning, theme copying, cleanup and
// permission fixing into named tasks.
type Pipeline struct {
	cfg   models.SetupConfig
	ws    *workspace.Manager
	fixer permissions.Fixer
	mode  fs.FileMode
}

// Option overrides a default collaborator, letting tests substitute the
// upstream cloner and the permission fixer.
type Option func(*Pipeline)

// WithCloner replaces the git cloner used to provision the workspace.
func WithCloner(c workspace.Cloner) Option {
	return func(p *Pipeline) {
		p.ws = workspace.NewManagerWithCloner(p.cfg, c)
	}
}

// WithFixer replaces the host permission fixer.
func WithFixer(f permissions.Fixer) Option {
	return func(p *Pipeline) {
		p.fixer = f
	}
}

// New builds a pipeline from an explicit configuration, wiring default
// collaborators for the host.
func New(cfg models.SetupConfig, opts ...Option) (*Pipeline, error) {
	mode, err := util.ParseMode(cfg.PermissionMode)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:   cfg,
		ws:    workspace.NewManager(cfg),
		fixer: permissions.ForHost(),
		mode:  mode,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Clone provisions the workspace from upstream, removing a stale workspace
// first so the task is idempotent by self-repair.
func (p *Pipeline) Clone(ctx context.Context) error {
	return p.ws.MaterializeFromUpstream(ctx)
}

// CopyThemes copies each top-level theme from the workspace themes subtree
// into the themes root. A theme whose name already exists at the destination
// is skipped untouched, so re-running never clobbers customized themes.
func (p *Pipeline) CopyThemes(ctx context.Context) error {
	src := p.ws.ThemesDir()

	entries, err := themes.List(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.cfg.ThemesDir, 0755); err != nil {
		return models.Errorf(models.ErrCopyFailed, "creating themes root %s: %w", p.cfg.ThemesDir, err)
	}

	for _, entry := range entries {
		dst := filepath.Join(p.cfg.ThemesDir, entry.Name)
		if _, err := os.Stat(dst); err == nil {
			slog.Info("skipping existing theme", "name", entry.Name)
			continue
		}

		srcPath := filepath.Join(src, entry.Name)
		if entry.IsDir {
			err = fscopy.CopyTree(srcPath, dst)
		} else {
			err = fscopy.CopyFile(srcPath, dst)
		}
		if err != nil {
			return models.Errorf(models.ErrCopyFailed, "copying theme %s: %w", entry.Name, err)
		}

		slog.Info("copied theme", "name", entry.Name)
	}

	return nil
}

// Clean removes the workspace.
func (p *Pipeline) Clean(ctx context.Context) error {
	return p.ws.EnsureClean(ctx)
}

// FixPerms adjusts ownership and permissions on the themes root through the
// host fixer. Failures are reported as permission-fix errors; Run downgrades
// them to warnings.
func (p *Pipeline) FixPerms(ctx context.Context) error {
	slog.Info("fixing permissions", "path", p.cfg.ThemesDir, "fixer", p.fixer.Name(), "mode", p.cfg.PermissionMode)
	if err := p.fixer.Fix(ctx, p.cfg.ThemesDir, p.mode); err != nil {
		return models.Errorf(models.ErrPermissionFixFailed, "fixing permissions on %s: %w", p.cfg.ThemesDir, err)
	}
	return nil
}

type step struct {
	name  string
	run   func(context.Context) error
	fatal bool
}

func (p *Pipeline) steps(selector string) ([]step, bool) {
	switch selector {
	case "clone":
		return []step{{"clone", p.Clone, true}}, true
	case "copy":
		return []step{{"copy", p.CopyThemes, true}}, true
	case "clean":
		return []step{{"clean", p.Clean, true}}, true
	case "fixperms":
		return []step{{"fixperms", p.FixPerms, false}}, true
	case "all":
		return []step{
			{"clone", p.Clone, true},
			{"copy", p.CopyThemes, true},
			{"clean", p.Clean, true},
			{"fixperms", p.FixPerms, false},
		}, true
	}
	return nil, false
}

// Run executes the named task (or the composite "all") and returns its
// result record. The run is strictly sequential and aborts on the first hard
// failure; fixperms failures are downgraded to warnings and never abort.
func (p *Pipeline) Run(ctx context.Context, selector string) (*models.RunResult, error) {
	steps, ok := p.steps(selector)
	if !ok {
		return nil, models.Errorf(models.ErrUnknownSelector, "unknown task %q", selector)
	}

	result := &models.RunResult{
		Selector:  selector,
		State:     models.StateRunning,
		StartedAt: time.Now(),
	}
	defer func() {
		result.EndedAt = time.Now()
		result.TotalDurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	var runErr error
	for _, s := range steps {
		slog.Info("task start", "task", s.name)

		sr := models.StepResult{
			Task:      s.name,
			State:     models.StateRunning,
			StartedAt: time.Now(),
		}

		err := s.run(ctx)

		sr.EndedAt = time.Now()
		sr.DurationSec = sr.EndedAt.Sub(sr.StartedAt).Seconds()

		switch {
		case err == nil:
			sr.State = models.StateSucceeded
			slog.Info("task done", "task", s.name, "duration_sec", sr.DurationSec)
		case !s.fatal:
			sr.State = models.StateSucceeded
			sr.Warning = err.Error()
			slog.Warn("task failed (non-fatal)", "task", s.name, "error", err)
			err = nil
		default:
			sr.State = models.StateFailed
			sr.Error = asTaskError(err)
			slog.Error("task failed", "task", s.name, "error", err)
			runErr = err
		}

		result.Steps = append(result.Steps, sr)
		if runErr != nil {
			break
		}
	}

	if runErr != nil {
		result.State = models.StateFailed
		result.Error = asTaskError(runErr)
		return result, runErr
	}

	result.State = models.StateSucceeded
	return result, nil
}

func asTaskError(err error) *models.TaskError {
	if te, ok := err.(*models.TaskError); ok {
		return te
	}
	return &models.TaskError{
		Type:    models.Kind(err),
		Message: err.Error(),
		Err:     err,
	}
}
