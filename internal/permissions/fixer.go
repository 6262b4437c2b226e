package permissions

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os/user"
	"runtime"

	"github.com/insetavijit/theme-env2.0/internal/execx"
)

// Fixer adjusts ownership and permissions on the themes root. Permission
// fixing is best-effort convenience: the pipeline treats a failure as a
// warning, never as an abort.
type Fixer interface {
	// Name returns the fixer name (e.g. "chown", "noop").
	Name() string

	// Fix recursively sets ownership to the invoking user and the
	// permission bits to mode on path.
	Fix(ctx context.Context, path string, mode fs.FileMode) error
}

// ForHost returns the fixer appropriate for the current OS. Hosts without
// Unix permission semantics get a no-op fixer.
func ForHost() Fixer {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		return ChownFixer{}
	default:
		return NoopFixer{}
	}
}

// ChownFixer shells out to chown and chmod.
type ChownFixer struct{}

func (ChownFixer) Name() string {
	return "chown"
}

func (ChownFixer) Fix(ctx context.Context, path string, mode fs.FileMode) error {
	u, err := user.Current()
	if err != nil {
		return fmt.Errorf("resolving current user: %w", err)
	}

	owner := fmt.Sprintf("%s:%s", u.Uid, u.Gid)
	if err := execx.Run(ctx, "", "chown", "-R", owner, path); err != nil {
		return err
	}

	return execx.Run(ctx, "", "chmod", "-R", fmt.Sprintf("%o", mode.Perm()), path)
}

// NoopFixer performs no filesystem mutations and never fails.
type NoopFixer struct{}

func (NoopFixer) Name() string {
	return "noop"
}

func (NoopFixer) Fix(ctx context.Context, path string, mode fs.FileMode) error {
	slog.Info("skipping permission fix on this host", "os", runtime.GOOS, "path", path)
	return nil
}
