package themes

import (
	"fmt"
	"os"

	"github.com/insetavijit/theme-env2.0/internal/models"
)

// Entry is a top-level item found under a themes tree.
type Entry struct {
	Name  string
	IsDir bool
}

// List enumerates the top-level entries under dir. An absent directory is
// reported as a source-not-found failure, which the copy task surfaces when
// the workspace was never provisioned or the upstream layout changed.
func List(dir string) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.Errorf(models.ErrSourceNotFound, "themes source not found: %s", dir)
		}
		return nil, fmt.Errorf("reading themes directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, Entry{Name: d.Name(), IsDir: d.IsDir()})
	}

	return entries, nil
}
