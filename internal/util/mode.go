package util

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// ParseMode converts an octal permission string (e.g. "775", "0755") to a
// file mode. If the string is empty, it returns an error.
func ParseMode(mode string) (fs.FileMode, error) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return 0, fmt.Errorf("empty permission mode")
	}

	mode = strings.TrimPrefix(mode, "0o")
	n, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid permission mode %q: %w", mode, err)
	}
	if n > 0o777 {
		return 0, fmt.Errorf("permission mode %q out of range", mode)
	}

	return fs.FileMode(n), nil
}
