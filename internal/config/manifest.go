package config

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/insetavijit/theme-env2.0/internal/models"
)

// ManifestName is the well-known filename of the upstream pin manifest.
const ManifestName = "upstream.toml"

// ApplyUpstreamManifest loads an upstream.toml pin file from the given
// filesystem and overrides the upstream section of cfg with the fields the
// manifest defines. Undefined fields keep their configured values. Returns
// false when no manifest is present.
func ApplyUpstreamManifest(fsys fs.FS, cfg *models.SetupConfig) (bool, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", ManifestName, err)
	}

	var m models.UpstreamManifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", ManifestName, err)
	}

	if md.IsDefined("upstream", "repo_url") {
		cfg.Upstream.RepoURL = m.Upstream.RepoURL
	}
	if md.IsDefined("upstream", "ref") {
		cfg.Upstream.Ref = m.Upstream.Ref
	}
	if md.IsDefined("upstream", "depth") {
		cfg.Upstream.Depth = m.Upstream.Depth
	}
	if md.IsDefined("upstream", "themes_subdir") {
		cfg.Upstream.ThemesSubdir = m.Upstream.ThemesSubdir
	}

	return true, nil
}
