package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/insetavijit/theme-env2.0/internal/models"
	"github.com/insetavijit/theme-env2.0/internal/util"
)

// DefaultSetupConfig returns a SetupConfig with default values. The defaults
// reproduce the original workflow: shallow-clone the official WordPress
// repository into temp-wp and copy its bundled themes into ./themes.
func DefaultSetupConfig() models.SetupConfig {
	return models.SetupConfig{
		WorkspaceDir:   "temp-wp",
		ThemesDir:      "themes",
		PermissionMode: "775",
		Upstream: models.UpstreamConfig{
			RepoURL:      "https://github.com/WordPress/WordPress.git",
			Depth:        1,
			ThemesSubdir: "wp-content/themes",
		},
		Sage: models.SageConfig{
			RepoURL:   "https://github.com/roots/sage.git",
			ThemeName: "sage",
			Tools:     []string{"git", "composer", "npm"},
			Install:   []string{"composer install", "npm install"},
		},
	}
}

// LoadSetupConfig loads and parses a setup.yaml file. A missing file is not
// an error: the defaults alone describe a complete setup.
func LoadSetupConfig(path string) (models.SetupConfig, error) {
	cfg := DefaultSetupConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading setup config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing setup config: %w", err)
	}

	// Apply defaults for missing values
	if cfg.WorkspaceDir == "" {
		cfg.WorkspaceDir = "temp-wp"
	}
	if cfg.ThemesDir == "" {
		cfg.ThemesDir = "themes"
	}
	if cfg.PermissionMode == "" {
		cfg.PermissionMode = "775"
	}
	if cfg.Upstream.RepoURL == "" {
		cfg.Upstream.RepoURL = "https://github.com/WordPress/WordPress.git"
	}
	if cfg.Upstream.Depth == 0 {
		cfg.Upstream.Depth = 1
	}
	if cfg.Upstream.ThemesSubdir == "" {
		cfg.Upstream.ThemesSubdir = "wp-content/themes"
	}
	if cfg.Sage.RepoURL == "" {
		cfg.Sage.RepoURL = "https://github.com/roots/sage.git"
	}
	if cfg.Sage.ThemeName == "" {
		cfg.Sage.ThemeName = "sage"
	}
	if len(cfg.Sage.Tools) == 0 {
		cfg.Sage.Tools = []string{"git", "composer", "npm"}
	}
	if len(cfg.Sage.Install) == 0 {
		cfg.Sage.Install = []string{"composer install", "npm install"}
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg models.SetupConfig) error {
	if _, err := util.ParseMode(cfg.PermissionMode); err != nil {
		return fmt.Errorf("permission_mode: %w", err)
	}
	if cfg.Upstream.Depth < 0 {
		return fmt.Errorf("upstream.depth must not be negative, got %d", cfg.Upstream.Depth)
	}
	if cfg.WorkspaceDir == cfg.ThemesDir {
		return fmt.Errorf("workspace_dir and themes_dir must differ (both %q)", cfg.WorkspaceDir)
	}
	return nil
}
