package models

// SetupConfig represents the parsed setup.yaml configuration.
type SetupConfig struct {
	WorkspaceDir   string         `yaml:"workspace_dir" json:"workspace_dir"`
	ThemesDir      string         `yaml:"themes_dir" json:"themes_dir"`
	PermissionMode string         `yaml:"permission_mode" json:"permission_mode"`
	LogLevel       string         `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Upstream       UpstreamConfig `yaml:"upstream" json:"upstream"`
	Sage           SageConfig     `yaml:"sage" json:"sage"`
}

// UpstreamConfig describes where the workspace is provisioned from.
type UpstreamConfig struct {
	RepoURL      string `yaml:"repo_url" json:"repo_url"`
	Ref          string `yaml:"ref,omitempty" json:"ref,omitempty"`
	Depth        int    `yaml:"depth" json:"depth"` // default: 1 (shallow)
	ThemesSubdir string `yaml:"themes_subdir" json:"themes_subdir"`
}

// SageConfig describes the Sage starter theme setup.
type SageConfig struct {
	RepoURL   string   `yaml:"repo_url" json:"repo_url"`
	ThemeName string   `yaml:"theme_name" json:"theme_name"`
	Tools     []string `yaml:"tools,omitempty" json:"tools,omitempty"`
	Install   []string `yaml:"install,omitempty" json:"install,omitempty"`
}

// UpstreamManifest represents the parsed upstream.toml pin file. Fields set
// in the manifest override the corresponding upstream section of the config.
type UpstreamManifest struct {
	Version  string           `toml:"version"`
	Upstream ManifestUpstream `toml:"upstream"`
}

type ManifestUpstream struct {
	RepoURL      string `toml:"repo_url"`
	Ref          string `toml:"ref"`
	Depth        int    `toml:"depth"`
	ThemesSubdir string `toml:"themes_subdir"`
}
