package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultWorkspace = "default"

type Config struct {
	CurrentWorkspace string `yaml:"current_workspace,omitempty"`

	Log  LogConfig  `yaml:"log"`
	Tree TreeConfig `yaml:"tree"`
	TUI  TUIConfig  `yaml:"tui"`
}

type LogConfig struct {
	// Level is a zap level name (debug, info, warn, error). Empty means warn.
	Level string `yaml:"level,omitempty"`
	// File is an output path. Empty means the caller's default (stderr for the CLI).
	File string `yaml:"file,omitempty"`
}

type TreeConfig struct {
	// CompensateFailedReparent re-creates the old edge when a reparent's create step fails.
	CompensateFailedReparent bool `yaml:"compensate_failed_reparent"`
	// RevertExpandOnFailure undoes the local expand toggle when persisting it fails.
	RevertExpandOnFailure bool `yaml:"revert_expand_on_failure"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `yaml:"glyphs,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.shelf).
	if v := strings.TrimSpace(os.Getenv("SHELF_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shelf"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig returns the zero config when the file does not exist.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("save config: nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	// CLI and TUI may write concurrently; a unique temp name + rename keeps the file whole.
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid workspace name %q", name)
	}
	return name, nil
}

// ListWorkspaces returns the names under <config dir>/workspaces, sorted.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "workspaces"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// ResolveWorkspace picks the workspace name: explicit > config current > "default".
func ResolveWorkspace(explicit string, cfg *Config) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if cfg != nil {
		if v := strings.TrimSpace(cfg.CurrentWorkspace); v != "" {
			return v
		}
	}
	return DefaultWorkspace
}
