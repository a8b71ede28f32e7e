// Package config provides configuration management for skills-manager.
// It supports YAML or TOML configuration files, a .env file, environment
// variables, and sensible defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

// Config represents the complete skills-manager configuration.
type Config struct {
	// Paths locates the skills repository and the global install root
	Paths PathsConfig `json:"paths" yaml:"paths" toml:"paths"`

	// Server configures the local HTTP API
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`

	// Output configures display preferences
	Output OutputConfig `json:"output" yaml:"output" toml:"output"`
}

// PathsConfig holds filesystem locations. Paths may start with ~.
type PathsConfig struct {
	// SkillsRepo is the catalog root holding one directory per skill
	SkillsRepo string `json:"skills_repo" yaml:"skills_repo" toml:"skills_repo"`
	// GlobalSkills is where global installs go
	GlobalSkills string `json:"global_skills" yaml:"global_skills" toml:"global_skills"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `json:"host" yaml:"host" toml:"host"`
	Port int    `json:"port" yaml:"port" toml:"port"`
	// StaticDir, when set, is served at "/"
	StaticDir string `json:"static_dir" yaml:"static_dir" toml:"static_dir"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json, yaml, markdown)
	Format string `json:"format" yaml:"format" toml:"format"`
	// Color controls color output (auto, always, never)
	Color string `json:"color" yaml:"color" toml:"color"`
	// Progress shows a progress bar during installs
	Progress bool `json:"progress" yaml:"progress" toml:"progress"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			SkillsRepo:   util.DefaultRepoPath(),
			GlobalSkills: util.DefaultGlobalSkillsPath(),
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 3000,
		},
		Output: OutputConfig{
			Format:   "table",
			Color:    "auto",
			Progress: true,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path. Files ending in
// .toml are decoded as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path as YAML.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides. The path and port
// variables keep the names used by existing deployments.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SKILLS_REPO_PATH"); v != "" {
		c.Paths.SkillsRepo = v
	}
	if v := os.Getenv("GLOBAL_SKILLS_PATH"); v != "" {
		c.Paths.GlobalSkills = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	if v := os.Getenv("SKILLS_MANAGER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SKILLS_MANAGER_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("SKILLS_MANAGER_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("SKILLS_MANAGER_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("SKILLS_MANAGER_PROGRESS"); v != "" {
		c.Output.Progress = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// RepoPath returns the expanded skills repository path.
func (c *Config) RepoPath() string {
	return util.ExpandPath(c.Paths.SkillsRepo)
}

// GlobalPath returns the expanded global install root.
func (c *Config) GlobalPath() string {
	return util.ExpandPath(c.Paths.GlobalSkills)
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DestinationInfo describes one install destination.
type DestinationInfo struct {
	ID   model.Destination `json:"id" yaml:"id"`
	Name string            `json:"name" yaml:"name"`
	Path string            `json:"path" yaml:"path"`
}

// Destinations returns the install destinations. The project path is relative
// to whichever project is chosen at install time.
func (c *Config) Destinations() []DestinationInfo {
	return []DestinationInfo{
		{ID: model.DestinationGlobal, Name: "Global (OpenCode)", Path: c.GlobalPath()},
		{ID: model.DestinationProject, Name: "Project", Path: filepath.ToSlash(install.ProjectSubdir)},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() *validation.Result {
	r := validation.NewResult()

	if strings.TrimSpace(c.Paths.SkillsRepo) == "" {
		r.AddError(&validation.Error{Field: "paths.skills_repo", Message: "is required"})
	}
	if strings.TrimSpace(c.Paths.GlobalSkills) == "" {
		r.AddError(&validation.Error{Field: "paths.global_skills", Message: "is required"})
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		r.AddError(&validation.Error{Field: "server.port", Message: fmt.Sprintf("%d is out of range", c.Server.Port)})
	}
	switch c.Output.Color {
	case "", "auto", "always", "never":
	default:
		r.AddError(&validation.Error{Field: "output.color", Message: fmt.Sprintf("unknown value %q (valid: auto, always, never)", c.Output.Color)})
	}
	if r.Valid && c.RepoPath() == c.GlobalPath() {
		r.AddWarning("skills repository and global install root are the same directory")
	}

	return r
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
