// newsbuilder - NEWS file generation from per-ticket news fragments
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/newsbuilder

// Package config provides hierarchical configuration management for newsbuilder using koanf.
// Configuration is loaded with priority: environment variables > project config (.newsbuilder/config.yml)
// > user config (~/.config/newsbuilder/config.yml) > defaults. A project config ending in .json is
// parsed as JSON.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "NEWSBUILDER_"

// Remover kinds.
const (
	RemoverCommand = "command"
	RemoverGoGit   = "go-git"
)

// Configuration represents the newsbuilder CLI tool configuration
type Configuration struct {
	// VCSTool is the command invoked as "<vcs_tool> rm <path>" by the
	// command remover. It may carry leading options, split shell-style.
	VCSTool string `koanf:"vcs_tool" validate:"required"`
	// Remover selects how consumed fragments are deleted: "command" runs
	// VCSTool, "go-git" removes them in process.
	Remover string `koanf:"remover" validate:"oneof=command go-git"`
	// RequireVCS refuses to release a tree that is not a git working copy.
	RequireVCS bool `koanf:"require_vcs"`

	// HeaderStrategy is "project" (one entry per discovered project) or
	// "fixed" (one entry from fixed_fragments_dir).
	HeaderStrategy    string `koanf:"header_strategy" validate:"oneof=project fixed"`
	HeaderPrefix      string `koanf:"header_prefix"`
	FixedTitle        string `koanf:"fixed_title" validate:"required"`
	FixedFragmentsDir string `koanf:"fixed_fragments_dir" validate:"required"`

	WrapWidth int `koanf:"wrap_width" validate:"min=10,max=1000"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .newsbuilder/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if fileExists(userPath) {
		if err := loadConfigFile(k, userPath, "user"); err != nil {
			return nil, err
		}
	}

	projectPath := opts.ProjectConfigPath
	explicit := projectPath != ""
	if !explicit {
		projectPath = ProjectConfigPath()
	}
	if fileExists(projectPath) {
		if err := loadConfigFile(k, projectPath, "project"); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", projectPath, os.ErrNotExist)
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, projectPath)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadConfigFile validates and loads a YAML or JSON config file
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf, source string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: NEWSBUILDER_WRAP_WIDTH -> wrap_width
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
