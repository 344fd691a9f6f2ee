package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithOptions_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := LoadWithOptions(LoadOptions{
		UserConfigPath:    filepath.Join(dir, "missing-user.yml"),
		ProjectConfigPath: writeFile(t, filepath.Join(dir, "empty.yml"), ""),
	})
	require.NoError(t, err)

	assert.Equal(t, &Configuration{
		VCSTool:           "git",
		Remover:           RemoverCommand,
		HeaderStrategy:    "project",
		FixedTitle:        "Newsbuilder",
		FixedFragmentsDir: "newsbuilder/topfiles",
		WrapWidth:         70,
	}, cfg)
}

func TestLoadWithOptions_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	user := writeFile(t, filepath.Join(dir, "user", "config.yml"),
		"vcs_tool: hg\nheader_prefix: Twisted\nwrap_width: 60\n")
	project := writeFile(t, filepath.Join(dir, "project", "config.yml"),
		"wrap_width: 72\nheader_strategy: fixed\n")

	cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: user, ProjectConfigPath: project})
	require.NoError(t, err)

	assert.Equal(t, "hg", cfg.VCSTool, "user config applies when project is silent")
	assert.Equal(t, "Twisted", cfg.HeaderPrefix)
	assert.Equal(t, 72, cfg.WrapWidth, "project config overrides user config")
	assert.Equal(t, "fixed", cfg.HeaderStrategy)
}

func TestLoadWithOptions_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, filepath.Join(dir, "config.yml"), "wrap_width: 72\nvcs_tool: bzr\n")

	t.Setenv("NEWSBUILDER_WRAP_WIDTH", "88")
	t.Setenv("NEWSBUILDER_REQUIRE_VCS", "true")
	t.Setenv("NEWSBUILDER_REMOVER", "go-git")

	cfg, err := LoadWithOptions(LoadOptions{
		UserConfigPath:    filepath.Join(dir, "none.yml"),
		ProjectConfigPath: project,
	})
	require.NoError(t, err)

	assert.Equal(t, 88, cfg.WrapWidth)
	assert.True(t, cfg.RequireVCS)
	assert.Equal(t, RemoverGoGit, cfg.Remover)
	assert.Equal(t, "bzr", cfg.VCSTool)
}

func TestLoad_UserConfigFromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, filepath.Join(xdg, "newsbuilder", "config.yml"), "fixed_title: Widget\n")

	project := writeFile(t, filepath.Join(t.TempDir(), "config.yml"), "")
	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "Widget", cfg.FixedTitle)
}

func TestLoadWithOptions_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	project := writeFile(t, filepath.Join(dir, "config.json"),
		`{"header_strategy": "fixed", "fixed_title": "Widget", "wrap_width": 79}`)

	cfg, err := LoadWithOptions(LoadOptions{
		UserConfigPath:    filepath.Join(dir, "none.yml"),
		ProjectConfigPath: project,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", cfg.HeaderStrategy)
	assert.Equal(t, "Widget", cfg.FixedTitle)
	assert.Equal(t, 79, cfg.WrapWidth)
}

func TestLoadWithOptions_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantLine  int
		wantMsg   string
	}{
		"invalid yaml syntax": {
			content:  "wrap_width: 70\nremover: [unclosed\n",
			wantLine: 3,
		},
		"unknown remover": {
			content:   "remover: svn\n",
			wantField: "remover",
			wantMsg:   "must be one of: command, go-git",
		},
		"unknown strategy": {
			content:   "header_strategy: weekly\n",
			wantField: "header_strategy",
			wantMsg:   "must be one of: project, fixed",
		},
		"width too small": {
			content:   "wrap_width: 3\n",
			wantField: "wrap_width",
			wantMsg:   "must be at least 10",
		},
		"empty vcs tool": {
			content:   "vcs_tool: \"\"\n",
			wantField: "vcs_tool",
			wantMsg:   "is required",
		},
		"absolute fixed fragments dir": {
			content:   "fixed_fragments_dir: /tmp/topfiles\n",
			wantField: "fixed_fragments_dir",
			wantMsg:   "must be relative to the repository",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			_, err := LoadWithOptions(LoadOptions{
				UserConfigPath:    filepath.Join(dir, "none.yml"),
				ProjectConfigPath: writeFile(t, filepath.Join(dir, "config.yml"), tt.content),
			})
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			if tt.wantLine > 0 {
				assert.Positive(t, verr.Line)
			}
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, verr.Field)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, verr.Message)
			}
		})
	}
}

func TestLoadWithOptions_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := LoadWithOptions(LoadOptions{
		UserConfigPath:    filepath.Join(dir, "none.yml"),
		ProjectConfigPath: filepath.Join(dir, "nope.yml"),
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultConfigTemplate(t *testing.T) {
	t.Parallel()

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(GetDefaultConfigTemplate()), &parsed))

	for key, want := range GetDefaults() {
		got, ok := parsed[key]
		if !assert.True(t, ok, "template is missing %s", key) {
			continue
		}
		assert.EqualValues(t, want, got, "template default for %s", key)
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with position": {
			err:  ValidationError{FilePath: "c.yml", Line: 2, Column: 5, Message: "bad"},
			want: "c.yml:2:5: bad",
		},
		"with field": {
			err:  ValidationError{FilePath: "c.yml", Field: "remover", Message: "bad"},
			want: "c.yml: field 'remover': bad",
		},
		"plain": {
			err:  ValidationError{FilePath: "c.yml", Message: "bad"},
			want: "c.yml: bad",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
