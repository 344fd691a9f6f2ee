package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ariel-frischer/newsbuilder/internal/pyversion"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestProjects_Table(t *testing.T) {
	root := fakeRepository(t)

	stdout, stderr, code := execute(t, "projects", root)
	require.Equal(t, ExitSuccess, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4, "header, separator and one row per project:\n%s", stdout)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[0], "Version")
	assert.Contains(t, lines[2], "Conch")
	assert.Contains(t, lines[2], "3.4.5")
	assert.Contains(t, lines[3], "Core")
	assert.Contains(t, lines[3], "1.2.3")
}

func TestProjects_YAML(t *testing.T) {
	root := fakeRepository(t)

	stdout, stderr, code := execute(t, "projects", "--yaml", root)
	require.Equal(t, ExitSuccess, code, stderr)

	var got []projectInfo
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	want := []projectInfo{
		{Name: "Conch", Version: "3.4.5", Path: "conch"},
		{Name: "Core", Version: "1.2.3", Path: "."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("projects --yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestProjects_Empty(t *testing.T) {
	stdout, stderr, code := execute(t, "projects", t.TempDir())
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "No projects found.\n", stdout)
}

func TestProjects_MissingVersionFile(t *testing.T) {
	root := fakeRepository(t)
	require.NoError(t, os.Remove(filepath.Join(root, "conch", "_version.py")))

	_, stderr, code := execute(t, "projects", root)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Error [Prerequisite Error]: no readable _version.py in")
	assert.Contains(t, stderr, "newsbuilder set-version")
}

func TestSetVersion(t *testing.T) {
	tests := map[string]struct {
		args       []string
		wantStdout string
		want       pyversion.Version
		wantReadme string
	}{
		"final release": {
			args:       []string{"10.1.0"},
			wantStdout: "Conch is now 10.1.0\n",
			want:       pyversion.New("twisted.conch", 10, 1, 0),
			wantReadme: "Twisted Conch 10.1.0\n",
		},
		"release candidate": {
			args:       []string{"10.1.0-rc2"},
			wantStdout: "Conch is now 10.1.0rc2\n",
			want:       pyversion.New("twisted.conch", 10, 1, 0).WithPrerelease(2),
			wantReadme: "Twisted Conch 10.1.0\n",
		},
		"package override": {
			args:       []string{"4.0.0", "--package", "conch"},
			wantStdout: "Conch is now 4.0.0\n",
			want:       pyversion.New("conch", 4, 0, 0),
			wantReadme: "Twisted Conch 4.0.0\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conch := filepath.Join(fakeRepository(t), "conch")

			stdout, stderr, code := execute(t, append([]string{"set-version", conch}, tt.args...)...)
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Equal(t, tt.wantStdout, stdout)

			got, err := pyversion.ReadFile(filepath.Join(conch, "_version.py"))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %#v, want %#v", got, tt.want)

			readme, err := os.ReadFile(filepath.Join(conch, "topfiles", "README"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantReadme, string(readme))
		})
	}
}

func TestSetVersion_RenamesNewsEntry(t *testing.T) {
	const oldEntry = "Twisted Conch 3.4.5 (2009-12-01)\n" +
		"================================\n" +
		"\n" +
		" - Fixed that bug. (#7)\n\n"

	tests := map[string]struct {
		config   string
		version  string
		wantNews func(today string) string
	}{
		"entry renamed and dated today": {
			config:  "header_prefix: Twisted\n",
			version: "10.1.0",
			wantNews: func(today string) string {
				header := "Twisted Conch 10.1.0 (" + today + ")"
				return header + "\n" + strings.Repeat("=", len(header)) + "\n\n" +
					" - Fixed that bug. (#7)\n\n"
			},
		},
		"same base version": {
			config:   "header_prefix: Twisted\n",
			version:  "3.4.5-rc1",
			wantNews: func(string) string { return oldEntry },
		},
		"title does not match": {
			config:   "header_prefix: Divmod\n",
			version:  "10.1.0",
			wantNews: func(string) string { return oldEntry },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conch := filepath.Join(fakeRepository(t), "conch")
			newsPath := filepath.Join(conch, "topfiles", "NEWS")
			require.NoError(t, os.WriteFile(newsPath, []byte(oldEntry), 0o644))

			_, stderr, code := execute(t, "--config", writeConfig(t, tt.config), "set-version", conch, tt.version)
			require.Equal(t, ExitSuccess, code, stderr)

			got, err := os.ReadFile(newsPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNews(time.Now().Format("2006-01-02")), string(got))
		})
	}
}

func TestSetVersion_NewProject(t *testing.T) {
	dir := t.TempDir()

	_, stderr, code := execute(t, "set-version", dir, "0.1.0")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Error [Argument Error]:")
	assert.Contains(t, stderr, "has no _version.py")
	assert.Contains(t, stderr, "--package")

	_, stderr, code = execute(t, "set-version", dir, "0.1.0", "--package", "widget")
	require.Equal(t, ExitSuccess, code, stderr)

	got, err := pyversion.ReadFile(filepath.Join(dir, "_version.py"))
	require.NoError(t, err)
	assert.True(t, pyversion.New("widget", 0, 1, 0).Equal(got))
}

func TestSetVersion_InvalidVersion(t *testing.T) {
	tests := map[string]struct {
		version      string
		wantContains string
	}{
		"not a version": {
			version:      "banana",
			wantContains: `invalid version "banana"`,
		},
		"beta prerelease": {
			version:      "1.2.3-beta1",
			wantContains: `invalid version "1.2.3-beta1"`,
		},
		"build metadata": {
			version:      "1.2.3+abc",
			wantContains: `invalid version "1.2.3+abc"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conch := filepath.Join(fakeRepository(t), "conch")
			before, err := os.ReadFile(filepath.Join(conch, "_version.py"))
			require.NoError(t, err)

			_, stderr, code := execute(t, "set-version", conch, tt.version)
			assert.Equal(t, ExitFailure, code)
			assert.Contains(t, stderr, "Error [Argument Error]: "+tt.wantContains)
			assert.Contains(t, stderr, "Usage: newsbuilder set-version")

			after, err := os.ReadFile(filepath.Join(conch, "_version.py"))
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after), "version file must be untouched")
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    pyversion.Version
		wantErr bool
	}{
		"plain":          {input: "1.2.3", want: pyversion.New("p", 1, 2, 3)},
		"leading v":      {input: "v2.0.1", want: pyversion.New("p", 2, 0, 1)},
		"rc zero":        {input: "3.0.0-rc0", want: pyversion.New("p", 3, 0, 0).WithPrerelease(0)},
		"rc missing num": {input: "3.0.0-rc", wantErr: true},
		"alpha":          {input: "3.0.0-alpha", wantErr: true},
		"garbage":        {input: "x.y.z", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseVersion("p", tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %#v, want %#v", got, tt.want)
		})
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"1.feature": "Added a widget.\n",
		"2.misc":    "",
	})
	header := "Widget 1.0 (2026-10-19)"

	stdout, stderr, code := execute(t, "preview", dir, "--header", header)
	require.Equal(t, ExitSuccess, code, stderr)

	want := header + "\n" + strings.Repeat("=", len(header)) + "\n\n" +
		"Features\n" +
		"--------\n" +
		" - Added a widget. (#1)\n" +
		"\n" +
		"Other\n" +
		"-----\n" +
		" - #2\n" +
		"\n\n"
	assert.Equal(t, want, stdout)
	assert.ElementsMatch(t, []string{"1.feature", "2.misc"}, remainingFiles(t, dir), "preview must not delete fragments")
}

func TestPreview_NoChanges(t *testing.T) {
	stdout, stderr, code := execute(t, "preview", t.TempDir(), "--header", "Widget 1.0 (2026-10-19)")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "No significant changes have been made for this release.\n")
}
