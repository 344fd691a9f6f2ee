//go:build e2e

package main_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/newsbuilder/internal/pyversion"
	"github.com/ariel-frischer/newsbuilder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(env *testutil.E2EEnv) {
	env.WriteFiles(map[string]string{
		"NEWS":                    "Old boring stuff from the past.\n",
		"_version.py":             pyversion.Generate(pyversion.New("twisted", 1, 2, 3)),
		"topfiles/NEWS":           "Old core news.\n",
		"topfiles/3.feature":      "Third feature addition.\n",
		"topfiles/5.misc":         "",
		"conch/_version.py":       pyversion.Generate(pyversion.New("twisted.conch", 3, 4, 5)),
		"conch/topfiles/NEWS":     "Old conch news.\n",
		"conch/topfiles/7.bugfix": "Fixed that bug.\n",
	})
}

func TestE2E_Release(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	setupRepository(env)
	env.WriteFiles(map[string]string{
		".newsbuilder/config.yml": "header_prefix: Twisted\n",
	})

	result := env.Run(".", "ignored")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Empty(t, result.Stdout)

	news := env.ReadFile("NEWS")
	assert.True(t, strings.HasPrefix(news, "Twisted Repo 1.2.3 ("), news)
	assert.Contains(t, news, "Twisted Conch 3.4.5 (")

	assert.Equal(t, []string{
		"rm " + filepath.Join("conch", "topfiles", "7.bugfix"),
		"rm " + filepath.Join("topfiles", "3.feature"),
		"rm " + filepath.Join("topfiles", "5.misc"),
	}, env.GitCalls())
	for _, name := range []string{"topfiles/3.feature", "topfiles/5.misc", "conch/topfiles/7.bugfix"} {
		assert.False(t, env.FileExists(name), "%s should be removed", name)
	}
}

func TestE2E_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		setupFunc    func(t *testing.T, env *testutil.E2EEnv)
		command      []string
		wantExitCode int
		wantStdout   string
		wantStderr   string
	}{
		"version flag": {
			command:      []string{"--version"},
			wantExitCode: 0,
			wantStdout:   "newsbuilder ",
		},
		"missing arguments": {
			command:      []string{"."},
			wantExitCode: 1,
			wantStderr:   "ERROR: accepts 2 arg(s), received 1",
		},
		"git rm fails": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				t.Helper()
				setupRepository(env)
				env.SetMockExitCode(128)
			},
			command:      []string{".", "ignored"},
			wantExitCode: 1,
			wantStderr:   "exited with status 128",
		},
		"missing news file": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				t.Helper()
				env.WriteFiles(map[string]string{
					"_version.py":        pyversion.Generate(pyversion.New("widget", 0, 1, 0)),
					"topfiles/1.feature": "Something.\n",
				})
			},
			command:      []string{".", "ignored"},
			wantExitCode: 1,
			wantStderr:   "reading news file",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			if tt.setupFunc != nil {
				tt.setupFunc(t, env)
			}

			result := env.Run(tt.command...)
			assert.Equal(t, tt.wantExitCode, result.ExitCode, "stderr: %s", result.Stderr)
			if tt.wantStdout != "" {
				assert.Contains(t, result.Stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, result.Stderr, tt.wantStderr)
			}
		})
	}
}

func TestE2E_Projects(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	setupRepository(env)

	result := env.Run("projects", "--yaml", ".")
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Equal(t,
		"- name: Conch\n  version: 3.4.5\n  path: conch\n"+
			"- name: Repo\n  version: 1.2.3\n  path: .\n",
		result.Stdout)
}
