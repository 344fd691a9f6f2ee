// Package testutil provides test utilities and helpers for newsbuilder tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// newsbuilderBinaryPath caches the built newsbuilder binary path.
	newsbuilderBinaryPath string
	newsbuilderBuildOnce  sync.Once
	newsbuilderBuildErr   error
)

// mockGitScript stands in for git. Every invocation is appended to
// $MOCK_GIT_LOG; "rm <path>" deletes the file unless $MOCK_GIT_EXIT_CODE
// asks for a failure.
const mockGitScript = `#!/bin/sh
echo "$*" >> "$MOCK_GIT_LOG"
if [ -n "$MOCK_GIT_EXIT_CODE" ] && [ "$MOCK_GIT_EXIT_CODE" != 0 ]; then
	echo "fatal: pathspec '$2' did not match any files"
	exit "$MOCK_GIT_EXIT_CODE"
fi
if [ "$1" = rm ]; then
	rm -f "$2"
fi
`

// E2EEnv provides an isolated environment for E2E testing.
// It manages PATH isolation, temp directories, and environment sanitization
// so E2E tests never run the real git or read the user's configuration.
type E2EEnv struct {
	t               *testing.T
	tempDir         string
	binDir          string
	repoDir         string
	mockExitCode    int
	mockExitCodeSet bool
}

// CommandResult captures the result of running a newsbuilder command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment with PATH isolation.
// The mock git script will be the only "git" in PATH.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t}
	env.setup()
	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	e.tempDir = e.t.TempDir()
	e.binDir = filepath.Join(e.tempDir, "bin")
	e.repoDir = filepath.Join(e.tempDir, "repo")
	for _, dir := range []string{e.binDir, e.repoDir, filepath.Join(e.tempDir, "config")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			e.t.Fatalf("creating %s: %v", dir, err)
		}
	}

	if err := os.WriteFile(filepath.Join(e.binDir, "git"), []byte(mockGitScript), 0o755); err != nil {
		e.t.Fatalf("writing mock git binary: %v", err)
	}
	e.buildNewsbuilder()
}

func (e *E2EEnv) buildNewsbuilder() {
	e.t.Helper()

	// Build newsbuilder binary once per test session
	newsbuilderBuildOnce.Do(func() {
		newsbuilderBinaryPath, newsbuilderBuildErr = doBuildNewsbuilder()
	})

	if newsbuilderBuildErr != nil {
		e.t.Fatalf("building newsbuilder: %v", newsbuilderBuildErr)
	}
}

func doBuildNewsbuilder() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	// Navigate from internal/testutil/ to repo root
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "newsbuilder-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "newsbuilder")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/newsbuilder")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building newsbuilder: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Run executes a newsbuilder command in the isolated E2E environment, with
// the repository directory as the working directory.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(newsbuilderBinaryPath, args...)
	cmd.Dir = e.repoDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	// Mock bin dir first so the mock git takes precedence, then the system
	// PATH for the utilities the mock uses.
	isolatedPath := e.binDir
	if systemPath := os.Getenv("PATH"); systemPath != "" {
		isolatedPath = e.binDir + string(os.PathListSeparator) + systemPath
	}

	env := []string{
		"PATH=" + isolatedPath,
		"HOME=" + e.tempDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.tempDir, "config"),
		"MOCK_GIT_LOG=" + e.gitLogPath(),
	}
	if e.mockExitCodeSet {
		env = append(env, fmt.Sprintf("MOCK_GIT_EXIT_CODE=%d", e.mockExitCode))
	}

	// NEWSBUILDER_* variables are deliberately not passed through.
	safeVars := []string{
		"TERM",
		"LANG",
		"LC_ALL",
		"TMPDIR",
		"TMP",
		"TEMP",
	}
	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	return env
}

// TempDir returns the root temp directory for this test environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// RepoDir returns the directory newsbuilder runs in.
func (e *E2EEnv) RepoDir() string {
	return e.repoDir
}

// WriteFiles creates files relative to the repository directory.
func (e *E2EEnv) WriteFiles(files map[string]string) {
	e.t.Helper()

	for name, content := range files {
		path := filepath.Join(e.repoDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			e.t.Fatalf("creating directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			e.t.Fatalf("writing %s: %v", name, err)
		}
	}
}

// ReadFile returns the content of a file relative to the repository directory.
func (e *E2EEnv) ReadFile(name string) string {
	e.t.Helper()

	data, err := os.ReadFile(filepath.Join(e.repoDir, name))
	if err != nil {
		e.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// FileExists checks if a file exists relative to the repository directory.
func (e *E2EEnv) FileExists(name string) bool {
	_, err := os.Stat(filepath.Join(e.repoDir, name))
	return err == nil
}

// SetMockExitCode makes the mock git fail with code.
func (e *E2EEnv) SetMockExitCode(code int) {
	e.mockExitCode = code
	e.mockExitCodeSet = true
}

// GitCalls returns the argument lists the mock git was invoked with, one
// space-joined string per call.
func (e *E2EEnv) GitCalls() []string {
	e.t.Helper()

	data, err := os.ReadFile(e.gitLogPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		e.t.Fatalf("reading mock git log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func (e *E2EEnv) gitLogPath() string {
	return filepath.Join(e.tempDir, "git-calls.log")
}
