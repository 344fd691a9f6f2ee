package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"
	"testing"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// Signal, when non-zero, is sent by the helper to itself after writing
	// its output instead of exiting.
	Signal int `json:"signal"`
}

// HelperProcessEnvVars contains the environment variable names used by TestHelperProcess.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// TestHelperProcess is a function to be called from a test function to
// implement the helper process pattern. When invoked with
// GO_WANT_HELPER_PROCESS=1, it behaves as a mock subprocess and exits without
// returning.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
//
// If the variable is not set, it returns immediately, allowing normal test
// execution.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := HelperProcessConfig{}
	if configJSON := os.Getenv(EnvHelperProcessConfig); configJSON != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(configJSON), &config)
	}
	runHelperProcess(config)
}

// runHelperProcess executes the helper process behavior and never returns.
func runHelperProcess(config HelperProcessConfig) {
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}

	if config.Signal != 0 {
		syscall.Kill(os.Getpid(), syscall.Signal(config.Signal))
		select {}
	}
	os.Exit(config.ExitCode)
}

// HelperCommand returns the argument vector and environment that run the
// test binary as a helper process behaving as config describes. testName is
// the test function that calls TestHelperProcess.
func HelperCommand(t *testing.T, testName string, config HelperProcessConfig) (args, env []string) {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding helper config: %v", err)
	}

	env = append(os.Environ(),
		EnvWantHelperProcess+"=1",
		EnvHelperProcessConfig+"="+string(configJSON),
	)
	return []string{testBinary, "-test.run=^" + testName + "$"}, env
}
