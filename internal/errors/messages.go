package errors

import "fmt"

// Common error messages for the newsbuilder CLI.
// These templates ensure consistent, actionable error messages.

// NotWorkingDirectory creates an error for a repository path outside a git working tree.
func NotWorkingDirectory(path string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("%s is not a git working directory", path),
		Remediation: []string{
			"Run newsbuilder from a git checkout of the repository",
			"Or set require_vcs: false in .newsbuilder/config.yml",
		},
		Err: err,
	}
}

// MissingVersionFile creates an error for a project without a readable _version.py.
func MissingVersionFile(projectDir string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("no readable _version.py in %s", projectDir),
		Remediation: []string{
			fmt.Sprintf("Create one with: newsbuilder set-version %s <version>", projectDir),
		},
		Err: err,
	}
}

// InvalidVersion creates an error for a version argument that does not parse.
func InvalidVersion(provided string, err error) *CLIError {
	return &CLIError{
		Category: Argument,
		Message:  fmt.Sprintf("invalid version %q", provided),
		Usage:    "newsbuilder set-version <projectDir> <major.minor.micro[-rcN]>",
		Remediation: []string{
			"Use a semantic version such as 10.1.0 or 10.1.0-rc2",
		},
		Err: err,
	}
}

// InvalidFragment creates an error for a fragment whose name is not a ticket number.
func InvalidFragment(err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  err.Error(),
		Remediation: []string{
			"Rename the fragment to <ticket>.<type>, e.g. 1234.bugfix",
			"Valid types: feature, bugfix, doc, removal, misc",
		},
		Err: err,
	}
}

// RemoveFailed creates an error for a fragment the VCS tool could not remove.
func RemoveFailed(err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  err.Error(),
		Remediation: []string{
			"Check that the fragment is tracked by version control",
			"Or set remover: go-git to remove fragments in process",
		},
		Err: err,
	}
}

// ConfigInvalid creates an error for configuration that failed to load.
func ConfigInvalid(err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  err.Error(),
		Remediation: []string{
			"Fix the reported key in .newsbuilder/config.yml or ~/.config/newsbuilder/config.yml",
			"Or unset the matching NEWSBUILDER_* environment variable",
		},
		Err: err,
	}
}
