// Package vcs checks that release directories are under version control and
// removes consumed fragments through the version control system, so the
// deletions are staged alongside the NEWS changes.
package vcs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/newsbuilder/internal/command"
	"github.com/go-git/go-git/v5"
	"github.com/google/shlex"
)

// DefaultTool is the executable used by CommandRemover when none is set.
const DefaultTool = "git"

// NotWorkingDirectoryError is returned when a directory is not inside a git
// working tree.
type NotWorkingDirectoryError struct {
	Path string
	Err  error
}

func (e *NotWorkingDirectoryError) Error() string {
	return fmt.Sprintf("%s does not appear to be a git working directory: %v", e.Path, e.Err)
}

func (e *NotWorkingDirectoryError) Unwrap() error {
	return e.Err
}

// openWorktree finds the repository containing path, searching parent
// directories, and returns its working tree.
func openWorktree(path string) (*git.Worktree, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, &NotWorkingDirectoryError{Path: path, Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, &NotWorkingDirectoryError{Path: path, Err: err}
	}
	return wt, nil
}

// CheckWorkingDirectory returns a *NotWorkingDirectoryError unless path is
// an existing directory inside a non-bare git repository.
func CheckWorkingDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &NotWorkingDirectoryError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return &NotWorkingDirectoryError{Path: path, Err: fmt.Errorf("not a directory")}
	}
	_, err = openWorktree(path)
	return err
}

// CommandRemover removes files by running "<Tool> [Args...] rm <path>".
type CommandRemover struct {
	Tool   string
	Args   []string
	Runner command.Runner
}

// NewCommandRemover returns a CommandRemover for tool, or DefaultTool when
// tool is empty. tool is split like a shell word list, so global options
// such as "git -c core.quotepath=off" are accepted.
func NewCommandRemover(tool string) (*CommandRemover, error) {
	words, err := shlex.Split(tool)
	if err != nil {
		return nil, fmt.Errorf("parsing vcs tool %q: %w", tool, err)
	}
	if len(words) == 0 {
		return &CommandRemover{Tool: DefaultTool}, nil
	}
	return &CommandRemover{Tool: words[0], Args: words[1:]}, nil
}

// Remove runs the removal command for path. A non-zero exit is reported as a
// *command.FailedError.
func (r *CommandRemover) Remove(path string) error {
	argv := make([]string, 0, len(r.Args)+3)
	argv = append(argv, r.Tool)
	argv = append(argv, r.Args...)
	argv = append(argv, "rm", path)
	_, err := r.Runner.Output(argv...)
	return err
}

// GitRemover removes files from the git index and working tree in process.
type GitRemover struct {
	worktree *git.Worktree
	root     string
}

// NewGitRemover opens the repository containing dir.
func NewGitRemover(dir string) (*GitRemover, error) {
	wt, err := openWorktree(dir)
	if err != nil {
		return nil, err
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return nil, fmt.Errorf("resolving worktree root: %w", err)
	}
	return &GitRemover{worktree: wt, root: root}, nil
}

// Remove deletes path and stages the deletion. The file must be tracked.
func (r *GitRemover) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := r.worktree.Remove(filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("git rm %s: %w", rel, err)
	}
	return nil
}
