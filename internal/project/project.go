// Package project discovers the subprojects of a repository. Any directory
// with a "topfiles" child directory is a project; its topfiles directory
// holds the news fragments, the project NEWS file and a README that mentions
// the current version.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/ariel-frischer/newsbuilder/internal/pyversion"
	"github.com/ariel-frischer/newsbuilder/internal/rewrite"
)

const (
	// TopfilesDir is the directory name that marks a project.
	TopfilesDir = "topfiles"
	// VersionFile is the module declaring the project version.
	VersionFile = "_version.py"
	// NewsFile is the per-project and aggregate news file name.
	NewsFile = "NEWS"
	// ReadmeFile lives in topfiles and mentions the current version.
	ReadmeFile = "README"
)

// Project is a directory containing a topfiles directory.
type Project struct {
	Dir string
}

func (p Project) String() string {
	return fmt.Sprintf("Project(%q)", p.Dir)
}

// Topfiles returns the directory holding the project's fragments.
func (p Project) Topfiles() string {
	return filepath.Join(p.Dir, TopfilesDir)
}

// News returns the project's own NEWS file.
func (p Project) News() string {
	return filepath.Join(p.Topfiles(), NewsFile)
}

// Name returns the name shown in NEWS headers: the title-cased directory
// name, with "Twisted" shown as "Core".
func (p Project) Name() string {
	dir := p.Dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	name := titleCase(filepath.Base(dir))
	if name == "Twisted" {
		return "Core"
	}
	return name
}

// Version reads the version declared in the project's _version.py.
func (p Project) Version() (pyversion.Version, error) {
	return pyversion.ReadFile(filepath.Join(p.Dir, VersionFile))
}

// UpdateVersion rewrites _version.py to declare v and replaces the old base
// version with the new one in topfiles/README.
func (p Project) UpdateVersion(v pyversion.Version) error {
	old, err := p.Version()
	if err != nil {
		return err
	}
	if err := pyversion.WriteFile(filepath.Join(p.Dir, VersionFile), v); err != nil {
		return err
	}
	readme := filepath.Join(p.Topfiles(), ReadmeFile)
	return rewrite.ReplaceInFile(readme, []rewrite.Replacement{{Old: old.Base(), New: v.Base()}})
}

// Find walks baseDir and returns every project beneath it, including
// baseDir itself, ordered by directory path.
func Find(baseDir string) ([]Project, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("finding projects: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("finding projects: %s is not a directory", baseDir)
	}

	var projects []Project
	err = filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == TopfilesDir && path != baseDir {
			projects = append(projects, Project{Dir: filepath.Dir(path)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("finding projects: %w", err)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Dir < projects[j].Dir
	})
	return projects, nil
}

// ReleaseOrder returns projects sorted by path in reverse. News is built by
// prepending, so building in this order leaves the aggregate NEWS file in
// ascending path order.
func ReleaseOrder(projects []Project) []Project {
	ordered := make([]Project, len(projects))
	copy(ordered, projects)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Dir > ordered[j].Dir
	})
	return ordered
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "twisted.web2" becomes "Twisted.Web2".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && prevLetter:
			b.WriteRune(unicode.ToLower(r))
		case isLetter:
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}
