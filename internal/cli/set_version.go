package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	clierrors "github.com/ariel-frischer/newsbuilder/internal/errors"
	"github.com/ariel-frischer/newsbuilder/internal/news"
	"github.com/ariel-frischer/newsbuilder/internal/project"
	"github.com/ariel-frischer/newsbuilder/internal/pyversion"
	"github.com/ariel-frischer/newsbuilder/internal/release"
	"github.com/spf13/cobra"
)

var setVersionCmd = &cobra.Command{
	Use:   "set-version <projectDir> <version>",
	Short: "Write a project's _version.py",
	Long: `Write the _version.py of the project in projectDir so it declares version,
and replace the previous version in topfiles/README. When topfiles/NEWS has an
entry header for the previous version, it is renamed to the new version and
dated today.

The version is major.minor.micro with an optional rcN prerelease, e.g. 10.1.0
or 10.1.0-rc2. The package name is kept from the existing _version.py unless
--package is given; a project without one needs --package.`,
	Example: `  newsbuilder set-version twisted/conch 10.1.0
  newsbuilder set-version twisted/conch 10.1.0-rc2
  newsbuilder set-version newproj 0.1.0 --package newproj`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg, _ := cmd.Flags().GetString("package")
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		name := project.Project{Dir: args[0]}.Name()
		change := versionChange{
			Dir:     args[0],
			Version: args[1],
			Package: pkg,
			Title:   release.ProjectTitle(cfg.HeaderPrefix, name),
			Today:   time.Now().Format(release.DateLayout),
		}
		v, err := change.apply()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", name, v)
		return nil
	},
}

func init() {
	setVersionCmd.Flags().String("package", "", "Package identifier written to _version.py")
	rootCmd.AddCommand(setVersionCmd)
}

// parseVersion parses a semantic version whose prerelease, if any, is rcN.
func parseVersion(pkg, s string) (pyversion.Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return pyversion.Version{}, clierrors.InvalidVersion(s, err)
	}
	if sv.Metadata() != "" {
		return pyversion.Version{}, clierrors.InvalidVersion(s, errors.New("build metadata is not supported"))
	}

	v := pyversion.New(pkg, int(sv.Major()), int(sv.Minor()), int(sv.Patch()))
	pre := sv.Prerelease()
	if pre == "" {
		return v, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(pre, "rc"))
	if !strings.HasPrefix(pre, "rc") || err != nil || n < 0 {
		return pyversion.Version{}, clierrors.InvalidVersion(s, fmt.Errorf("prerelease %q is not rcN", pre))
	}
	return v.WithPrerelease(n), nil
}

// versionChange sets the version of the project in Dir.
type versionChange struct {
	Dir     string
	Version string
	// Package overrides the package recorded in the existing version file.
	Package string
	// Title and Today rename the project's NEWS entry for the old version.
	Title string
	Today string
}

func (c versionChange) apply() (pyversion.Version, error) {
	p := project.Project{Dir: c.Dir}
	current, err := p.Version()
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return pyversion.Version{}, err
	}
	pkg := c.Package
	if pkg == "" {
		if !exists {
			return pyversion.Version{}, clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("%s has no %s", c.Dir, project.VersionFile),
				"newsbuilder set-version <projectDir> <version> --package <name>",
				"Pass --package to name the package for a new version file",
			)
		}
		pkg = current.Package
	}

	v, err := parseVersion(pkg, c.Version)
	if err != nil {
		return pyversion.Version{}, err
	}
	if !exists {
		return v, pyversion.WriteFile(filepath.Join(c.Dir, project.VersionFile), v)
	}
	if err := p.UpdateVersion(v); err != nil {
		return pyversion.Version{}, err
	}

	if current.Base() == v.Base() {
		return v, nil
	}
	if _, err := os.Stat(p.News()); errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	return v, news.ChangeNewsVersion(p.News(), c.Title, current.Base(), v.Base(), c.Today)
}
