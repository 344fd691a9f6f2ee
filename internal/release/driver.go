// Package release builds the NEWS files for every project in a repository.
package release

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/newsbuilder/internal/project"
	"github.com/ariel-frischer/newsbuilder/internal/vcs"
	"go.uber.org/zap"
)

// Strategy selects how release headers are composed.
type Strategy string

const (
	// ProjectHeaders builds every discovered project into its own NEWS file
	// and the aggregate NEWS file, with a header naming the project and its
	// current version.
	ProjectHeaders Strategy = "project"
	// FixedHeader builds one fragments directory into the aggregate NEWS
	// file with a header naming FixedTitle and the requested version.
	FixedHeader Strategy = "fixed"
)

const (
	// DefaultFixedTitle is the header title used by FixedHeader.
	DefaultFixedTitle = "Newsbuilder"
	// DateLayout formats the release date in headers.
	DateLayout = "2006-01-02"
)

// DefaultFixedFragmentsDir is the fragments directory, relative to the
// repository, used by FixedHeader.
var DefaultFixedFragmentsDir = filepath.Join("newsbuilder", "topfiles")

// ErrNoBuilder is returned by BuildAll when the Driver has no Builder.
var ErrNoBuilder = errors.New("no news builder configured")

// VersionError reports a project whose _version.py could not be read.
type VersionError struct {
	Project string
	Err     error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Project, e.Err)
}

func (e *VersionError) Unwrap() error {
	return e.Err
}

// Builder writes and cleans up news entries. *news.Builder implements it.
type Builder interface {
	Build(fragmentsDir, newsFile, header string) error
	DeleteFragments(fragmentsDir string) error
}

// Driver runs a release over a repository.
type Driver struct {
	Builder  Builder
	Strategy Strategy
	// HeaderPrefix, when set, precedes the project name in ProjectHeaders
	// headers, e.g. "Twisted" gives "Twisted Conch 3.4.5 (2009-12-01)".
	HeaderPrefix      string
	FixedTitle        string
	FixedFragmentsDir string
	// RequireVCS makes BuildAll fail before writing anything unless the
	// repository is a git working tree.
	RequireVCS bool
	// Today returns the release date. Defaults to time.Now.
	Today  func() time.Time
	Logger *zap.Logger
}

// NewDriver returns a Driver using the ProjectHeaders strategy.
func NewDriver(b Builder) *Driver {
	return &Driver{
		Builder:           b,
		Strategy:          ProjectHeaders,
		FixedTitle:        DefaultFixedTitle,
		FixedFragmentsDir: DefaultFixedFragmentsDir,
		Today:             time.Now,
		Logger:            zap.NewNop(),
	}
}

func (d *Driver) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d *Driver) today() string {
	if d.Today == nil {
		return time.Now().Format(DateLayout)
	}
	return d.Today().Format(DateLayout)
}

// BuildAll updates the news files under baseDir and deletes the fragments
// that were written. version is used by the FixedHeader strategy; the
// ProjectHeaders strategy reads each project's own version.
func (d *Driver) BuildAll(baseDir, version string) error {
	if d.Builder == nil {
		return ErrNoBuilder
	}
	if d.RequireVCS {
		if err := vcs.CheckWorkingDirectory(baseDir); err != nil {
			return err
		}
	}

	today := d.today()
	switch d.Strategy {
	case ProjectHeaders, "":
		return d.buildProjects(baseDir, today)
	case FixedHeader:
		return d.buildFixed(baseDir, version, today)
	}
	return fmt.Errorf("unknown header strategy %q", d.Strategy)
}

// ProjectTitle returns the title part of a project header, the project name
// after an optional prefix.
func ProjectTitle(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + " " + name
}

// ProjectHeader returns the header used for a project release.
func (d *Driver) ProjectHeader(name, base, today string) string {
	return fmt.Sprintf("%s %s (%s)", ProjectTitle(d.HeaderPrefix, name), base, today)
}

func (d *Driver) buildProjects(baseDir, today string) error {
	projects, err := project.Find(baseDir)
	if err != nil {
		return err
	}
	aggregate := filepath.Join(baseDir, project.NewsFile)

	for _, p := range project.ReleaseOrder(projects) {
		v, err := p.Version()
		if err != nil {
			return &VersionError{Project: p.Dir, Err: err}
		}
		header := d.ProjectHeader(p.Name(), v.Base(), today)
		d.logger().Debug("building project news",
			zap.String("project", p.Dir),
			zap.String("header", header),
		)

		for _, news := range []string{p.News(), aggregate} {
			if err := d.Builder.Build(p.Topfiles(), news, header); err != nil {
				return fmt.Errorf("building %s: %w", news, err)
			}
		}
		if err := d.Builder.DeleteFragments(p.Topfiles()); err != nil {
			return err
		}
	}

	d.logger().Debug("release complete", zap.Int("projects", len(projects)))
	return nil
}

func (d *Driver) buildFixed(baseDir, version, today string) error {
	title := strings.TrimSpace(d.FixedTitle)
	if title == "" {
		title = DefaultFixedTitle
	}
	rel := d.FixedFragmentsDir
	if rel == "" {
		rel = DefaultFixedFragmentsDir
	}

	fragments := filepath.Join(baseDir, rel)
	news := filepath.Join(baseDir, project.NewsFile)
	header := fmt.Sprintf("%s %s (%s)", title, version, today)
	d.logger().Debug("building news",
		zap.String("fragments", fragments),
		zap.String("header", header),
	)

	if err := d.Builder.Build(fragments, news, header); err != nil {
		return fmt.Errorf("building %s: %w", news, err)
	}
	return d.Builder.DeleteFragments(fragments)
}
