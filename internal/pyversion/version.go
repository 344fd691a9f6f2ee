// Package pyversion reads and writes the generated _version.py modules that
// declare a project's version.
package pyversion

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version identifies a release of a package.
type Version struct {
	Package    string
	Major      int
	Minor      int
	Micro      int
	Prerelease *int
}

// New returns a final release version.
func New(pkg string, major, minor, micro int) Version {
	return Version{Package: pkg, Major: major, Minor: minor, Micro: micro}
}

// WithPrerelease returns a copy of v marked as release candidate n.
func (v Version) WithPrerelease(n int) Version {
	v.Prerelease = &n
	return v
}

// Base returns "major.minor.micro". The prerelease marker is not included.
func (v Version) Base() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

// String returns the base version followed by "rc<N>" for prereleases.
func (v Version) String() string {
	if v.Prerelease == nil {
		return v.Base()
	}
	return fmt.Sprintf("%src%d", v.Base(), *v.Prerelease)
}

// Compare orders versions by major, minor and micro, then by prerelease. A
// final release sorts after all of its prereleases. The package name is not
// compared. It returns -1, 0 or +1.
func (v Version) Compare(o Version) int {
	for _, pair := range [][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Micro, o.Micro}} {
		if c := compareInt(pair[0], pair[1]); c != 0 {
			return c
		}
	}
	switch {
	case v.Prerelease == nil && o.Prerelease == nil:
		return 0
	case v.Prerelease == nil:
		return 1
	case o.Prerelease == nil:
		return -1
	}
	return compareInt(*v.Prerelease, *o.Prerelease)
}

// Equal reports whether v and o name the same release.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

const fileTemplate = `# Copyright (c) Twisted Matrix Laboratories.
# See LICENSE for details.

# This is an auto-generated file. Do not edit it.

"""
Provides Twisted version information.
"""

from twisted.python import versions
version = versions.Version(%s, %d, %d, %d%s)
`

// Generate renders the content of a _version.py module declaring v.
func Generate(v Version) string {
	prerelease := ""
	if v.Prerelease != nil {
		prerelease = ", prerelease=" + strconv.Itoa(*v.Prerelease)
	}
	return fmt.Sprintf(fileTemplate, pyQuote(v.Package), v.Major, v.Minor, v.Micro, prerelease)
}

// pyQuote renders s the way Python's repr does for a str: single quoted
// unless s contains a single quote and no double quote.
func pyQuote(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// ReadFile parses the version declared in the module at path.
func ReadFile(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Version{}, fmt.Errorf("reading version file: %w", err)
	}
	v, err := Parse(string(data))
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// WriteFile replaces the module at path with one declaring v.
func WriteFile(path string, v Version) error {
	if err := os.WriteFile(path, []byte(Generate(v)), 0o644); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}
