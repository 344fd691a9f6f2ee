// Package fragment discovers news fragments: one file per ticket, named
// <ticket>.<kind>, whose content is a short description of the change.
//
// Fragments are read from the immediate children of a directory (usually a
// project's topfiles directory). Subdirectories and files with any other
// extension are ignored. A fragment whose stem is not an integer is an error.
package fragment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Fragment is a single news entry read from disk.
type Fragment struct {
	Ticket      int
	Kind        Kind
	Description string
	Path        string
}

// TicketError reports a fragment file whose stem is not a ticket number.
type TicketError struct {
	Path string
	Stem string
	Err  error
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("fragment %s: invalid ticket number %q: %v", e.Path, e.Stem, e.Err)
}

func (e *TicketError) Unwrap() error {
	return e.Err
}

// Scan returns the fragments of the given kind found directly inside dir,
// sorted by ticket number.
func Scan(dir string, kind Kind) ([]Fragment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fragment directory: %w", err)
	}

	var results []Fragment
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem, ext := splitExt(entry.Name())
		if ext != kind.Suffix() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := read(path, stem, kind)
		if err != nil {
			return nil, err
		}
		results = append(results, f)
	}

	sortFragments(results)
	return results, nil
}

// Set holds the fragments of one directory, keyed by kind.
type Set map[Kind][]Fragment

// Len returns the total number of fragments in the set.
func (s Set) Len() int {
	n := 0
	for _, fs := range s {
		n += len(fs)
	}
	return n
}

// ScanAll scans dir once per kind.
func ScanAll(dir string) (Set, error) {
	set := make(Set)
	for _, kind := range AllKinds() {
		fs, err := Scan(dir, kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s fragments: %w", kind, err)
		}
		if len(fs) > 0 {
			set[kind] = fs
		}
	}
	return set, nil
}

// Consumed lists the paths of every fragment file in dir, regardless of
// kind and without reading or validating them. These are the files removed
// once a NEWS file has been built.
func Consumed(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fragment directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		_, ext := splitExt(entry.Name())
		if _, ok := KindForSuffix(ext); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func read(path, stem string, kind Kind) (Fragment, error) {
	ticket, err := strconv.Atoi(strings.TrimSpace(stem))
	if err != nil {
		return Fragment{}, &TicketError{Path: path, Stem: stem, Err: err}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Fragment{}, fmt.Errorf("reading fragment: %w", err)
	}

	return Fragment{
		Ticket:      ticket,
		Kind:        kind,
		Description: strings.Join(splitLines(string(content)), " "),
		Path:        path,
	}, nil
}

func sortFragments(fs []Fragment) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Ticket != fs[j].Ticket {
			return fs[i].Ticket < fs[j].Ticket
		}
		return fs[i].Description < fs[j].Description
	})
}

// splitExt splits a filename into stem and extension. Leading dots are part
// of the stem, so ".feature" has no extension.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	if strings.Trim(stem, ".") == "" {
		return name, ""
	}
	return stem, ext
}

// splitLines breaks s on \n, \r\n and \r. A trailing line terminator does
// not produce an empty final line.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i])
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
	return lines
}
