// Package rewrite performs literal text substitution in files without ever
// exposing a partially written file under the original name.
package rewrite

import (
	"fmt"
	"os"
	"strings"
)

// Replacement is a literal substitution of Old with New.
type Replacement struct {
	Old string
	New string
}

// Apply performs the replacements on s in order. Each replacement sees the
// output of the ones before it.
func Apply(s string, replacements []Replacement) string {
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.Old, r.New)
	}
	return s
}

// ReplaceInFile applies replacements to the content of path.
//
// The new content is written to "<path>.new". The original is hard linked to
// "<path>.bak", the new file is renamed over path and the backup is removed.
// At every step path holds either the complete old or the complete new
// content. On failure the backup, if created, is left in place.
func ReplaceInFile(path string, replacements []Replacement) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	newPath := path + ".new"
	bakPath := path + ".bak"

	updated := Apply(string(data), replacements)
	if err := os.WriteFile(newPath, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", newPath, err)
	}

	if err := os.Remove(bakPath); err != nil && !os.IsNotExist(err) {
		os.Remove(newPath)
		return fmt.Errorf("clearing stale backup: %w", err)
	}
	if err := os.Link(path, bakPath); err != nil {
		os.Remove(newPath)
		return fmt.Errorf("backing up %s: %w", path, err)
	}

	if err := os.Rename(newPath, path); err != nil {
		os.Remove(newPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	if err := os.Remove(bakPath); err != nil {
		return fmt.Errorf("removing backup: %w", err)
	}
	return nil
}
