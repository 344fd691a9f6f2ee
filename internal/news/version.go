package news

import (
	"fmt"
	"os"
	"regexp"

	"github.com/ariel-frischer/newsbuilder/internal/rewrite"
)

// ChangeNewsVersion rewrites the entry header "<title> <oldBase> (<date>)" in
// path to "<title> <newBase> (<today>)", re-underlining it to the new length.
// It is not an error for the file to have no such header.
func ChangeNewsVersion(path, title, oldBase, newBase, today string) error {
	pattern := regexp.MustCompile(fmt.Sprintf(`%s %s \(\d{4}-\d\d-\d\d\)\n=+\n\n`,
		regexp.QuoteMeta(title), regexp.QuoteMeta(oldBase)))

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading news file: %w", err)
	}

	oldHeader := pattern.FindString(string(content))
	if oldHeader == "" {
		return nil
	}
	newHeader := FormatHeader(fmt.Sprintf("%s %s (%s)", title, newBase, today))
	return rewrite.ReplaceInFile(path, []rewrite.Replacement{{Old: oldHeader, New: newHeader}})
}
