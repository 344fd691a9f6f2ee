// Package news renders news fragments into NEWS file entries.
//
// A NEWS file is a plain text file of release entries, newest first. Each
// entry is a header underlined with '=' followed by one section per fragment
// kind. Building an entry prepends it to the file, after the ticket hint
// banner when the file starts with one.
package news

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/newsbuilder/internal/fragment"
	"go.uber.org/zap"
)

// NoChanges is written in place of the typed sections when a release has no
// feature, bugfix, documentation or removal fragments.
const NoChanges = "No significant changes have been made for this release.\n"

// TicketHint is the banner kept pinned at the top of a NEWS file. New
// entries are inserted after it rather than above it.
const TicketHint = "Ticket numbers in this file can be looked up by visiting\n" +
	"http://twistedmatrix.com/trac/ticket/<number>\n" +
	"\n"

// ErrNoRemover is returned by DeleteFragments when the Builder has no Remover.
var ErrNoRemover = errors.New("no fragment remover configured")

// Remover deletes a consumed fragment file, typically by asking the version
// control system to remove it.
type Remover interface {
	Remove(path string) error
}

// RemoverFunc adapts a function to the Remover interface.
type RemoverFunc func(path string) error

// Remove calls f(path).
func (f RemoverFunc) Remove(path string) error {
	return f(path)
}

// Builder writes NEWS entries from fragment directories.
type Builder struct {
	// Remover deletes fragments once they have been written out.
	Remover Remover
	// Width is the column at which entries are wrapped.
	Width int
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// NewBuilder returns a Builder that deletes fragments with remover.
func NewBuilder(remover Remover) *Builder {
	return &Builder{
		Remover: remover,
		Width:   DefaultWidth,
		Logger:  zap.NewNop(),
	}
}

type section struct {
	kind      fragment.Kind
	fragments []fragment.Fragment
}

// entry is the content of one release entry before it is rendered.
type entry struct {
	header string
	typed  []section
	misc   []fragment.Fragment
	count  int
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

func (b *Builder) width() int {
	if b.Width <= 0 {
		return DefaultWidth
	}
	return b.Width
}

// collect scans fragmentsDir for every kind. Typed sections keep the fixed
// feature, bugfix, doc, removal order and empty ones are dropped.
func collect(fragmentsDir, header string) (*entry, error) {
	set, err := fragment.ScanAll(fragmentsDir)
	if err != nil {
		return nil, err
	}

	e := &entry{header: header, misc: set[fragment.Misc], count: set.Len()}
	for _, kind := range fragment.TypedKinds() {
		if fs := set[kind]; len(fs) > 0 {
			e.typed = append(e.typed, section{kind: kind, fragments: fs})
		}
	}
	return e, nil
}

// render writes the header, the sections and the separating blank line.
func (b *Builder) render(w io.Writer, e *entry) error {
	if err := WriteHeader(w, e.header); err != nil {
		return err
	}

	if len(e.typed) > 0 {
		for _, s := range e.typed {
			if err := WriteSection(w, s.kind.Heading(), s.fragments, b.width()); err != nil {
				return err
			}
		}
	} else {
		if _, err := io.WriteString(w, NoChanges+"\n"); err != nil {
			return err
		}
	}

	if err := WriteMisc(w, fragment.Misc.Heading(), e.misc, b.width()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Preview renders the entry that Build would prepend for fragmentsDir,
// without touching any file.
func (b *Builder) Preview(fragmentsDir, header string) (string, error) {
	e, err := collect(fragmentsDir, header)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := b.render(&buf, e); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Build prepends a new entry for the fragments in fragmentsDir to newsFile.
//
// The entry is written together with the previous content to a sibling
// "<name>.new" file which then replaces newsFile. If newsFile begins with
// TicketHint the banner stays at the top. Fragments are left in place; see
// DeleteFragments.
func (b *Builder) Build(fragmentsDir, newsFile, header string) error {
	e, err := collect(fragmentsDir, header)
	if err != nil {
		return err
	}

	oldNews, err := os.ReadFile(newsFile)
	if err != nil {
		return fmt.Errorf("reading news file: %w", err)
	}
	info, err := os.Stat(newsFile)
	if err != nil {
		return fmt.Errorf("reading news file: %w", err)
	}

	var buf bytes.Buffer
	rest := string(oldNews)
	if strings.HasPrefix(rest, TicketHint) {
		buf.WriteString(TicketHint)
		rest = rest[len(TicketHint):]
	}
	if err := b.render(&buf, e); err != nil {
		return fmt.Errorf("rendering news entry: %w", err)
	}
	buf.WriteString(rest)

	tmpPath := filepath.Join(filepath.Dir(newsFile), filepath.Base(newsFile)+".new")
	if err := writeFileMode(tmpPath, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing temp news file: %w", err)
	}
	if err := os.Rename(tmpPath, newsFile); err != nil {
		return fmt.Errorf("replacing news file: %w", err)
	}

	b.logger().Debug("wrote news entry",
		zap.String("news", newsFile),
		zap.String("fragments", fragmentsDir),
		zap.String("header", header),
		zap.Int("sections", len(e.typed)),
		zap.Int("fragments", e.count),
	)
	return nil
}

// writeFileMode writes data to path with exactly perm. os.WriteFile leaves a
// stale file's mode alone and applies the umask to a new one.
func writeFileMode(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}

// DeleteFragments removes every fragment file in fragmentsDir through the
// Remover, one file at a time. The first failure stops the deletion; files
// already removed stay removed.
func (b *Builder) DeleteFragments(fragmentsDir string) error {
	if b.Remover == nil {
		return ErrNoRemover
	}

	paths, err := fragment.Consumed(fragmentsDir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := b.Remover.Remove(path); err != nil {
			return fmt.Errorf("removing fragment %s: %w", path, err)
		}
		b.logger().Debug("removed fragment", zap.String("path", path))
	}
	return nil
}

// Release builds newsFile from fragmentsDir and then deletes the fragments.
func (b *Builder) Release(fragmentsDir, newsFile, header string) error {
	if err := b.Build(fragmentsDir, newsFile, header); err != nil {
		return err
	}
	return b.DeleteFragments(fragmentsDir)
}
