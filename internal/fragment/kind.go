package fragment

// Kind identifies the type of a news fragment. The set of kinds is closed;
// each kind carries the filename suffix that marks it and the heading used
// when its fragments are rendered into a NEWS section.
type Kind int

const (
	Feature Kind = iota
	Bugfix
	Doc
	Removal
	Misc
)

var kindInfo = [...]struct {
	suffix  string
	heading string
	name    string
}{
	Feature: {".feature", "Features", "feature"},
	Bugfix:  {".bugfix", "Bugfixes", "bugfix"},
	Doc:     {".doc", "Improved Documentation", "doc"},
	Removal: {".removal", "Deprecations and Removals", "removal"},
	Misc:    {".misc", "Other", "misc"},
}

// Suffix returns the filename extension, including the leading dot.
func (k Kind) Suffix() string {
	return kindInfo[k].suffix
}

// Heading returns the NEWS section heading for the kind.
func (k Kind) Heading() string {
	return kindInfo[k].heading
}

// String returns the lower-case kind name, e.g. "feature".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindInfo) {
		return "unknown"
	}
	return kindInfo[k].name
}

// TypedKinds returns the kinds that render as described sections, in the
// order their sections appear in a NEWS entry.
func TypedKinds() []Kind {
	return []Kind{Feature, Bugfix, Doc, Removal}
}

// AllKinds returns every kind, typed kinds first and Misc last.
func AllKinds() []Kind {
	return []Kind{Feature, Bugfix, Doc, Removal, Misc}
}

// KindForSuffix maps a filename extension (with leading dot) to its kind.
// Unknown extensions report ok=false.
func KindForSuffix(ext string) (Kind, bool) {
	for _, k := range AllKinds() {
		if k.Suffix() == ext {
			return k, true
		}
	}
	return 0, false
}
