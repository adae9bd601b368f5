// Package lang defines the static per-language profiles used by the
// collector and the classifier: default directory and filename exclusions,
// marker files identifying directory types, valid source extensions, and
// the keyword vocabulary. Profiles are plain values with no behavior; the
// classifier receives the profile it needs at construction time instead of
// reaching for package-global tables.
package lang

import (
	"fmt"
	"strings"
)

// ID identifies a supported language.
type ID string

// Supported languages.
const (
	Python ID = "python"
	Rust   ID = "rust"
)

// Profile bundles everything the pipeline needs to know about one language.
type Profile struct {
	ID ID

	// Extensions are valid source extensions, stored without a leading dot.
	Extensions []string

	// ExcludeDirs are directory names that never contain source worth
	// counting (build output, virtual environments, caches).
	ExcludeDirs []string

	// ExcludeDotDirs are dot-prefixed directories to exclude when the
	// caller opts out of blanket dot-directory exclusion.
	ExcludeDotDirs []string

	// ExcludeFilenames are exact filenames skipped even when the
	// extension matches.
	ExcludeFilenames []string

	// MarkerFiles are sentinel filenames whose presence in a directory
	// excludes that directory's entire subtree.
	MarkerFiles []string

	// Keywords is the reserved-word vocabulary counted by the classifier.
	// Lookups are exact and case-sensitive.
	Keywords map[string]bool
}

// IsKeyword reports whether token is in the profile's keyword table.
func (p Profile) IsKeyword(token string) bool {
	return p.Keywords[token]
}

// aliases maps accepted language identifier spellings to their ID.
var aliases = map[string]ID{
	"python": Python,
	"py":     Python,
	"rust":   Rust,
	"rs":     Rust,
}

// Lookup resolves a language identifier string (case-insensitive, with
// aliases such as "py" for "python") to its profile.
func Lookup(name string) (Profile, error) {
	id, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("unsupported language %q (supported: python, rust)", name)
	}
	switch id {
	case Python:
		return pythonProfile(), nil
	case Rust:
		return rustProfile(), nil
	}
	return Profile{}, fmt.Errorf("unsupported language %q", name)
}

// keywordSet builds a lookup table from a list of spellings.
func keywordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
