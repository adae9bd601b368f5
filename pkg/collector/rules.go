package collector

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"tally/pkg/lang"
)

// ErrDotDirExclusion is returned by NewRules when a dot-prefixed directory
// name is listed in the exclude-dirs set while blanket dot-directory
// exclusion is enabled. The two mechanisms are disjoint; the conflict is
// rejected up front instead of being silently merged.
var ErrDotDirExclusion = errors.New("dot-directories are excluded as a group; drop the entry or disable dot-directory exclusion")

// Overrides carries user-supplied additions to a language profile's
// defaults. The collector treats these as plain data; parsing and
// normalization of CLI input happens elsewhere.
type Overrides struct {
	Extensions       []string
	ExcludeDirs      []string
	ExcludeFilenames []string

	// KeepDotDirs disables the default behavior of excluding every
	// dot-prefixed directory. The profile's own dot-directory list still
	// applies, as an ordinary named exclusion.
	KeepDotDirs bool
}

// Rules is the immutable filter set applied during one traversal. Name
// comparison is case-sensitive on case-sensitive filesystems and
// case-insensitive on Windows; the normalization happens once here, not per
// comparison.
type Rules struct {
	extensions       map[string]bool
	excludeDirs      map[string]bool
	excludeFilenames map[string]bool
	markerFiles      []string
	excludeDotDirs   bool
	foldCase         bool
}

// NewRules builds the filter set for one run from a language profile plus
// user overrides. It is the only constructor; an invalid combination is
// reported here, before any traversal starts.
func NewRules(profile lang.Profile, o Overrides) (Rules, error) {
	r := Rules{
		extensions:       make(map[string]bool),
		excludeDirs:      make(map[string]bool),
		excludeFilenames: make(map[string]bool),
		excludeDotDirs:   !o.KeepDotDirs,
		foldCase:         runtime.GOOS == "windows",
	}

	// Extensions are compared case-insensitively on every platform.
	for _, ext := range profile.Extensions {
		r.extensions[normalizeExt(ext)] = true
	}
	for _, ext := range o.Extensions {
		r.extensions[normalizeExt(ext)] = true
	}

	for _, dir := range profile.ExcludeDirs {
		r.excludeDirs[r.fold(dir)] = true
	}
	for _, dir := range o.ExcludeDirs {
		if r.excludeDotDirs && strings.HasPrefix(dir, ".") {
			return Rules{}, fmt.Errorf("exclude dir %q: %w", dir, ErrDotDirExclusion)
		}
		r.excludeDirs[r.fold(dir)] = true
	}
	if !r.excludeDotDirs {
		// Without blanket dot-dir exclusion the profile's known dot
		// directories become ordinary named exclusions.
		for _, dir := range profile.ExcludeDotDirs {
			r.excludeDirs[r.fold(dir)] = true
		}
	}

	for _, name := range profile.ExcludeFilenames {
		r.excludeFilenames[r.fold(name)] = true
	}
	for _, name := range o.ExcludeFilenames {
		r.excludeFilenames[r.fold(name)] = true
	}

	r.markerFiles = append(r.markerFiles, profile.MarkerFiles...)

	return r, nil
}

// MatchesExtension reports whether a filename's extension is in the
// allowed set. Files without an extension never match.
func (r Rules) MatchesExtension(name string) bool {
	// A lone leading dot is a hidden file, not an extension.
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return false
	}
	return r.extensions[strings.ToLower(name[i+1:])]
}

// ExcludesFilename reports whether the exact filename is excluded.
func (r Rules) ExcludesFilename(name string) bool {
	return r.excludeFilenames[r.fold(name)]
}

// ExcludesDirName applies the name-based directory tests, in precedence
// order: dot-prefix first, then the named exclusion set. Marker-file
// probing needs filesystem access and lives on the Collector.
func (r Rules) ExcludesDirName(name string) bool {
	if r.excludeDotDirs && strings.HasPrefix(name, ".") {
		return true
	}
	return r.excludeDirs[r.fold(name)]
}

func (r Rules) fold(s string) string {
	if r.foldCase {
		return strings.ToLower(s)
	}
	return s
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
