package collector

import "fmt"

// FileRecord describes one regular file that passed every filter. Records
// are immutable once returned; the caller owns them.
type FileRecord struct {
	Path string // absolute or root-relative path as walked
	Size int64  // filesystem-reported length in bytes, 0 if stat failed
}

// WalkError records a directory that could not be enumerated during
// traversal. These are distinct from per-file open errors reported by the
// analysis phase.
type WalkError struct {
	Path string
	Err  error
}

func (e WalkError) Error() string {
	return fmt.Sprintf("reading directory %s: %v", e.Path, e.Err)
}

func (e WalkError) Unwrap() error { return e.Err }

// Result is the outcome of one traversal: every matching file plus every
// enumeration error encountered along the way. Both slices follow traversal
// order, which is depth-first in whatever order the filesystem yields
// entries; callers must not rely on any particular ordering.
type Result struct {
	Files  []FileRecord
	Errors []WalkError
}

// HasFiles reports whether any files were collected.
func (r Result) HasFiles() bool { return len(r.Files) > 0 }
