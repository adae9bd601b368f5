// Package collector walks a directory tree applying a composable set of
// inclusion and exclusion rules, and partitions the outcome into usable
// files and enumeration errors.
package collector

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// Collector performs one filtered traversal. The rule set is fixed for the
// lifetime of the walk, which keeps results deterministic for a fixed
// filesystem snapshot.
type Collector struct {
	rules Rules

	// SkipErrors controls the enumeration-error policy: when true (the
	// default for callers) a directory that cannot be listed is recorded
	// and skipped; when false the first such error aborts the walk.
	SkipErrors bool

	// Ignore is an optional extra exclusion layer driven by a .gitignore
	// file. Nil means no gitignore filtering.
	Ignore gitignore.IgnoreMatcher

	logger *zap.Logger
}

// New creates a Collector with the given rules.
func New(rules Rules, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		rules:      rules,
		SkipErrors: true,
		logger:     logger,
	}
}

// Collect walks the tree rooted at root depth-first and returns every
// regular file whose ancestor chain contains no excluded directory and
// which passes the file rules, along with every enumeration error. When
// SkipErrors is false the first enumeration error aborts the walk and the
// partial result is discarded.
func (c *Collector) Collect(ctx context.Context, root string) (Result, error) {
	var res Result

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("resolving root path %s: %w", root, err)
	}

	// Visited canonical directory identities guard against symlink
	// cycles: a repeat is a non-fatal skip, not infinite recursion.
	seen := map[string]bool{}
	if canon, err := filepath.EvalSymlinks(absRoot); err == nil {
		seen[canon] = true
	}

	c.logger.Debug("starting collection", zap.String("root", absRoot))
	if err := c.walkDir(ctx, absRoot, absRoot, &res, seen); err != nil {
		return Result{}, err
	}
	c.logger.Debug("collection finished",
		zap.Int("files", len(res.Files)),
		zap.Int("errors", len(res.Errors)))

	return res, nil
}

func (c *Collector) walkDir(ctx context.Context, root, dir string, res *Result, seen map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if c.SkipErrors {
			c.logger.Warn("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
			res.Errors = append(res.Errors, WalkError{Path: dir, Err: err})
			return nil
		}
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir, size, ok := c.resolveEntry(entry, path)
		if !ok {
			continue
		}

		if isDir {
			if c.excludeDir(entry.Name(), path, root) {
				continue
			}
			if !c.markVisited(path, seen) {
				c.logger.Warn("skipping symlink cycle", zap.String("dir", path))
				continue
			}
			if err := c.walkDir(ctx, root, path, res, seen); err != nil {
				return err
			}
			continue
		}

		if c.includeFile(entry.Name(), path, root) {
			res.Files = append(res.Files, FileRecord{Path: path, Size: size})
		}
	}

	return nil
}

// resolveEntry classifies a directory entry as directory or regular file,
// following symlinks the way the platform stat does. Entries that are
// neither (sockets, dangling links) report ok=false. A failed size probe is
// non-fatal; the file stays in with size 0.
func (c *Collector) resolveEntry(entry fs.DirEntry, path string) (isDir bool, size int64, ok bool) {
	t := entry.Type()
	switch {
	case t.IsDir():
		return true, 0, true
	case t&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			return false, 0, false
		}
		if info.IsDir() {
			return true, 0, true
		}
		if info.Mode().IsRegular() {
			return false, info.Size(), true
		}
		return false, 0, false
	case t.IsRegular():
		info, err := entry.Info()
		if err != nil {
			return false, 0, true
		}
		return false, info.Size(), true
	default:
		return false, 0, false
	}
}

// excludeDir applies the directory tests in precedence order: dot-prefix,
// named exclusion, then the marker-file probe that writes off the whole
// subtree.
func (c *Collector) excludeDir(name, path, root string) bool {
	if c.rules.ExcludesDirName(name) {
		return true
	}
	if c.ignoreMatches(path, root, true) {
		return true
	}
	for _, marker := range c.rules.markerFiles {
		if _, err := os.Stat(filepath.Join(path, marker)); err == nil {
			c.logger.Debug("excluding subtree by marker file",
				zap.String("dir", path), zap.String("marker", marker))
			return true
		}
	}
	return false
}

// includeFile applies the file rules: a regular file is kept iff its
// extension matches and its filename is not excluded.
func (c *Collector) includeFile(name, path, root string) bool {
	if !c.rules.MatchesExtension(name) {
		return false
	}
	if c.rules.ExcludesFilename(name) {
		return false
	}
	if c.ignoreMatches(path, root, false) {
		return false
	}
	return true
}

func (c *Collector) ignoreMatches(path, root string, isDir bool) bool {
	if c.Ignore == nil {
		return false
	}
	// The matcher derives the pattern-relative path itself from its base
	// directory, so it must be given the full path.
	return c.Ignore.Match(path, isDir)
}

// markVisited records the canonical identity of a directory about to be
// entered. It reports false when the directory was already visited on this
// walk. Directories whose identity cannot be resolved are walked anyway.
func (c *Collector) markVisited(path string, seen map[string]bool) bool {
	canon, err := filepath.EvalSymlinks(path)
	if err != nil {
		return true
	}
	if seen[canon] {
		return false
	}
	seen[canon] = true
	return true
}
