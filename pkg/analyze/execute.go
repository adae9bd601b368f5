// Package analyze orchestrates a full run: collect files, classify them
// through a bounded worker pool, and merge everything into one report.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"

	"tally/pkg/collector"
	"tally/pkg/lang"
)

// Arguments holds the configuration for one analysis run. The CLI layer
// fills it from flags and config; the core treats it as plain data.
type Arguments struct {
	Path     string // root directory to analyze
	Language string // language identifier, aliases accepted

	ExcludeDirs      []string // extra directory names to exclude
	Extensions       []string // extra extensions to include
	ExcludeFilenames []string // extra filenames to exclude

	KeepDotDirs  bool // walk into dot-directories
	SkipErrors   bool // record unreadable directories instead of aborting
	UseGitignore bool // also honor .gitignore at the root
	MaxWorkers   int  // classification concurrency cap, 0 = NumCPU
	Verbose      bool // list collected files before analyzing
}

// Execute runs collection and classification for args and writes the
// report to out. Configuration errors surface before any traversal;
// an empty collection reports the no-files condition rather than an empty
// success.
func Execute(ctx context.Context, args Arguments, out io.Writer, logger *zap.Logger) error {
	start := time.Now()

	profile, err := lang.Lookup(args.Language)
	if err != nil {
		return err
	}

	rules, err := collector.NewRules(profile, collector.Overrides{
		Extensions:       args.Extensions,
		ExcludeDirs:      args.ExcludeDirs,
		ExcludeFilenames: args.ExcludeFilenames,
		KeepDotDirs:      args.KeepDotDirs,
	})
	if err != nil {
		return fmt.Errorf("invalid filter configuration: %w", err)
	}

	c := collector.New(rules, logger)
	c.SkipErrors = args.SkipErrors
	if args.UseGitignore {
		c.Ignore = loadGitignore(args.Path, logger)
	}

	logger.Info("gathering files",
		zap.String("path", args.Path),
		zap.String("language", string(profile.ID)))

	result, err := c.Collect(ctx, args.Path)
	if err != nil {
		return fmt.Errorf("gathering files: %w", err)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "Warning: %d directories could not be read.\n", len(result.Errors))
		if args.Verbose {
			for _, werr := range result.Errors {
				fmt.Fprintf(out, "  %v\n", werr)
			}
		}
	}

	if !result.HasFiles() {
		fmt.Fprintln(out, "No files found to analyze.")
		return nil
	}

	fmt.Fprintf(out, "Gathered %d files.\n", len(result.Files))
	if args.Verbose {
		for _, f := range result.Files {
			fmt.Fprintf(out, "  %s (%s)\n", f.Path, FormatSize(f.Size))
		}
	}

	agg, err := ClassifyFiles(ctx, result.Files, profile, args.MaxWorkers, logger)
	if err != nil {
		if errors.Is(err, ErrNoFiles) {
			fmt.Fprintln(out, "No files found to analyze.")
			return nil
		}
		return err
	}

	fmt.Fprintf(out, "\n%s", Render(agg, len(result.Errors)))
	logger.Info("analysis complete",
		zap.Int("files", agg.FilesTotal),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// loadGitignore parses the root's .gitignore if present. A missing or
// unreadable file just disables gitignore filtering.
func loadGitignore(root string, logger *zap.Logger) gitignore.IgnoreMatcher {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(path)
	if err != nil {
		logger.Warn("could not parse .gitignore", zap.String("path", path), zap.Error(err))
		return nil
	}
	return matcher
}
