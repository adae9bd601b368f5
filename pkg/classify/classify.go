// Package classify implements the per-language line classification
// engines. Each engine consumes a file as a stream of lines, threading a
// small lexical state across line boundaries, and decides for every line
// whether it is code while counting keyword occurrences outside comments
// and string literals.
package classify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode"

	"tally/pkg/lang"
)

// Kind tags the classification of a single line.
type Kind int

const (
	// NonCode marks blank lines, comment-only lines, and lines fully
	// inside a multiline literal.
	NonCode Kind = iota
	// Code marks a line with at least one token outside comments and
	// literal interiors.
	Code
	// EnterLiteral marks a line whose multiline literal opener found no
	// closer before end of line.
	EnterLiteral
	// ExitLiteral marks a line that closes an open multiline literal
	// with no code after the closer.
	ExitLiteral
)

// State is the lexical carry-over between consecutive lines of one file.
// It must start empty for every new file; literal and comment state never
// crosses file boundaries.
type State struct {
	// OpenLiteral is the exact closing sequence of an unterminated
	// string or docstring literal, empty when no literal is open. Raw
	// string openers with delimiter runs record their full closer here
	// so a longer marker sequence is never closed prematurely.
	OpenLiteral string

	// OpenComment is set while inside an unterminated block comment.
	// Block comments get their own slot: a line can never carry both an
	// open block comment and an open multiline string.
	OpenComment bool
}

// Open reports whether any multiline region is open.
func (s State) Open() bool { return s.OpenLiteral != "" || s.OpenComment }

// LineResult is the externalized outcome of classifying one line, which
// lets the state machine be exercised line-by-line without a real file.
// Keywords are only merged into file statistics for Code lines.
type LineResult struct {
	Kind     Kind
	Keywords map[string]int
}

// Engine classifies lines for one language. Implementations are stateless;
// all carry-over lives in the State value threaded by the caller.
type Engine interface {
	ClassifyLine(line string, st State) (LineResult, State)
}

// NewEngine returns the line classification engine for a profile.
func NewEngine(profile lang.Profile) (Engine, error) {
	switch profile.ID {
	case lang.Python:
		return &pythonEngine{profile: profile}, nil
	case lang.Rust:
		return &rustEngine{profile: profile}, nil
	}
	return nil, fmt.Errorf("no classifier for language %q", profile.ID)
}

// FileStats is the per-file outcome of running an engine to completion.
type FileStats struct {
	Valid      bool
	LinesTotal int
	CodeLines  int
	Keywords   map[string]int
}

// Classify runs the engine over r line by line with fresh state. An
// unterminated literal at end of file is not an error; it simply stops
// accumulating.
func Classify(r io.Reader, eng Engine) (FileStats, error) {
	stats := FileStats{Valid: true, Keywords: map[string]int{}}
	st := State{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		stats.LinesTotal++
		res, next := eng.ClassifyLine(sc.Text(), st)
		st = next
		if res.Kind == Code {
			stats.CodeLines++
			for kw, n := range res.Keywords {
				stats.Keywords[kw] += n
			}
		}
	}
	if err := sc.Err(); err != nil {
		return FileStats{}, fmt.Errorf("reading lines: %w", err)
	}

	return stats, nil
}

// ClassifyFile opens path and classifies its content. A file that cannot
// be opened or read produces no FileStats; the caller counts it invalid.
func ClassifyFile(path string, eng Engine) (FileStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileStats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stats, err := Classify(f, eng)
	if err != nil {
		return FileStats{}, fmt.Errorf("classifying %s: %w", path, err)
	}
	return stats, nil
}

// isIdentRune reports whether r can be part of an identifier. Any other
// rune terminates the current token; the completed run gets exactly one
// keyword-table lookup.
func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// indexFrom returns the rune index of the first occurrence of sep at or
// after start, or -1.
func indexFrom(runes []rune, start int, sep string) int {
	sepRunes := []rune(sep)
	if len(sepRunes) == 0 {
		return -1
	}
	for i := start; i+len(sepRunes) <= len(runes); i++ {
		match := true
		for j, sr := range sepRunes {
			if runes[i+j] != sr {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
