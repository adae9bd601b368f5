package classify

import (
	"strings"
	"unicode"

	"tally/pkg/lang"
)

// rustEngine classifies Rust source lines. It tracks two kinds of
// carry-over: block comments (`/* ... */`, not nested; the first closer
// ends the region) and string literals, both plain `"..."` and raw
// `r##"..."##` forms. A raw opener records its exact closing sequence so a
// longer delimiter run is never closed early.
type rustEngine struct {
	profile lang.Profile
}

func (e *rustEngine) ClassifyLine(line string, st State) (LineResult, State) {
	res := LineResult{Keywords: map[string]int{}}
	runes := []rune(line)

	i := 0
	sawCode := false
	entered := false
	exited := false

	switch {
	case st.OpenComment:
		j := indexFrom(runes, 0, "*/")
		if j < 0 {
			res.Kind = NonCode
			return res, st
		}
		i = j + 2
		st.OpenComment = false
	case st.OpenLiteral != "":
		j := findStringEnd(runes, 0, st.OpenLiteral)
		if j < 0 {
			res.Kind = NonCode
			return res, st
		}
		i = j
		st.OpenLiteral = ""
		exited = true
	}

	var buf []rune
	flush := func() {
		if len(buf) == 0 {
			return
		}
		if e.profile.IsKeyword(string(buf)) {
			res.Keywords[string(buf)]++
		}
		buf = buf[:0]
	}

scan:
	for i < len(runes) {
		ch := runes[i]
		switch {
		case ch == '/' && i+1 < len(runes) && runes[i+1] == '/':
			flush()
			break scan

		case ch == '/' && i+1 < len(runes) && runes[i+1] == '*':
			flush()
			j := indexFrom(runes, i+2, "*/")
			if j < 0 {
				st.OpenComment = true
				break scan
			}
			// Closer on the same line: resume after it.
			i = j + 2

		case ch == 'r' && len(buf) == 0 && isRawOpener(runes, i):
			closer, quoteIdx := rawCloser(runes, i)
			sawCode = true
			end := indexFrom(runes, quoteIdx+1, closer)
			if end < 0 {
				st.OpenLiteral = closer
				entered = true
				break scan
			}
			i = end + len([]rune(closer))

		case ch == '"':
			flush()
			sawCode = true
			end := findStringEnd(runes, i+1, `"`)
			if end < 0 {
				st.OpenLiteral = `"`
				entered = true
				break scan
			}
			i = end

		case ch == '\'':
			flush()
			sawCode = true
			if isCharLiteral(runes, i) {
				i = skipCharLiteral(runes, i)
			} else {
				// Lifetime: skip the tick and its identifier so
				// spellings like 'static never hit the keyword table.
				i = skipLifetime(runes, i)
			}

		case isIdentRune(ch):
			buf = append(buf, ch)
			sawCode = true
			i++

		default:
			flush()
			if !unicode.IsSpace(ch) {
				sawCode = true
			}
			i++
		}
	}
	flush()

	switch {
	case sawCode:
		res.Kind = Code
	case entered:
		res.Kind = EnterLiteral
	case exited:
		res.Kind = ExitLiteral
	default:
		res.Kind = NonCode
	}
	return res, st
}

// isRawOpener reports whether the rune at i starts a raw string literal:
// `r`, zero or more `#`, then `"`.
func isRawOpener(runes []rune, i int) bool {
	j := i + 1
	for j < len(runes) && runes[j] == '#' {
		j++
	}
	return j < len(runes) && runes[j] == '"'
}

// rawCloser returns the exact closing sequence for the raw string opener
// at i (a quote followed by the opener's `#` run) and the index of the
// opening quote.
func rawCloser(runes []rune, i int) (closer string, quoteIdx int) {
	hashes := 0
	j := i + 1
	for j < len(runes) && runes[j] == '#' {
		hashes++
		j++
	}
	return `"` + strings.Repeat("#", hashes), j
}

// findStringEnd scans for the end of a string literal whose closing
// sequence is closer, returning the index just past it or -1. For the
// plain `"` closer the scan honors backslash escapes; raw closers match
// verbatim.
func findStringEnd(runes []rune, start int, closer string) int {
	if closer == `"` {
		j := start
		for j < len(runes) {
			switch runes[j] {
			case '\\':
				j += 2
			case '"':
				return j + 1
			default:
				j++
			}
		}
		return -1
	}
	j := indexFrom(runes, start, closer)
	if j < 0 {
		return -1
	}
	return j + len([]rune(closer))
}

// isCharLiteral distinguishes `'a'` and `'\n'` from lifetimes like
// 'static: a char literal has its closing quote within two runes or opens
// with an escape.
func isCharLiteral(runes []rune, i int) bool {
	if i+1 >= len(runes) {
		return false
	}
	if runes[i+1] == '\\' {
		return true
	}
	return i+2 < len(runes) && runes[i+2] == '\''
}

// skipCharLiteral returns the index just past the closing quote of the
// char literal starting at i, or end of line if unterminated.
func skipCharLiteral(runes []rune, i int) int {
	j := i + 1
	for j < len(runes) {
		switch runes[j] {
		case '\\':
			j += 2
		case '\'':
			return j + 1
		default:
			j++
		}
	}
	return len(runes)
}

// skipLifetime returns the index just past the lifetime identifier
// starting at the tick at i.
func skipLifetime(runes []rune, i int) int {
	j := i + 1
	for j < len(runes) && isIdentRune(runes[j]) {
		j++
	}
	return j
}
