package classify

import (
	"unicode"

	"tally/pkg/lang"
)

// pythonEngine classifies Python source lines. Comment syntax is `#` to
// end of line; multiline state comes from triple-quoted literals, whose
// delimiter rune (single or double quote) is carried between lines.
type pythonEngine struct {
	profile lang.Profile
}

func (e *pythonEngine) ClassifyLine(line string, st State) (LineResult, State) {
	res := LineResult{Keywords: map[string]int{}}
	runes := []rune(line)

	i := 0
	sawCode := false
	entered := false
	exited := false

	if st.OpenLiteral != "" {
		// Inside a docstring: only the matching terminator matters.
		// When found, normal scanning resumes on the same line.
		j := indexFrom(runes, 0, st.OpenLiteral)
		if j < 0 {
			res.Kind = NonCode
			return res, st
		}
		i = j + len([]rune(st.OpenLiteral))
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
		case ch == '#':
			// Comment runs to end of line.
			flush()
			break scan

		case ch == '\'' || ch == '"':
			flush()
			if isTripleQuote(runes, i, ch) {
				delim := string([]rune{ch, ch, ch})
				j := indexFrom(runes, i+3, delim)
				if j < 0 {
					st.OpenLiteral = delim
					entered = true
					break scan
				}
				// One-line docstring: contents skipped, and the
				// literal itself does not make the line code.
				i = j + 3
				continue
			}
			// Single-line string: contents skipped for keyword
			// matching, but the line still counts as code.
			i = consumeQuoted(runes, i)
			sawCode = true

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

// isTripleQuote reports whether three identical quote runes start at i.
func isTripleQuote(runes []rune, i int, quote rune) bool {
	return i+2 < len(runes) && runes[i+1] == quote && runes[i+2] == quote
}

// consumeQuoted skips a single-line string literal starting at the quote
// rune at i, honoring backslash escapes. It returns the index just past
// the closing quote, or the end of line for an unterminated literal
// (single-quoted Python strings cannot span lines).
func consumeQuoted(runes []rune, i int) int {
	quote := runes[i]
	j := i + 1
	for j < len(runes) {
		switch runes[j] {
		case '\\':
			j += 2
		case quote:
			return j + 1
		default:
			j++
		}
	}
	return len(runes)
}
