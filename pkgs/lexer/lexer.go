// Package lexer implements phase 1 of the parser: turning raw source text
// into an ordered sequence of analyzed Lines (indent level + tokens), ready
// for the tree-construction phase in pkgs/parser. This is deliberately a
// thin, allocation-light pass: no token types, no lookahead state machine —
// just indentation counting and whitespace/quote-aware splitting.
package lexer

import (
	"strings"

	"github.com/loomscript/loom/pkgs/errors"
)

// Line is an analyzed source line: its indent level (0-based, two spaces
// per level) and its tokens. Transient — consumed once by the parser.
type Line struct {
	Indent int
	Tokens []string
	Number int // 1-based source line number, for error reporting
}

// Analyze runs phase 1 over source text: split on \r?\n, filter blank and
// comment lines, compute indentation, and tokenize. Fails fast on the first
// odd indent count.
func Analyze(source string) ([]Line, error) {
	rawLines := splitLines(source)
	lines := make([]Line, 0, len(rawLines))

	for i, raw := range rawLines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		spaces := countLeadingSpaces(raw)
		if spaces%2 != 0 {
			return nil, errors.NewLex(lineNo, raw, "Invalid indentation")
		}

		lines = append(lines, Line{
			Indent: spaces / 2,
			Tokens: tokenize(trimmed),
			Number: lineNo,
		})
	}

	return lines, nil
}

// splitLines splits on \n, stripping a trailing \r from each segment so both
// \n and \r\n line endings are recognized.
func splitLines(source string) []string {
	parts := strings.Split(source, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

// countLeadingSpaces counts leading ASCII U+0020 space characters only;
// tabs are not recognized as indentation.
func countLeadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// tokenize scans trimmed left to right. A lexeme is either a double-quoted
// span (quotes included, no escape interpretation) or a maximal run of
// non-whitespace characters; whitespace between lexemes is discarded.
func tokenize(trimmed string) []string {
	var tokens []string
	i := 0
	n := len(trimmed)

	for i < n {
		for i < n && isSpace(trimmed[i]) {
			i++
		}
		if i >= n {
			break
		}

		if trimmed[i] == '"' {
			start := i
			i++
			for i < n && trimmed[i] != '"' {
				i++
			}
			if i < n {
				i++ // consume closing quote
			}
			tokens = append(tokens, trimmed[start:i])
			continue
		}

		start := i
		for i < n && !isSpace(trimmed[i]) {
			i++
		}
		tokens = append(tokens, trimmed[start:i])
	}

	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}
