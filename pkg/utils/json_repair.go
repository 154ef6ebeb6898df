package utils

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// codeFencePattern matches ```json and bare ``` markers in any case.
	codeFencePattern = regexp.MustCompile("(?i)```(?:json)?")
	// trailingCommaPattern matches a comma directly before } or ].
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	// controlCharPattern keeps \t, \n and \r.
	controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// ExtractJSON recovers a parseable JSON object from raw model output.
//
// The outermost {...} span is returned as is when it already parses. Only
// otherwise are markdown fences, comments, trailing commas and stray control
// characters removed, and if that still does not parse, the missing closing
// braces and brackets are appended once (see BalanceBrackets) before giving
// up with a *MalformedJSONError.
func ExtractJSON(raw string) (string, error) {
	s, ok := outermostObject(strings.TrimSpace(raw))
	if ok && json.Valid([]byte(s)) {
		return s, nil
	}

	s, ok = outermostObject(codeFencePattern.ReplaceAllString(strings.TrimSpace(raw), ""))
	if !ok {
		return "", ErrNoJSONFound
	}

	s = stripComments(s)
	s = StripTrailingCommas(s)
	s = controlCharPattern.ReplaceAllString(s, "")

	var probe any
	parseErr := json.Unmarshal([]byte(s), &probe)
	if parseErr == nil {
		return s, nil
	}

	repaired := StripTrailingCommas(BalanceBrackets(s))
	if err := json.Unmarshal([]byte(repaired), &probe); err == nil {
		return repaired, nil
	}

	return "", &MalformedJSONError{Cause: parseErr}
}

// outermostObject slices s from its first "{" to its last "}".
func outermostObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || start >= end {
		return "", false
	}
	return s[start : end+1], true
}

// ExtractJSONObject runs ExtractJSON and decodes the result.
func ExtractJSONObject(raw string) (map[string]any, error) {
	s, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, &MalformedJSONError{Cause: err}
	}
	return obj, nil
}

// StripTrailingCommas removes commas before } or ] until none are left.
// Removing one comma can expose another, so the pass runs to a fixpoint.
func StripTrailingCommas(s string) string {
	for {
		next := trailingCommaPattern.ReplaceAllString(s, "$1")
		if next == s {
			return s
		}
		s = next
	}
}

// BalanceBrackets appends the closers missing from a truncated document, in
// nesting order. Braces and brackets are counted without looking at string
// literals, so a "}" inside a string value throws the count off. This is a
// heuristic for truncated output, not a parser.
func BalanceBrackets(s string) string {
	open := make([]byte, 0, 16)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			open = append(open, s[i])
		case '}':
			open = popOpener(open, '{')
		case ']':
			open = popOpener(open, '[')
		}
	}
	if len(open) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(open))
	b.WriteString(s)
	for i := len(open) - 1; i >= 0; i-- {
		if open[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// popOpener drops the innermost opener of the given kind. Unmatched closers
// are ignored.
func popOpener(open []byte, kind byte) []byte {
	for j := len(open) - 1; j >= 0; j-- {
		if open[j] == kind {
			return append(open[:j], open[j+1:]...)
		}
	}
	return open
}

// stripComments removes // line comments and /* */ block comments that sit
// outside string literals, so URLs inside values survive.
func stripComments(s string) string {
	if !strings.Contains(s, "//") && !strings.Contains(s, "/*") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				nl := strings.IndexByte(s[i:], '\n')
				if nl == -1 {
					return b.String()
				}
				i += nl - 1
				continue
			case '*':
				closeIdx := strings.Index(s[i+2:], "*/")
				if closeIdx == -1 {
					return b.String()
				}
				i += closeIdx + 3
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}
