package match

import (
	"fmt"
	"regexp"
	"strings"
)

// Glob compiles a path glob into a Pattern. The grammar has three wildcards:
//
//	**  zero or more whole path segments
//	*   any run of characters within a single segment (never crosses a /)
//	?   exactly one character
//
// Everything else is literal. The pattern is anchored against the whole
// path, so "*.tsx" matches "Button.tsx" but not "src/Button.tsx".
func Glob(pattern string) (Pattern, error) {
	if pattern == "" {
		return Pattern{}, fmt.Errorf("match: empty glob pattern")
	}
	re, err := regexp.Compile(globRegexp(pattern))
	if err != nil {
		return Pattern{}, fmt.Errorf("match: compile glob %q: %w", pattern, err)
	}
	return Pattern{kind: KindGlob, source: pattern, re: re}, nil
}

// globRegexp translates a glob into anchored regexp source. The double-star
// case is consumed before the single-star case so that "**" is never read as
// two independent "*" wildcards.
func globRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					// "**/" spans zero or more complete segments.
					b.WriteString(`(?:[^/]+/)*`)
					i += 3
					continue
				}
				b.WriteString(`.*`)
				i += 2
				continue
			}
			b.WriteString(`[^/]*`)
			i++
		case '?':
			b.WriteString(`.`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	b.WriteString("$")
	return b.String()
}
