package match

import (
	"fmt"
	"regexp"
)

// Kind identifies the pattern form a routing rule uses. There are exactly
// two: path globs matched against file paths, and keyword expressions
// matched against task text.
type Kind int

const (
	KindGlob Kind = iota
	KindKeyword
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGlob:
		return "glob"
	case KindKeyword:
		return "keyword"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a configuration string onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "glob":
		return KindGlob, nil
	case "keyword":
		return KindKeyword, nil
	default:
		return 0, fmt.Errorf("match: unknown pattern kind %q (want \"glob\" or \"keyword\")", s)
	}
}

// Pattern is a compiled matcher. The zero value matches nothing.
type Pattern struct {
	kind   Kind
	source string
	re     *regexp.Regexp
}

// Compile builds a Pattern of the given kind from its source text.
func Compile(kind Kind, source string) (Pattern, error) {
	switch kind {
	case KindGlob:
		return Glob(source)
	case KindKeyword:
		return Keyword(source)
	default:
		return Pattern{}, fmt.Errorf("match: unknown pattern kind %d", int(kind))
	}
}

// Keyword compiles a case-insensitive regular expression that is applied,
// unanchored, to the whole task text.
func Keyword(expr string) (Pattern, error) {
	if expr == "" {
		return Pattern{}, fmt.Errorf("match: empty keyword pattern")
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("match: compile keyword %q: %w", expr, err)
	}
	return Pattern{kind: KindKeyword, source: expr, re: re}, nil
}

// Kind reports which form the pattern was compiled from.
func (p Pattern) Kind() Kind { return p.kind }

// Source returns the original pattern text as it appeared in configuration.
func (p Pattern) Source() string { return p.source }

// Matches reports whether the input satisfies the pattern. Glob patterns
// expect a slash-separated file path; keyword patterns expect task text.
func (p Pattern) Matches(input string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(input)
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s:%s", p.kind, p.source)
}
