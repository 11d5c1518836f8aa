package headings

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug lower-cases s, drops diacritics and collapses every run of
// characters that are not letters or digits into a single "-", with no
// leading or trailing separator.
func Slug(s string) string {
	decomposed := norm.NFD.String(s)

	var out strings.Builder
	out.Grow(len(decomposed))
	pendingSep := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && out.Len() > 0 {
				out.WriteByte('-')
			}
			pendingSep = false
			out.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return out.String()
}

// Matcher decides whether a heading denotes a property.
type Matcher interface {
	Match(heading string) bool
	String() string
}

// Fragment matches any heading whose slug contains the fragment's slug.
//
// "cases" matches "Cases", "number of cases" and also "vases", substring
// collisions like that are accepted.
type Fragment string

func (f Fragment) Match(heading string) bool {
	return strings.Contains(Slug(heading), Slug(string(f)))
}

func (f Fragment) String() string {
	return fmt.Sprintf("%q", string(f))
}

// Pattern matches a regular expression against the raw heading text, no
// slug normalization is applied.
type Pattern struct {
	re *regexp.Regexp
}

func NewPattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{re: re}, nil
}

func MustPattern(expr string) Pattern {
	p, err := NewPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) Match(heading string) bool {
	return p.re != nil && p.re.MatchString(heading)
}

func (p Pattern) String() string {
	if p.re == nil {
		return "//"
	}
	return "/" + p.re.String() + "/"
}

var patternFlags = map[rune]string{
	'i': "i",
	'm': "m",
	's': "s",
}

// ParseMatcher reads the text form used by source configs: "/body/flags"
// with flags drawn from i, m and s is a Pattern, anything else (including
// "/per/100k") is a Fragment.
func ParseMatcher(text string) (Matcher, error) {
	end := strings.LastIndex(text, "/")
	if !strings.HasPrefix(text, "/") || end <= 0 {
		return Fragment(text), nil
	}
	for _, f := range text[end+1:] {
		if _, ok := patternFlags[f]; !ok {
			return Fragment(text), nil
		}
	}

	body := text[1:end]
	flags := ""
	for _, f := range text[end+1:] {
		goFlag := patternFlags[f]
		if !strings.Contains(flags, goFlag) {
			flags += goFlag
		}
	}
	if flags != "" {
		body = "(?" + flags + ")" + body
	}

	p, err := NewPattern(body)
	if err != nil {
		return nil, fmt.Errorf("parse pattern %s: %w", text, err)
	}
	return p, nil
}

func matchAny(heading string, matchers []Matcher) bool {
	for _, m := range matchers {
		if m != nil && m.Match(heading) {
			return true
		}
	}
	return false
}
