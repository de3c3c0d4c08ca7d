package graph

import (
	"regexp"
	"strings"
)

var (
	// **Bob Dylan** - mentioned at 00:12 -> Bob Dylan
	reEmphasisCitation = regexp.MustCompile(`^\s*\*{1,2}([^*]+?)\*{1,2}\s*-\s.*$`)
	// Joan Baez - [00:12, 01:45] - Newport footage -> Joan Baez
	// Joan Baez [00:12] -> Joan Baez
	reTimestampTail = regexp.MustCompile(`(?:\s*-)?\s*\[\s*\d{1,2}:\d{2}[^\]]*\].*$`)
)

// Placeholder labels that upstream extraction sometimes captures as entity
// names. They are category headers, not entities, and are rejected outright.
var placeholderNames = map[string]struct{}{
	"artists":         {},
	"musicians":       {},
	"poets":           {},
	"entities":        {},
	"people":          {},
	"primary subject": {},
	"various artists": {},
	"unknown":         {},
	"unknown artist":  {},
	"n/a":             {},
}

// Normalize cleans a raw entity name into its canonical form.
//
// It collapses a leading emphasis-plus-citation pattern to the emphasized
// term, strips trailing video-transcript timestamp fragments, and trims
// surrounding asterisk, quote and whitespace noise. The second return value
// is false when the input normalizes to nothing usable: an empty string, a
// known placeholder label, or a URL.
//
// Normalize is idempotent: applying it to its own accepted output returns
// that output unchanged.
func Normalize(raw string) (string, bool) {
	name := raw

	if m := reEmphasisCitation.FindStringSubmatch(name); m != nil {
		name = m[1]
	}
	name = reTimestampTail.ReplaceAllString(name, "")
	name = strings.Trim(name, "*\"'` \t\r\n")

	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)
	if _, ok := placeholderNames[lower]; ok {
		return "", false
	}
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return "", false
	}

	return name, true
}
