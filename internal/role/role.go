// Package role normalizes job titles and compares them loosely, so that
// certification suffixes on a title do not hide an otherwise matching role.
package role

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ignored holds certification and training qualifiers that are dropped before comparison.
var ignored = map[string]struct{}{
	"efz":      {},
	"eba":      {},
	"bbt":      {},
	"hf":       {},
	"fh":       {},
	"eidg.":    {},
	"eidg":     {},
	"dipl.":    {},
	"dipl":     {},
	"fa":       {},
	"bp":       {},
	"hfp":      {},
	"cfc":      {},
	"afp":      {},
	"lehre":    {},
	"lehrling": {},
}

// Normalize lowercases the title, drops certification qualifiers and collapses whitespace.
func Normalize(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	kept := fields[:0]
	for _, field := range fields {
		if _, skip := ignored[field]; skip {
			continue
		}
		kept = append(kept, field)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// Match reports whether two titles describe the same role. Both normalized forms
// must be non-empty; one has to contain the other.
func Match(a, b string) bool {
	na := fold(Normalize(a))
	nb := fold(Normalize(b))
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// fold strips combining marks so "Élektriker" and "elektriker" compare equal.
func fold(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
