package member

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTags trims and NFKC-folds each tag, drops empties and keeps the
// first occurrence of duplicates. Full-width input such as "ＶＩＰ" folds to "VIP".
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseTags splits a comma separated tag string (ASCII or full-width commas).
func ParseTags(s string) []string {
	s = strings.ReplaceAll(s, "，", ",")
	return NormalizeTags(strings.Split(s, ","))
}

// NormalizeEmail returns the comparison key for an email address.
// A Caser keeps state, so each call gets its own.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func normalizeTag(t string) string {
	return strings.TrimSpace(norm.NFKC.String(t))
}
