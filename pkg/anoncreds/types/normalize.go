package types

import "strings"

// AttrCommonView normalizes an attribute name for cross-side comparison:
// strip ASCII whitespace, lower-case. Idempotent.
func AttrCommonView(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}
