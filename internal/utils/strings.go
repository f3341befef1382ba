package utils

import "strings"

// NormalizeSeatNumber upper-cases and trims a seat label so "a1 " and "A1"
// address the same seat.
func NormalizeSeatNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeSeatNumbers cleans a list of labels, dropping empties and
// duplicates while preserving the caller's order.
func NormalizeSeatNumbers(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := map[string]bool{}
	for _, s := range raw {
		s = NormalizeSeatNumber(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// SplitSeatList splits comma/semicolon separated seat strings into cleaned
// slices. Kept for callers that still send "A1,A2" as one field.
func SplitSeatList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	out := []string{}
	for _, p := range parts {
		p = NormalizeSeatNumber(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
