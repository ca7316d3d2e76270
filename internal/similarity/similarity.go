// Package similarity scores lexical closeness between two strings.
package similarity

import "github.com/pmezard/go-difflib/difflib"

// Score returns 2*M/T where M is the number of characters matched by
// Ratcliff/Obershelp block matching and T is the combined length of a and b.
// The result is in [0, 1]; two empty strings score 1.
//
// Block matching breaks ties by position, so Score(a, b) and Score(b, a)
// can differ for some inputs.
func Score(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
