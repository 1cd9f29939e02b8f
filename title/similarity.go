package title

import "strings"

// Similarity scores how alike two strings are as a normalized edit distance:
// (maxLen - levenshtein(a, b)) / maxLen, case-insensitive. Two empty strings
// score 1.0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	ra := []rune(a)
	rb := []rune(b)
	longer, shorter := ra, rb
	if len(rb) > len(ra) {
		longer, shorter = rb, ra
	}
	if len(longer) == 0 {
		return 1.0
	}
	dist := levenshtein(longer, shorter)
	return float64(len(longer)-dist) / float64(len(longer))
}

// levenshtein computes the edit distance between two rune slices using a
// single rolling cost row.
func levenshtein(a, b []rune) int {
	costs := make([]int, len(b)+1)
	for j := range costs {
		costs[j] = j
	}
	for i := 1; i <= len(a); i++ {
		last := i
		for j := 1; j <= len(b); j++ {
			next := costs[j-1]
			if a[i-1] != b[j-1] {
				next = min(next, last, costs[j]) + 1
			}
			costs[j-1] = last
			last = next
		}
		costs[len(b)] = last
	}
	return costs[len(b)]
}
