package resolve

// Similarity returns a normalized edit-distance similarity in [0,1]:
// 1 for identical strings, 0 for completely different ones. Inputs are
// expected to be normalized already (lowercase, diacritics stripped).
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	dist := levenshtein(ra, rb)
	max := len(ra)
	if len(rb) > max {
		max = len(rb)
	}
	return 1 - float64(dist)/float64(max)
}

// levenshtein computes edit distance with a two-row table.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
