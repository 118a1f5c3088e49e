package matching

import "math"

// similarityTolerance absorbs float rounding so that a score which is exactly
// a threshold in rational terms (22/25 vs 0.88) is not rejected.
const similarityTolerance = 1e-9

// Distance returns the unrestricted Damerau-Levenshtein distance between a
// and b, compared byte by byte. Insertion, deletion, substitution and
// transposition of adjacent characters each cost 1, and a transposition may
// be combined with earlier edits ("ca" -> "abc" is 2, not 3).
func Distance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// d is offset by one in both dimensions so row/column -1 hold the
	// sentinel used by the transposition lookback.
	inf := la + lb
	d := make([][]int, la+2)
	for i := range d {
		d[i] = make([]int, lb+2)
	}
	d[0][0] = inf
	for i := 0; i <= la; i++ {
		d[i+1][0] = inf
		d[i+1][1] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j+1] = inf
		d[1][j+1] = j
	}

	// lastRow[c] is the last row of a in which byte c occurred.
	var lastRow [256]int

	for i := 1; i <= la; i++ {
		lastMatchCol := 0
		for j := 1; j <= lb; j++ {
			k := lastRow[b[j-1]]
			l := lastMatchCol

			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
				lastMatchCol = j
			}

			d[i+1][j+1] = min(
				d[i][j]+cost,              // substitution
				d[i+1][j]+1,               // insertion
				d[i][j+1]+1,               // deletion
				d[k][l]+(i-k-1)+1+(j-l-1), // transposition
			)
		}
		lastRow[a[i-1]] = i
	}

	return d[la+1][lb+1]
}

// Similarity returns 1 - Distance(a, b)/max(len(a), len(b)), in [0, 1].
// Two empty strings are identical and score 1.
func Similarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Distance(a, b))/float64(maxLen)
}

// MeetsThreshold reports whether similarity reaches threshold.
func MeetsThreshold(similarity, threshold float64) bool {
	if math.IsNaN(similarity) {
		return false
	}
	return similarity >= threshold-similarityTolerance
}
