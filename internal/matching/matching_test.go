package matching_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/digidex/internal/matching"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "SkullMeramon!! ", want: "skullmeramon"},
		{in: "", want: ""},
		{in: "Pico Devimon", want: "picodevimon"},
		{in: "V-dramon", want: "vdramon"},
		{in: "Imperialdramon(Dragon Mode)", want: "imperialdramondragonmode"},
		{in: "Atlur Kabuterimon (Blue)", want: "atlurkabuterimonblue"},
		{in: "Ünïcode", want: "ncode"},
		{in: "!!!", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, matching.Normalize(tc.in))
		})
	}
}

func TestDistance(t *testing.T) {
	testCases := []struct {
		a, b string
		want int
	}{
		{a: "", b: "", want: 0},
		{a: "abc", b: "", want: 3},
		{a: "", b: "abcd", want: 4},
		{a: "ab", b: "ba", want: 1},
		{a: "ca", b: "abc", want: 2},
		{a: "kitten", b: "sitting", want: 3},
		{a: "abcdef", b: "abdcef", want: 1},
		{a: "tailmon", b: "tialmon", want: 1},
		{a: "gatomon", b: "tailmon", want: 3},
		{a: "agumon", b: "agumon", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, matching.Distance(tc.a, tc.b))
		})
	}
}

func TestDistanceIdentityAndSymmetry(t *testing.T) {
	words := []string{"", "a", "agumon", "greymon", "metalgreymon", "wargreymon", "ab", "ba", "abc", "ca", "yukidarumon"}

	for _, a := range words {
		assert.Equal(t, 0, matching.Distance(a, a), "distance(%q, %q)", a, a)
		assert.Equal(t, 1.0, matching.Similarity(a, a), "similarity(%q, %q)", a, a)
		for _, b := range words {
			assert.Equal(t, matching.Distance(a, b), matching.Distance(b, a), "symmetry for %q/%q", a, b)
		}
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, matching.Similarity("", ""))
	assert.Equal(t, 0.0, matching.Similarity("abc", "xyz"))
	assert.Equal(t, 0.0, matching.Similarity("", "abc"))
	assert.InDelta(t, 0.5, matching.Similarity("ab", "abcd"), 1e-12)

	base := strings.Repeat("a", 25)
	threeOff := strings.Repeat("a", 22) + "bbb"
	assert.InDelta(t, 0.88, matching.Similarity(base, threeOff), 1e-12)
	assert.False(t, math.IsNaN(matching.Similarity("", "")))
}

func TestMeetsThreshold(t *testing.T) {
	base := strings.Repeat("a", 25)
	threeOff := strings.Repeat("a", 22) + "bbb"

	assert.True(t, matching.MeetsThreshold(matching.Similarity(base, threeOff), 0.88))
	assert.True(t, matching.MeetsThreshold(0.88, 0.88))
	assert.True(t, matching.MeetsThreshold(0.95, 0.88))
	assert.False(t, matching.MeetsThreshold(0.879999, 0.88))
	assert.False(t, matching.MeetsThreshold(0.70, 0.74))
	assert.False(t, matching.MeetsThreshold(math.NaN(), 0.1))
}
