package chance

import "github.com/louisbranch/crawlspace/internal/core/rng"

// Shuffle permutes s in place with a Fisher-Yates walk from the end of the
// slice, producing a uniform random permutation.
func Shuffle[S ~[]E, E any](src rng.Source, s S) {
	for n := len(s); n > 1; {
		i := Random2(src, n)
		n--
		s[i], s[n] = s[n], s[i]
	}
}

// Choose picks one of the supplied values uniformly at random.
func Choose[T any](src rng.Source, first T, rest ...T) T {
	i := Random2(src, 1+len(rest))
	if i == 0 {
		return first
	}
	return rest[i-1]
}
