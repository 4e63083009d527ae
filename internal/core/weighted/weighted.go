// Package weighted implements single-pass weighted random selection.
//
// All four entry shapes share one reservoir rule: keep a running total of
// the weights seen so far and replace the current candidate with
// probability weight/total as each entry streams past. One traversal and
// O(1) extra state, so the sequence form works on lazy inputs that are
// expensive to materialize.
package weighted

import (
	"cmp"
	"iter"
	"slices"

	"github.com/louisbranch/crawlspace/internal/core/chance"
	"github.com/louisbranch/crawlspace/internal/core/rng"
)

// Pair couples a candidate value with its selection weight. Weights must
// be non-negative; zero-weight pairs are valid but never selected.
type Pair[T any] struct {
	Value  T
	Weight int
}

// Choose picks a key from choices with probability proportional to its
// weight. The second return is false when every weight is zero or the map
// is empty.
//
// Keys are visited in sorted order rather than Go map order, so a fixed
// seed replays the same selection on every run.
func Choose[K cmp.Ordered](src rng.Source, choices map[K]int) (K, bool) {
	keys := make([]K, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var result K
	found := false
	total := 0
	for _, k := range keys {
		w := choices[k]
		if w <= 0 {
			continue
		}
		total += w
		if chance.XChanceInY(src, w, total) {
			result = k
			found = true
		}
	}
	return result, found
}

// ChoosePair picks an entry from choices with probability proportional to
// its weight and returns a pointer to the chosen value inside the slice,
// so the caller can mutate the winner. Returns nil when every weight is
// zero or the slice is empty.
func ChoosePair[T any](src rng.Source, choices []Pair[T]) *T {
	var result *T
	total := 0
	for i := range choices {
		w := choices[i].Weight
		if w <= 0 {
			continue
		}
		total += w
		if chance.XChanceInY(src, w, total) {
			result = &choices[i].Value
		}
	}
	return result
}

// ChooseIndex picks an index into weights with probability proportional to
// the weight stored there. Entries with non-positive weight are skipped
// and contribute nothing to the total. Returns -1 when every entry was
// skipped.
func ChooseIndex(src rng.Source, weights []int) int {
	result := -1
	total := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		total += w
		if chance.XChanceInY(src, w, total) {
			result = i
		}
	}
	return result
}

// ChooseArgs picks one of the inline entries with probability proportional
// to its weight. When every weight is zero the final entry wins; callers
// rely on that for "default" entries, so the behavior is part of the
// contract.
func ChooseArgs[T any](src rng.Source, first Pair[T], rest ...Pair[T]) T {
	result := first.Value
	if len(rest) > 0 {
		result = rest[len(rest)-1].Value
	}
	total := 0
	update := func(p Pair[T]) {
		if p.Weight <= 0 {
			return
		}
		total += p.Weight
		if chance.XChanceInY(src, p.Weight, total) {
			result = p.Value
		}
	}
	update(first)
	for _, p := range rest {
		update(p)
	}
	return result
}

// ChooseFunc picks an element from a lazy sequence with probability
// proportional to weight(element), visiting each element exactly once and
// keeping O(1) state. The second return is false when the sequence is
// empty or every weight is zero.
//
// Intended for unbounded or expensive sequences, e.g. choosing uniformly
// among all positions at a given distance without enumerating them first.
func ChooseFunc[T any](src rng.Source, seq iter.Seq[T], weight func(T) int) (T, bool) {
	var result T
	found := false
	total := 0
	for v := range seq {
		w := weight(v)
		if w <= 0 {
			continue
		}
		total += w
		if chance.XChanceInY(src, w, total) {
			result = v
			found = true
		}
	}
	return result, found
}
