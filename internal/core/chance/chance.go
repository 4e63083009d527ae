// Package chance implements the scalar random distributions used by the
// simulation: coin flips, bounded integers, scaled probability checks,
// probabilistic rounding, binomial trials and value fuzzing.
//
// Every function takes an explicit rng.Source so call sites decide which
// named stream their randomness is charged to. Degenerate inputs (empty
// ranges, non-positive denominators) return a defined default rather than
// failing; only outright caller contract violations panic.
package chance

import (
	"fmt"
	"math"

	"github.com/louisbranch/crawlspace/internal/core/rng"
)

// Coinflip is true with probability 1/2.
func Coinflip(src rng.Source) bool {
	return Random2(src, 2) == 1
}

// Random2 returns a uniform integer in [0, max). A max of zero or less
// yields 0 without consuming randomness.
//
// Output is unbiased: the draw range is divided into max equal partitions
// and draws past the last full partition are rejected. Bounds wider than
// 32 bits are served from 64-bit draws.
func Random2(src rng.Source, max int) int {
	if max <= 0 {
		return 0
	}

	if uint64(max) > math.MaxUint32 {
		partn := math.MaxUint64 / uint64(max)
		for {
			val := src.Uint64() / partn
			if val < uint64(max) {
				return int(val)
			}
		}
	}

	partn := uint32(math.MaxUint32 / uint64(max))
	for {
		val := src.Uint32() / partn
		if int(val) < max {
			return int(val)
		}
	}
}

// RandomReal returns a uniform float in [0, 1).
func RandomReal(src rng.Source) float64 {
	return float64(src.Uint32()) / 4294967296.0
}

// XChanceInY is true with probability x in y. Values of x at or below zero
// never succeed, x at or above y always succeeds, and a non-positive y
// never succeeds.
func XChanceInY(src rng.Source, x, y int) bool {
	if y <= 0 || x <= 0 {
		return false
	}
	if x >= y {
		return true
	}
	return Random2(src, y) < x
}

// XChanceInYFloat is the real-valued variant of XChanceInY for callers
// whose ratio is not an integer pair.
func XChanceInYFloat(src rng.Source, x, y float64) bool {
	if y <= 0 || x <= 0 {
		return false
	}
	if x >= y {
		return true
	}
	return RandomReal(src) < x/y
}

// OneChanceIn is true once in n on average.
func OneChanceIn(src rng.Source, n int) bool {
	return XChanceInY(src, 1, n)
}

// RandomRange returns a uniform integer in [low, high] inclusive. Callers
// must not invert the bounds.
func RandomRange(src rng.Source, low, high int) int {
	if low > high {
		panic(fmt.Sprintf("chance: inverted range [%d, %d]", low, high))
	}
	return low + Random2(src, high-low+1)
}

// RandomRangeAvg averages nrolls independent draws over [low, high],
// resolving the division remainder with an extra random draw. Larger nrolls
// bias the result toward the midpoint, which is how triangular and
// bell-shaped distributions are built from the uniform primitive.
func RandomRangeAvg(src rng.Source, low, high, nrolls int) int {
	if nrolls <= 0 {
		panic(fmt.Sprintf("chance: non-positive roll count %d", nrolls))
	}
	sum := 0
	for i := 0; i < nrolls; i++ {
		sum += RandomRange(src, low, high)
	}
	return DivRandRound(src, sum, nrolls)
}

// Random2Avg averages rolls draws the way Random2 would distribute a single
// one: the first draw is over [0, max), the rest over [0, max], keeping the
// expected value at (max-1)/2 while narrowing the spread.
func Random2Avg(src rng.Source, max, rolls int) int {
	if rolls <= 1 {
		return Random2(src, max)
	}
	sum := Random2(src, max)
	for i := 0; i < rolls-1; i++ {
		sum += Random2(src, max+1)
	}
	return sum / rolls
}

// DivRandRound divides num by den, rounding the remainder up with
// probability rem/den so that repeated calls average to the exact quotient.
// Inputs are expected to be non-negative; a non-positive den yields 0.
func DivRandRound(src rng.Source, num, den int) int {
	if den <= 0 {
		return 0
	}
	rem := num % den
	if rem > 0 && Random2(src, den) < rem {
		return num/den + 1
	}
	return num / den
}

// DivRoundUp divides num by den, rounding any remainder up.
func DivRoundUp(num, den int) int {
	return num/den + boolToInt(num%den > 0)
}

// RandRound rounds x to an integer, resolving the fractional part
// probabilistically: 3.25 rounds up a quarter of the time.
func RandRound(src rng.Source, x float64) int {
	f := math.Floor(x)
	n := int(f)
	if RandomReal(src) < x-f {
		n++
	}
	return n
}

// Binomial counts successes over nTrials independent trials, each
// succeeding with probability trialProb in scale.
func Binomial(src rng.Source, nTrials, trialProb, scale int) int {
	count := 0
	for i := 0; i < nTrials; i++ {
		if XChanceInY(src, trialProb, scale) {
			count++
		}
	}
	return count
}

// Bernoulli is a real-valued generalization of a binomial success check,
// true with the probability that at least one of nTrials trials with
// per-trial probability trialProb succeeds. Fractional trial counts are
// meaningful.
func Bernoulli(src rng.Source, nTrials, trialProb float64) bool {
	if nTrials <= 0 || trialProb <= 0 {
		return false
	}
	if trialProb >= 1 {
		return true
	}
	return RandomReal(src) < 1-math.Pow(1-trialProb, nTrials)
}

// FuzzValue adds asymmetric noise to val: up to lowfuzz percent below and
// highfuzz percent above, with naverage draws shaping the noise toward its
// midpoint.
func FuzzValue(src rng.Source, val, lowfuzz, highfuzz, naverage int) int {
	lfuzz := lowfuzz * val / 100
	hfuzz := highfuzz * val / 100
	return val + Random2Avg(src, lfuzz+hfuzz+1, naverage) - lfuzz
}

// DecimalChance is true with probability percent/100.
func DecimalChance(src rng.Source, percent float64) bool {
	return RandomReal(src) < percent/100.0
}

// MaybeRandom2 returns Random2(x) when randomFactor is set, and the
// deterministic midpoint x/2 otherwise. Used where a caller wants the same
// expected value with or without randomness.
func MaybeRandom2(src rng.Source, x int, randomFactor bool) int {
	if x <= 1 {
		return 0
	}
	if randomFactor {
		return Random2(src, x)
	}
	return x / 2
}

// MaybeRandomDiv divides nom by denom, randomly rounding when randomFactor
// is set and truncating otherwise.
func MaybeRandomDiv(src rng.Source, nom, denom int, randomFactor bool) int {
	if nom <= 0 {
		return 0
	}
	if randomFactor {
		return DivRandRound(src, nom, denom)
	}
	return nom / denom
}

// BiasedRandom2 returns an integer in [0, max) skewed toward zero: value i
// is returned when the first n+1-in-n+2 check succeeds at step i, so larger
// n concentrates results near zero.
func BiasedRandom2(src rng.Source, max, n int) int {
	for i := 0; i < max; i++ {
		if XChanceInY(src, n+1, n+2) {
			return i
		}
	}
	return 0
}

// Random2Limit counts how many of max draws over [0, limit) land above
// zero, a cheap bounded binomial used for skill-style checks.
func Random2Limit(src rng.Source, max, limit int) int {
	if max < 1 {
		return 0
	}
	sum := 0
	for i := 0; i < max; i++ {
		if Random2(src, limit) >= 1 {
			sum++
		}
	}
	return sum
}

// UIRandom draws a bounded integer from the cosmetic stream of a registry,
// keeping display-only randomness off the gameplay sequence.
func UIRandom(reg *rng.Registry, max int) int {
	return Random2(reg.Get(rng.StreamUI), max)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
