// Package dice implements dice descriptors and dice rolling on top of the
// scalar distributions.
package dice

import (
	"errors"

	"github.com/louisbranch/crawlspace/internal/core/chance"
	"github.com/louisbranch/crawlspace/internal/core/rng"
)

// ErrMissingDice indicates a roll request had no dice specified.
var ErrMissingDice = errors.New("at least one die must be provided")

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")

// Descriptor is an immutable (count, faces) pair describing a
// sum-of-uniform-draws distribution, such as 3d8.
type Descriptor struct {
	Num  int
	Size int
}

// Roll sums Num independent draws over [1, Size]. A zero count or zero
// size rolls nothing and yields 0.
func (d Descriptor) Roll(src rng.Source) int {
	return RollDice(src, d.Num, d.Size)
}

// RollDice sums num independent uniform draws over [1, size].
func RollDice(src rng.Source, num, size int) int {
	if num <= 0 || size <= 0 {
		return 0
	}
	sum := 0
	for i := 0; i < num; i++ {
		sum += 1 + chance.Random2(src, size)
	}
	return sum
}

// MaybeRollDice rolls num dice of the given size when random is set, and
// returns the deterministic expected value otherwise.
func MaybeRollDice(src rng.Source, num, size int, random bool) int {
	if random {
		return RollDice(src, num, size)
	}
	return (num + num*size) / 2
}

// CalcDice derives a Descriptor with roughly numDice dice whose maximum
// roll lands close to maxDamage. A balancing helper for content design,
// not a distribution in its own right: the die size is randomly rounded,
// so repeated calls can differ by one.
func CalcDice(src rng.Source, numDice, maxDamage int) Descriptor {
	ret := Descriptor{Num: numDice}

	switch {
	case numDice <= 1:
		ret.Num = 1
		ret.Size = maxDamage
	case maxDamage <= numDice:
		ret.Num = maxDamage
		ret.Size = 1
	default:
		ret.Size = chance.DivRandRound(src, maxDamage, numDice)
	}
	return ret
}
