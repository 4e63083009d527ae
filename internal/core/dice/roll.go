package dice

import "github.com/louisbranch/crawlspace/internal/core/rng"

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// Roll captures the results for a single dice spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Request describes a request to roll one or more dice from a fixed seed.
type Request struct {
	Dice []Spec
	Seed uint64
}

// Result captures the results from rolling multiple dice.
type Result struct {
	Rolls []Roll
	Total int
}

// RollRequest rolls dice based on the provided request.
//
// # Determinism
//
// RollRequest is deterministic with respect to the Seed field on Request.
// Given the same Seed and the same Dice slice (including order and values),
// RollRequest will always produce the same Result. The draws come from a
// gameplay stream seeded for this request alone, so concurrent requests
// never interleave.
//
// # Ordering
//
// Dice specs in Request.Dice are processed in slice order. The resulting
// Roll entries in Result.Rolls appear in the same order as the
// corresponding Spec entries in Request.Dice.
//
// # Totals
//
// For each Roll in Result.Rolls, the Total field is the sum of all values
// in Results for that dice specification. The Result.Total field is the
// sum of Total for all Roll entries.
//
// # Errors
//
//   - At least one Spec must be provided in Request.Dice, otherwise
//     ErrMissingDice is returned.
//   - Each Spec must have Sides > 0 and Count > 0, otherwise
//     ErrInvalidDiceSpec is returned.
func RollRequest(request Request) (Result, error) {
	reg := rng.New(request.Seed)
	return RollSpecs(reg.Get(rng.StreamGameplay), request.Dice)
}

// RollSpecs rolls dice using a provided bit source. Useful when the caller
// owns the stream and wants several rolls charged to the same sequence.
func RollSpecs(src rng.Source, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0

	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}

		results := make([]int, spec.Count)
		rollTotal := 0
		for i := 0; i < spec.Count; i++ {
			value := RollDice(src, 1, spec.Sides)
			results[i] = value
			rollTotal += value
		}

		rolls = append(rolls, Roll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return Result{
		Rolls: rolls,
		Total: total,
	}, nil
}
