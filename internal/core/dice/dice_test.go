package dice

import (
	"testing"

	"github.com/louisbranch/crawlspace/internal/core/rng"
)

func TestRollDiceBounds(t *testing.T) {
	src := rng.NewPCG(1)

	tests := []struct {
		name      string
		num, size int
	}{
		{"1d6", 1, 6},
		{"3d8", 3, 8},
		{"10d1", 10, 1},
		{"2d20", 2, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				got := RollDice(src, tt.num, tt.size)
				if got < tt.num || got > tt.num*tt.size {
					t.Fatalf("RollDice(%d, %d) = %d, want [%d, %d]",
						tt.num, tt.size, got, tt.num, tt.num*tt.size)
				}
			}
		})
	}
}

func TestRollDiceDegenerate(t *testing.T) {
	src := rng.NewPCG(1)

	tests := []struct {
		name      string
		num, size int
	}{
		{"zero count", 0, 6},
		{"zero size", 3, 0},
		{"negative count", -1, 6},
		{"negative size", 3, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RollDice(src, tt.num, tt.size); got != 0 {
				t.Errorf("RollDice(%d, %d) = %d, want 0", tt.num, tt.size, got)
			}
		})
	}
}

func TestDescriptorRoll(t *testing.T) {
	src := rng.NewPCG(2)

	d := Descriptor{Num: 2, Size: 6}
	for i := 0; i < 1000; i++ {
		got := d.Roll(src)
		if got < 2 || got > 12 {
			t.Fatalf("2d6 roll = %d, want [2, 12]", got)
		}
	}

	if got := (Descriptor{}).Roll(src); got != 0 {
		t.Errorf("zero descriptor roll = %d, want 0", got)
	}
}

func TestMaybeRollDice(t *testing.T) {
	src := rng.NewPCG(3)

	if got := MaybeRollDice(src, 2, 6, false); got != 7 {
		t.Errorf("MaybeRollDice(2, 6, false) = %d, want 7", got)
	}
	for i := 0; i < 100; i++ {
		got := MaybeRollDice(src, 2, 6, true)
		if got < 2 || got > 12 {
			t.Fatalf("MaybeRollDice(2, 6, true) = %d, want [2, 12]", got)
		}
	}
}

func TestCalcDice(t *testing.T) {
	src := rng.NewPCG(4)

	tests := []struct {
		name              string
		numDice, maxDmg   int
		wantNum, wantSize int
	}{
		{"single die", 1, 20, 1, 20},
		{"zero dice", 0, 15, 1, 15},
		{"damage below count", 5, 3, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcDice(src, tt.numDice, tt.maxDmg)
			if got.Num != tt.wantNum || got.Size != tt.wantSize {
				t.Errorf("CalcDice(%d, %d) = %+v, want {%d %d}",
					tt.numDice, tt.maxDmg, got, tt.wantNum, tt.wantSize)
			}
		})
	}

	// The randomly rounded case: expected maximum stays near maxDamage.
	for i := 0; i < 100; i++ {
		got := CalcDice(src, 3, 20)
		if got.Num != 3 {
			t.Fatalf("CalcDice(3, 20).Num = %d, want 3", got.Num)
		}
		if max := got.Num * got.Size; max < 18 || max > 21 {
			t.Fatalf("CalcDice(3, 20) max roll = %d, want near 20", max)
		}
	}
}

func TestRollRequest(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{
			name: "single d6",
			request: Request{
				Dice: []Spec{{Sides: 6, Count: 1}},
				Seed: 42,
			},
		},
		{
			name: "2d6 + 1d8",
			request: Request{
				Dice: []Spec{
					{Sides: 6, Count: 2},
					{Sides: 8, Count: 1},
				},
				Seed: 42,
			},
		},
		{
			name:    "no dice",
			request: Request{Seed: 42},
			wantErr: ErrMissingDice,
		},
		{
			name: "invalid sides",
			request: Request{
				Dice: []Spec{{Sides: 0, Count: 1}},
				Seed: 42,
			},
			wantErr: ErrInvalidDiceSpec,
		},
		{
			name: "invalid count",
			request: Request{
				Dice: []Spec{{Sides: 6, Count: 0}},
				Seed: 42,
			},
			wantErr: ErrInvalidDiceSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RollRequest(tt.request)
			if err != tt.wantErr {
				t.Fatalf("RollRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if len(result.Rolls) != len(tt.request.Dice) {
				t.Fatalf("got %d roll groups, want %d", len(result.Rolls), len(tt.request.Dice))
			}
			total := 0
			for i, roll := range result.Rolls {
				spec := tt.request.Dice[i]
				if roll.Sides != spec.Sides || len(roll.Results) != spec.Count {
					t.Errorf("roll %d = %+v, want %d results of d%d", i, roll, spec.Count, spec.Sides)
				}
				groupTotal := 0
				for _, v := range roll.Results {
					if v < 1 || v > spec.Sides {
						t.Errorf("roll %d result %d out of [1, %d]", i, v, spec.Sides)
					}
					groupTotal += v
				}
				if groupTotal != roll.Total {
					t.Errorf("roll %d total = %d, want %d", i, roll.Total, groupTotal)
				}
				total += groupTotal
			}
			if total != result.Total {
				t.Errorf("result total = %d, want %d", result.Total, total)
			}
		})
	}
}

func TestRollRequestDeterministic(t *testing.T) {
	req := Request{
		Dice: []Spec{{Sides: 20, Count: 4}, {Sides: 6, Count: 2}},
		Seed: 7,
	}

	a, err := RollRequest(req)
	if err != nil {
		t.Fatalf("RollRequest: %v", err)
	}
	b, err := RollRequest(req)
	if err != nil {
		t.Fatalf("RollRequest: %v", err)
	}

	if a.Total != b.Total {
		t.Fatalf("totals differ for identical requests: %d vs %d", a.Total, b.Total)
	}
	for i := range a.Rolls {
		for j := range a.Rolls[i].Results {
			if a.Rolls[i].Results[j] != b.Rolls[i].Results[j] {
				t.Fatalf("roll %d die %d differs: %d vs %d",
					i, j, a.Rolls[i].Results[j], b.Rolls[i].Results[j])
			}
		}
	}
}
