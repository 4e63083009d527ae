package lazyrand

import (
	"math"
	"testing"

	"github.com/louisbranch/crawlspace/internal/core/chance"
	"github.com/louisbranch/crawlspace/internal/core/rng"
)

func TestXChanceInYConsistent(t *testing.T) {
	src := rng.NewPCG(1)

	for trial := 0; trial < 100; trial++ {
		n := New(src)
		x := 1 + chance.Random2(src, 99)
		y := x + 1 + chance.Random2(src, 100)

		first := n.XChanceInY(x, y)
		for i := 0; i < 10; i++ {
			if got := n.XChanceInY(x, y); got != first {
				t.Fatalf("XChanceInY(%d, %d) flipped from %v to %v on repeat", x, y, first, got)
			}
		}
	}
}

func TestXChanceInYMonotonic(t *testing.T) {
	src := rng.NewPCG(42)

	// For one node, a true answer at a smaller ratio forces a true answer
	// at any larger ratio: both are decided from the same fraction.
	for trial := 0; trial < 1000; trial++ {
		n := New(src)

		x1 := 1 + chance.Random2(src, 50)
		y1 := x1 + 1 + chance.Random2(src, 200)
		x2 := 1 + chance.Random2(src, 50)
		y2 := x2 + 1 + chance.Random2(src, 200)

		// Order the two ratios so p1 <= p2.
		if x1*y2 > x2*y1 {
			x1, y1, x2, y2 = x2, y2, x1, y1
		}

		small := n.XChanceInY(x1, y1)
		large := n.XChanceInY(x2, y2)
		if small && !large {
			t.Fatalf("node true at %d/%d but false at larger ratio %d/%d", x1, y1, x2, y2)
		}
	}
}

func TestXChanceInYRate(t *testing.T) {
	src := rng.NewPCG(7)

	tests := []struct {
		name string
		x, y int
	}{
		{"1 in 2", 1, 2},
		{"1 in 7", 1, 7},
		{"9 in 10", 9, 10},
	}

	const trials = 50000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := 0
			for i := 0; i < trials; i++ {
				if New(src).XChanceInY(tt.x, tt.y) {
					hits++
				}
			}
			got := float64(hits) / trials
			want := float64(tt.x) / float64(tt.y)
			if math.Abs(got-want) > 0.02 {
				t.Errorf("true rate = %.4f, want %.4f ± 0.02", got, want)
			}
		})
	}
}

func TestXChanceInYEdges(t *testing.T) {
	src := rng.NewPCG(1)
	n := New(src)

	if n.XChanceInY(0, 10) {
		t.Error("XChanceInY(0, 10) = true")
	}
	if n.XChanceInY(-3, 10) {
		t.Error("XChanceInY(-3, 10) = true")
	}
	if !n.XChanceInY(10, 10) {
		t.Error("XChanceInY(10, 10) = false")
	}
	if !n.XChanceInY(11, 10) {
		t.Error("XChanceInY(11, 10) = false")
	}
	if len(n.bits) != 0 {
		t.Errorf("trivial queries consumed %d bit chunks", len(n.bits))
	}
}

func TestXChanceInYNonPositiveDenominatorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("XChanceInY(1, 0) did not panic")
		}
	}()
	New(rng.NewPCG(1)).XChanceInY(1, 0)
}

func TestRandom2ScaleInvariant(t *testing.T) {
	src := rng.NewPCG(11)

	// Except for rounding, Random2(x)/x must equal Random2(y)/y on one
	// node: both are projections of the same fraction.
	scales := []int{2, 7, 10, 100, 1000, 65536}
	for trial := 0; trial < 500; trial++ {
		n := New(src)
		for _, x := range scales {
			for _, y := range scales {
				a := n.Random2(x)
				b := n.Random2(y)
				diff := math.Abs(float64(a)/float64(x) - float64(b)/float64(y))
				bound := 1.0/float64(x) + 1.0/float64(y)
				if diff >= bound {
					t.Fatalf("Random2(%d)=%d and Random2(%d)=%d disagree: |%.6f| >= %.6f",
						x, a, y, b, diff, bound)
				}
			}
		}
	}
}

func TestRandom2ConsistentWithXChanceInY(t *testing.T) {
	src := rng.NewPCG(13)

	// Random2(y) < x and XChanceInY(x, y) answer the same question about
	// the node's fraction, so they must agree.
	for trial := 0; trial < 1000; trial++ {
		n := New(src)
		x := 1 + chance.Random2(src, 20)
		y := x + 1 + chance.Random2(src, 50)

		fromRandom2 := n.Random2(y) < x
		fromChance := n.XChanceInY(x, y)
		if fromRandom2 != fromChance {
			t.Fatalf("Random2(%d) < %d is %v but XChanceInY(%d, %d) is %v",
				y, x, fromRandom2, x, y, fromChance)
		}
	}
}

func TestRandom2Bounds(t *testing.T) {
	src := rng.NewPCG(17)

	for trial := 0; trial < 1000; trial++ {
		n := New(src)
		if got := n.Random2(10); got < 0 || got >= 10 {
			t.Fatalf("Random2(10) = %d, out of [0, 10)", got)
		}
		if got := n.Random2(0); got != 0 {
			t.Fatalf("Random2(0) = %d, want 0", got)
		}
		if got := n.Random2(1); got != 0 {
			t.Fatalf("Random2(1) = %d, want 0", got)
		}
	}
}

func TestRandom2Uniform(t *testing.T) {
	src := rng.NewPCG(19)

	const max = 8
	const trials = 80000
	counts := make([]int, max)
	for i := 0; i < trials; i++ {
		counts[New(src).Random2(max)]++
	}

	expected := float64(trials) / max
	chi2 := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	// 18.48 is the 99th percentile for 7 degrees of freedom.
	if chi2 > 18.48 {
		t.Errorf("chi-square = %.2f over 99th percentile, counts %v", chi2, counts)
	}
}

func TestRandomRange(t *testing.T) {
	src := rng.NewPCG(23)

	for trial := 0; trial < 1000; trial++ {
		n := New(src)
		got := n.RandomRange(5, 9)
		if got < 5 || got > 9 {
			t.Fatalf("RandomRange(5, 9) = %d, out of bounds", got)
		}
		if again := n.RandomRange(5, 9); again != got {
			t.Fatalf("RandomRange flipped from %d to %d on repeat", got, again)
		}
	}
}

func TestRandom2AvgConsistent(t *testing.T) {
	src := rng.NewPCG(29)

	for trial := 0; trial < 200; trial++ {
		n := New(src)
		got := n.Random2Avg(20, 3)
		if got < 0 || got > 20 {
			t.Fatalf("Random2Avg(20, 3) = %d, out of [0, 20]", got)
		}
		for i := 0; i < 5; i++ {
			if again := n.Random2Avg(20, 3); again != got {
				t.Fatalf("Random2Avg flipped from %d to %d on repeat", got, again)
			}
		}
	}
}

func TestChildReferentialStability(t *testing.T) {
	src := rng.NewPCG(31)
	root := New(src)

	a := root.Child(5)
	b := root.Child(5)
	if a != b {
		t.Fatal("Child(5) returned two different nodes")
	}

	// A decision made through one handle is reproduced through the other.
	first := a.XChanceInY(1, 3)
	if got := b.XChanceInY(1, 3); got != first {
		t.Errorf("decision through second handle = %v, want %v", got, first)
	}

	if root.Child(6) == a {
		t.Error("Child(6) aliases Child(5)")
	}
}

func TestDeepPathsIndependent(t *testing.T) {
	src := rng.NewPCG(37)
	root := New(src)

	// Sibling paths own independent fractions; same path repeats.
	got := make(map[bool]int)
	for i := 0; i < 100; i++ {
		got[root.Child(i).Child(0).XChanceInY(1, 2)]++
	}
	if got[true] == 0 || got[false] == 0 {
		t.Errorf("100 sibling paths all agreed: %v", got)
	}

	first := root.Child(3).Child(1).XChanceInY(2, 5)
	if again := root.Child(3).Child(1).XChanceInY(2, 5); again != first {
		t.Error("same path gave a different answer on revisit")
	}
}

func TestBitsAppendOnly(t *testing.T) {
	src := rng.NewPCG(41)
	n := New(src)

	n.XChanceInY(1, 2)
	prefix := append([]uint32(nil), n.bits...)

	// Finer queries may extend the cache but never rewrite the prefix.
	n.XChanceInY(1, 1000003)
	n.Random2(999999937)
	if len(n.bits) < len(prefix) {
		t.Fatalf("bit cache shrank from %d to %d chunks", len(prefix), len(n.bits))
	}
	for i, b := range prefix {
		if n.bits[i] != b {
			t.Fatalf("chunk %d rewritten: %#x -> %#x", i, b, n.bits[i])
		}
	}
}

func TestDeterministicAcrossTrees(t *testing.T) {
	build := func() []int {
		src := rng.NewPCG(4242)
		root := New(src)
		out := []int{
			root.Random2(100),
			root.Child(1).Random2(100),
			root.Child(2).RandomRange(10, 20),
		}
		if root.Child(1).OneChanceIn(3) {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
		return out
	}

	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tree walk diverged at step %d: %d vs %d", i, a[i], b[i])
		}
	}
}
