// Package lazyrand implements an unbounded tree of persistent random
// decisions.
//
// Each Node owns one uniform fraction r in [0, 1), represented not as a
// stored float but as a lazily extended binary expansion: an append-only
// sequence of 32-bit chunks, grown only when a query needs more precision
// than the cached prefix resolves. Every query against the node is decided
// as if computed from the same fixed r, which buys two guarantees a fresh
// draw per call cannot:
//
//   - Consistency: the same query on the same node always returns the same
//     answer, no matter when it is repeated.
//   - Scale invariance: up to rounding, Random2(x)/x equals Random2(y)/y
//     for all x and y, and XChanceInY is monotonic in the ratio: a node
//     that passes a 1-in-10 check necessarily passes a 1-in-2 check.
//
// Nodes form a tree addressed by integer keys. Child(i) materializes the
// child on first access and returns the identical node on every later
// access, so a path through the tree names one reusable random decision.
//
// Nodes are not safe for concurrent use; callers sharing a tree across
// goroutines must synchronize externally.
package lazyrand

import (
	"fmt"

	"github.com/louisbranch/crawlspace/internal/core/rng"
)

// Node is one vertex of the lazy random tree. The zero value is unusable;
// construct the root with New. Children are created through Child and are
// owned exclusively by their parent.
type Node struct {
	src      rng.Source
	bits     []uint32
	children map[int]*Node
}

// New returns a root node drawing any needed bits from src. The node
// caches bits privately; it never re-reads randomness already drawn.
func New(src rng.Source) *Node {
	return &Node{src: src}
}

// XChanceInY reports whether the node's fraction r is below x/y, without
// ever materializing r exactly. A non-positive y is a caller contract
// violation and panics; x at or below zero is never true and x at or above
// y always is, with no bits consumed.
//
// The comparison narrows chunk by chunk: cached chunks are consumed first,
// and a fresh chunk is appended only while the answer is still undecided.
// Termination is almost sure, since each extra chunk leaves the query
// undecided with probability at most y/2^32.
func (n *Node) XChanceInY(x, y int) bool {
	if y <= 0 {
		panic(fmt.Sprintf("lazyrand: non-positive denominator %d", y))
	}
	return n.xChanceInYFrom(x, y, 0)
}

// xChanceInYFrom compares x/y against the expansion of r starting at the
// given chunk index, treating the chunks before it as already consumed.
func (n *Node) xChanceInYFrom(x, y, index int) bool {
	if x <= 0 {
		return false
	}
	if x >= y {
		return true
	}

	for {
		if index == len(n.bits) {
			n.bits = append(n.bits, n.src.Uint32())
		}
		chunk := uint64(n.bits[index])
		index++

		// The remaining fraction lies in [chunk, chunk+1) / 2^32. Compare
		// that interval against x/y at a common scale of y * 2^32.
		threshold := uint64(x) << 32
		lo := chunk * uint64(y)
		hi := lo + uint64(y)
		if threshold >= hi {
			return true
		}
		if threshold <= lo {
			return false
		}

		// Undecided: recurse into the interval. The leftover numerator is
		// strictly between 0 and y, so the loop invariant 0 < x < y holds.
		x = int(threshold - lo)
	}
}

// OneChanceIn is XChanceInY(1, n).
func (n *Node) OneChanceIn(in int) bool {
	return n.XChanceInY(1, in)
}

// Random2 returns floor(r * maxp1), an integer in [0, maxp1) consistent
// with the node's fraction: larger arguments refine, never contradict,
// earlier answers. A maxp1 of one or less yields 0 without touching the
// bit cache.
func (n *Node) Random2(maxp1 int) int {
	if maxp1 <= 1 {
		return 0
	}

	if len(n.bits) == 0 {
		n.bits = append(n.bits, n.src.Uint32())
	}

	// r*maxp1 lies in [lo, hi) / 2^32. If both ends land in the same
	// integer step the first chunk already decides the result.
	lo := uint64(n.bits[0]) * uint64(maxp1)
	hi := lo + uint64(maxp1)
	val1 := int(lo >> 32)
	val2 := int(hi >> 32)
	if val2 == val1+1 && uint32(hi) == 0 {
		// hi sits exactly on the step boundary, which the half-open
		// interval excludes.
		val2 = val1
	}
	if val1 == val2 {
		return val1
	}

	// The interval straddles one step boundary. Whether r falls below it
	// is itself a ratio comparison on the remaining bits.
	boundary := uint64(val2) << 32
	if n.xChanceInYFrom(int(boundary-lo), maxp1, 1) {
		return val1
	}
	return val2
}

// RandomRange returns low + floor(r * size) for the inclusive range
// [low, high]. Callers must not invert the bounds.
func (n *Node) RandomRange(low, high int) int {
	if low > high {
		panic(fmt.Sprintf("lazyrand: inverted range [%d, %d]", low, high))
	}
	return low + n.Random2(high-low+1)
}

// Random2Avg mirrors the eager Random2Avg shape on the tree: the node's
// own fraction supplies the first draw and children 1..rolls-1 supply the
// rest, so repeating the call reuses the same draws and yields the same
// answer.
func (n *Node) Random2Avg(max, rolls int) int {
	if rolls <= 1 {
		return n.Random2(max)
	}
	sum := n.Random2(max)
	for i := 1; i < rolls; i++ {
		sum += n.Child(i).Random2(max + 1)
	}
	return sum / rolls
}

// Child returns the child node keyed by i, creating it with an empty bit
// cache on first access. Two calls with the same key return the identical
// node.
func (n *Node) Child(i int) *Node {
	if n.children == nil {
		n.children = make(map[int]*Node)
	}
	c, ok := n.children[i]
	if !ok {
		c = &Node{src: n.src}
		n.children[i] = c
	}
	return c
}
