// Package rng implements the seedable bit source that backs every other
// randomness package: a small permuted-congruential generator (PCG) and a
// registry of named, independently seeded streams.
//
// # Determinism
//
// Given the same seed and the same sequence of calls, a PCG produces the
// same sequence of outputs. Streams in a Registry are isolated from each
// other: drawing from one stream never advances another, and reseeding one
// stream leaves the rest untouched. This is what makes simulation replay
// possible while cosmetic consumers draw freely from their own stream.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Source is the minimal bit-source contract accepted by the distribution
// packages. *PCG satisfies it; tests may substitute scripted sources.
type Source interface {
	Uint32() uint32
	Uint64() uint64
}

const pcgMultiplier = 6364136223846793005

// PCG is a 32-bit output PCG-XSH-RR generator with a 64-bit state and a
// 64-bit stream increment. The zero value is not ready for use; construct
// with NewPCG or call Reseed first.
type PCG struct {
	state uint64
	inc   uint64
}

// NewPCG returns a generator seeded from a single value. The state and the
// stream increment are expanded from the seed through SplitMix64 so that
// nearby seeds still produce unrelated sequences.
func NewPCG(seed uint64) *PCG {
	p := &PCG{}
	p.Reseed(seed)
	return p
}

// NewPCGStream returns a generator seeded from a value and an explicit
// stream selector. Two generators with the same seed but different streams
// produce unrelated sequences.
func NewPCGStream(seed, stream uint64) *PCG {
	p := &PCG{}
	p.reseed(splitmix64(seed), stream)
	return p
}

// Reseed resets the generator to the sequence defined by seed, discarding
// all prior state.
func (p *PCG) Reseed(seed uint64) {
	x := splitmix64(seed)
	p.reseed(x, splitmix64(x))
}

// ReseedVector resets the generator from an explicit state vector. A
// one-element vector behaves like Reseed; a two-element vector sets the raw
// state and stream selector directly. Longer vectors are folded into the
// first two words.
func (p *PCG) ReseedVector(vec []uint64) error {
	switch {
	case len(vec) == 0:
		return fmt.Errorf("reseed: empty state vector")
	case len(vec) == 1:
		p.Reseed(vec[0])
	default:
		state, inc := vec[0], vec[1]
		for _, v := range vec[2:] {
			state = splitmix64(state ^ v)
		}
		p.reseed(state, inc)
	}
	return nil
}

func (p *PCG) reseed(initState, initSeq uint64) {
	p.state = 0
	p.inc = (initSeq << 1) | 1
	p.Uint32()
	p.state += initState
	p.Uint32()
}

// Uint32 advances the generator and returns the next 32 bits.
func (p *PCG) Uint32() uint32 {
	old := p.state
	p.state = old*pcgMultiplier + p.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Uint64 returns the next 64 bits as two 32-bit draws, high word first.
func (p *PCG) Uint64() uint64 {
	hi := uint64(p.Uint32())
	lo := uint64(p.Uint32())
	return hi<<32 | lo
}

// splitmix64 is the seed-expansion mixer used to derive generator state
// from user-supplied seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// NewSeed generates a high-entropy seed using crypto/rand, suitable for
// initializing a Registry when no replay seed is supplied.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
