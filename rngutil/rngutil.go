// Package rngutil centralizes deterministic random generation for the
// placement engine, adapted directly from tsp/rng.go: the same
// seed-normalization policy and SplitMix64 stream-derivation mixer, so that
// any independent streams a caller derives stay decorrelated while
// remaining fully reproducible from one master seed (spec.md §4.F
// Determinism). The placement driver itself draws every random number from
// the single FromSeed stream.
//
// math/rand.Rand is not goroutine-safe; this module's single-threaded
// scheduling model (spec.md §5) means every *rand.Rand here has exactly one
// owner and is never shared across goroutines.
package rngutil

import "math/rand"

// defaultSeed is the fixed "zero" seed used when callers pass seed==0,
// kept stable so repeated runs with an unset seed remain comparable.
const defaultSeed int64 = 1

// FromSeed returns a deterministic *rand.Rand. Policy: seed==0 uses
// defaultSeed; any other value is used verbatim.
func FromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultSeed
	}

	return rand.New(rand.NewSource(s))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit
// seed using the canonical SplitMix64 finalizer (Vigna 2014), giving strong
// bit diffusion so nearby parents/streams do not produce correlated seeds.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// Derive creates an independent deterministic RNG stream from a base RNG
// and a stream identifier. If base is nil, defaultSeed is used as the
// parent. Otherwise base.Int63() is consumed once to decorrelate
// consecutive derivations before mixing in stream.
//
// A derived stream's sequence does not depend on how often the base or any
// other derived stream is drawn from after derivation. No package in this
// module calls Derive; the special move generator shares the driver's
// single stream.
func Derive(base *rand.Rand, stream uint64) *rand.Rand {
	var parent int64
	if base == nil {
		parent = defaultSeed
	} else {
		parent = base.Int63()
	}

	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}
