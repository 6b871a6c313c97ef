package engine

import "math/bits"

// trailingZeros64 and popcount64 wrap math/bits: on amd64/arm64 these
// compile to the native TZCNT/POPCNT instructions, so there is no
// third-party bitboard-intrinsics package to reach for here (unlike
// the hand-rolled de Bruijn lookup tables some engines in the pack
// use, e.g. treepeck-chego/bitutil).
func trailingZeros64(x uint64) int { return bits.TrailingZeros64(x) }

func popcount64(x uint64) int { return bits.OnesCount64(x) }
