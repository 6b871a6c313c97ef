// zobrist.go builds the random key tables used for incremental
// position hashing.
//
// More information on Zobrist hashing can be found in the paper:
// http://research.cs.wisc.edu/techreports/1970/TR88.pdf

package engine

import "math/rand"

var (
	// zobristPiece[pi][sq] is XORed in whenever pi sits on sq.
	zobristPiece [PieceArraySize][SquareArraySize]uint64
	// zobristCastleRook[sq] is XORed in for every rook square that
	// currently retains castling rights.
	zobristCastleRook [SquareArraySize]uint64
	// zobristEnpassant[file] is XORed in when an en-passant capture is
	// legal on that file; index 8 is used for "no en-passant file".
	zobristEnpassant [9]uint64
	// zobristSideToMove is XORed in iff it is Black to move.
	zobristSideToMove uint64
)

func rand64(r *rand.Rand) uint64 {
	return uint64(r.Int63())<<32 ^ uint64(r.Int63())
}

func init() {
	// Seeded deterministically so that two processes (or two runs of
	// perft) agree on the same Zobrist keys.
	r := rand.New(rand.NewSource(1))

	for pi := 0; pi < PieceArraySize; pi++ {
		for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
			zobristPiece[pi][sq] = rand64(r)
		}
	}
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		zobristCastleRook[sq] = rand64(r)
	}
	for f := 0; f < 9; f++ {
		zobristEnpassant[f] = rand64(r)
	}
	zobristSideToMove = rand64(r)
}

// enpassantFileKey returns the Zobrist key for the en-passant file, or
// the "no en-passant" key if sq is NoSquare.
func enpassantFileKey(sq Square) uint64 {
	if sq == NoSquare {
		return zobristEnpassant[8]
	}
	return zobristEnpassant[sq.File()]
}
