// eval.go implements static position evaluation: material, tapered
// piece-square tables and a handful of structural terms, blended
// between a middlegame and an endgame score by the remaining material
// on the board. The weights are hand-set constants rather than fit by
// an offline tuning pass against a labelled game corpus, so they aim
// for reasonable play rather than tuned precision.

package engine

const (
	// KnownWinScore is strictly greater than every score Evaluate can
	// return, leaving room above it for mate scores.
	KnownWinScore = 25000
	KnownLossScore = -KnownWinScore
	// MateScore - ply is the score for delivering mate ply plies from
	// the root; MatedScore + ply is the score for being mated there.
	MateScore = 30000
	MatedScore = -MateScore
	// InfinityScore bounds the search window; -InfinityScore is its floor.
	InfinityScore = 32000
)

// Score is a middlegame/endgame pair, blended by game phase.
type Score struct {
	MG, EG int32
}

func (s Score) Add(o Score) Score { return Score{s.MG + o.MG, s.EG + o.EG} }
func (s Score) Sub(o Score) Score { return Score{s.MG - o.MG, s.EG - o.EG} }
func (s Score) Neg() Score        { return Score{-s.MG, -s.EG} }

var pieceValue = [PieceTypeArraySize]Score{
	NoPieceType: {0, 0},
	Pawn:        {100, 120},
	Knight:      {320, 300},
	Bishop:      {330, 320},
	Rook:        {500, 540},
	Queen:       {950, 970},
	King:        {0, 0},
}

// phaseWeight contributes to the 0..totalPhase game-phase counter;
// more non-pawn material on the board means a more middlegame-like
// position.
var phaseWeight = [PieceTypeArraySize]int32{
	NoPieceType: 0,
	Pawn:        0,
	Knight:      1,
	Bishop:      1,
	Rook:        2,
	Queen:       4,
	King:        0,
}

// totalPhase is the phase-counter value at the start of the game: 4
// knights + 4 bishops (weight 1 each), 4 rooks (weight 2 each) and 2
// queens (weight 4 each) = 4 + 4 + 8 + 8 = 24.
const totalPhase = 24

// pst holds, per piece type, a white-to-move-oriented 64 entry table
// indexed by square with a1=0. Black's contribution is looked up by
// mirroring the square vertically.
var pst = [PieceTypeArraySize][SquareArraySize]Score{
	Pawn: {
		{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
		{5, 10}, {10, 10}, {10, 10}, {-20, 10}, {-20, 10}, {10, 10}, {10, 10}, {5, 10},
		{5, 5}, {-5, 5}, {-10, 5}, {0, 5}, {0, 5}, {-10, 5}, {-5, 5}, {5, 5},
		{0, 10}, {0, 10}, {0, 10}, {20, 15}, {20, 15}, {0, 10}, {0, 10}, {0, 10},
		{5, 20}, {5, 20}, {10, 20}, {25, 25}, {25, 25}, {10, 20}, {5, 20}, {5, 20},
		{10, 35}, {10, 35}, {20, 35}, {30, 35}, {30, 35}, {20, 35}, {10, 35}, {10, 35},
		{50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55},
		{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
	},
	Knight: {
		{-50, -50}, {-40, -30}, {-30, -20}, {-30, -20}, {-30, -20}, {-30, -20}, {-40, -30}, {-50, -50},
		{-40, -30}, {-20, -20}, {0, 0}, {5, 5}, {5, 5}, {0, 0}, {-20, -20}, {-40, -30},
		{-30, -20}, {5, 0}, {10, 10}, {15, 15}, {15, 15}, {10, 10}, {5, 0}, {-30, -20},
		{-30, -20}, {0, 0}, {15, 10}, {20, 15}, {20, 15}, {15, 10}, {0, 0}, {-30, -20},
		{-30, -20}, {5, 0}, {15, 10}, {20, 15}, {20, 15}, {15, 10}, {5, 0}, {-30, -20},
		{-30, -20}, {0, 0}, {10, 10}, {15, 15}, {15, 15}, {10, 10}, {0, 0}, {-30, -20},
		{-40, -30}, {-20, -20}, {0, 0}, {0, 5}, {0, 5}, {0, 0}, {-20, -20}, {-40, -30},
		{-50, -50}, {-40, -30}, {-30, -20}, {-30, -20}, {-30, -20}, {-30, -20}, {-40, -30}, {-50, -50},
	},
	Bishop: {
		{-20, -20}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-20, -20},
		{-10, -10}, {5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {5, 0}, {-10, -10},
		{-10, -10}, {10, 0}, {10, 0}, {10, 0}, {10, 0}, {10, 0}, {10, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {10, 0}, {10, 0}, {10, 0}, {10, 0}, {0, 0}, {-10, -10},
		{-10, -10}, {5, 0}, {5, 0}, {10, 0}, {10, 0}, {5, 0}, {5, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {5, 0}, {10, 0}, {10, 0}, {5, 0}, {0, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-20, -20}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-20, -20},
	},
	Rook: {
		{0, 0}, {0, 0}, {0, 5}, {5, 5}, {5, 5}, {0, 5}, {0, 0}, {0, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{5, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {5, 5},
		{0, 5}, {0, 5}, {0, 5}, {5, 10}, {5, 10}, {0, 5}, {0, 5}, {0, 5},
	},
	Queen: {
		{-20, -20}, {-10, -10}, {-10, -10}, {-5, -5}, {-5, -5}, {-10, -10}, {-10, -10}, {-20, -20},
		{-10, -10}, {0, 0}, {5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-10, -10}, {5, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-10, -10},
		{0, 0}, {0, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-5, 0},
		{-10, -10}, {0, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-20, -20}, {-10, -10}, {-10, -10}, {-5, -5}, {-5, -5}, {-10, -10}, {-10, -10}, {-20, -20},
	},
	King: {
		{20, -50}, {30, -30}, {10, -30}, {0, -30}, {0, -30}, {10, -30}, {30, -30}, {20, -50},
		{20, -30}, {20, -30}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {20, -30}, {20, -30},
		{-10, -30}, {-20, -10}, {-20, 20}, {-20, 30}, {-20, 30}, {-20, 20}, {-20, -10}, {-10, -30},
		{-20, -30}, {-30, -10}, {-30, 30}, {-40, 40}, {-40, 40}, {-30, 30}, {-30, -10}, {-20, -30},
		{-30, -30}, {-40, -10}, {-40, 30}, {-50, 40}, {-50, 40}, {-40, 30}, {-40, -10}, {-30, -30},
		{-30, -30}, {-40, -10}, {-40, 20}, {-50, 30}, {-50, 30}, {-40, 20}, {-40, -10}, {-30, -30},
		{-30, -30}, {-40, -20}, {-40, 0}, {-50, 10}, {-50, 10}, {-40, 0}, {-40, -20}, {-30, -30},
		{-30, -50}, {-40, -40}, {-40, -30}, {-50, -20}, {-50, -20}, {-40, -30}, {-40, -40}, {-30, -50},
	},
}

// tempoBonus rewards the side to move, reflecting that having the
// move is worth a fraction of a pawn on average.
const tempoBonus = 10

func flipSquare(sq Square) Square { return sq ^ 56 }

// Evaluate returns a static score for pos from the side-to-move's
// point of view: positive favours the side to move, the scale is
// roughly centipawns, and Evaluate(pos) == Evaluate(mirrored pos), where
// the mirror swaps piece colors, flips the ranks and gives the move to
// the other side (checked by eval_test.go).
func Evaluate(pos *Position) int32 {
	var total Score
	var phase int32

	for pt := Pawn; pt <= King; pt++ {
		whiteBB := pos.byPiece(White, pt)
		for whiteBB != 0 {
			sq := whiteBB.Pop()
			total = total.Add(pieceValue[pt]).Add(pst[pt][sq])
			phase += phaseWeight[pt]
		}
		blackBB := pos.byPiece(Black, pt)
		for blackBB != 0 {
			sq := blackBB.Pop()
			total = total.Sub(pieceValue[pt]).Sub(pst[pt][flipSquare(sq)])
			phase += phaseWeight[pt]
		}
	}

	total = total.Add(pawnStructureScore(pos))

	if phase > totalPhase {
		phase = totalPhase
	}
	mix := (total.MG*phase + total.EG*(totalPhase-phase)) / totalPhase

	if pos.SideToMove == Black {
		mix = -mix
	}
	mix += tempoBonus

	if mix > KnownWinScore-1 {
		mix = KnownWinScore - 1
	}
	if mix < KnownLossScore+1 {
		mix = KnownLossScore + 1
	}
	return mix
}
