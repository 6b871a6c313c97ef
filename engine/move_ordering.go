// move_ordering.go implements staged move generation: the picker
// hands moves to the search one at a time, in the order they are
// statistically most likely to cause a beta cutoff, without ever
// materialising and sorting the full move list up front unless a
// stage actually needs to.
//
// The stages run in a fixed sequence: the transposition table's
// remembered best move, then captures (capturing promotions
// included) that look materially safe (by static exchange
// evaluation), then the two killer moves for this ply, then the
// unsafe captures, and finally the remaining quiet moves (non-capturing
// promotions and castling included) ordered by history score.

package engine

import "sort"

// MaxPly bounds how deep the search can go; killer and history tables
// are sized against it.
const MaxPly = 128

type pickerState int

const (
	psHashMove pickerState = iota
	psGenNoisy
	psGiveGoodNoisy
	psKiller1
	psKiller2
	psGiveBadNoisy
	psGenQuiet
	psGiveQuiet
	psDone
)

// MovePicker hands out the pseudo-legal moves of a position one at a
// time, in staged order. The caller is responsible for actually
// playing each move (via Position.MakeMove) and skipping it if that
// fails, so the picker never checks king safety. Killers come from
// sibling nodes, so they are handed out only when they are quiet
// pseudo-legal moves of this position.
type MovePicker struct {
	pos     *Position
	history *HistoryTable

	hashMove Move
	killers  [2]Move

	noisyOnly bool
	state     pickerState

	good []ScoredMove
	bad  []ScoredMove
	quiet []ScoredMove
	idx  int
}

// NewMovePicker builds a picker for pos. hashMove is the transposition
// table's remembered move for this position (NullMove if none).
// killer1/killer2 are this ply's killer moves. If noisyOnly is true,
// only the hash move and the noisy moves that static exchange
// evaluation does not mark as losing are produced (for quiescence
// search).
func NewMovePicker(pos *Position, history *HistoryTable, hashMove, killer1, killer2 Move, noisyOnly bool) *MovePicker {
	return &MovePicker{
		pos:       pos,
		history:   history,
		hashMove:  hashMove,
		killers:   [2]Move{killer1, killer2},
		noisyOnly: noisyOnly,
		state:     psHashMove,
	}
}

// Next returns the next move to try, or NullMove once exhausted.
func (mp *MovePicker) Next() Move {
	for {
		switch mp.state {
		case psHashMove:
			mp.state = psGenNoisy
			if mp.hashMove != NullMove {
				return mp.hashMove
			}

		case psGenNoisy:
			mp.generateNoisy()
			mp.state = psGiveGoodNoisy

		case psGiveGoodNoisy:
			if mp.idx < len(mp.good) {
				m := mp.good[mp.idx].Move
				mp.idx++
				return m
			}
			mp.idx = 0
			mp.state = psKiller1

		case psKiller1:
			mp.state = psKiller2
			if mp.noisyOnly {
				mp.state = psDone
				continue
			}
			var playable [2]bool
			for _, m := range mp.pos.PseudoLegalMoves(GenQuiet) {
				for i, k := range mp.killers {
					if m == k {
						playable[i] = true
					}
				}
			}
			for i := range mp.killers {
				if !playable[i] {
					mp.killers[i] = NullMove
				}
			}
			if k := mp.killers[0]; k != NullMove && k != mp.hashMove {
				return k
			}

		case psKiller2:
			mp.state = psGiveBadNoisy
			if k := mp.killers[1]; k != NullMove && k != mp.hashMove && k != mp.killers[0] {
				return k
			}

		case psGiveBadNoisy:
			if mp.idx < len(mp.bad) {
				m := mp.bad[mp.idx].Move
				mp.idx++
				return m
			}
			mp.idx = 0
			mp.state = psGenQuiet
			if mp.noisyOnly {
				mp.state = psDone
			}

		case psGenQuiet:
			mp.generateQuiet()
			mp.state = psGiveQuiet

		case psGiveQuiet:
			if mp.idx < len(mp.quiet) {
				m := mp.quiet[mp.idx].Move
				mp.idx++
				return m
			}
			mp.state = psDone

		case psDone:
			return NullMove
		}
	}
}

func capturedTypeOf(pos *Position, m Move) PieceType {
	if m.Flag() == FlagEnPassant {
		return Pawn
	}
	return pos.board[m.To()].Type()
}

func mvvLvaScore(pos *Position, m Move) int32 {
	capturedType := capturedTypeOf(pos, m)
	attackerType := pos.board[m.From()].Type()
	score := seeValue[capturedType]*16 - seeValue[attackerType]
	if m.IsPromotion() {
		score += seeValue[m.Promotion()] - seeValue[Pawn]
	}
	return score
}

func (mp *MovePicker) generateNoisy() {
	for _, m := range mp.pos.PseudoLegalMoves(GenNoisy) {
		if m == mp.hashMove {
			continue
		}
		sm := ScoredMove{Move: m, Score: int16(clampScore(mvvLvaScore(mp.pos, m)))}
		if seeGreaterEqual(mp.pos, m, 0) {
			mp.good = append(mp.good, sm)
		} else {
			mp.bad = append(mp.bad, sm)
		}
	}
	sort.Slice(mp.good, func(i, j int) bool { return mp.good[i].Score > mp.good[j].Score })
	sort.Slice(mp.bad, func(i, j int) bool { return mp.bad[i].Score > mp.bad[j].Score })
}

func (mp *MovePicker) generateQuiet() {
	us := mp.pos.SideToMove
	for _, m := range mp.pos.PseudoLegalMoves(GenQuiet) {
		if m == mp.hashMove || m == mp.killers[0] || m == mp.killers[1] {
			continue
		}
		score := mp.history.Get(us, m.From(), m.To())
		mp.quiet = append(mp.quiet, ScoredMove{Move: m, Score: score})
	}
	sort.Slice(mp.quiet, func(i, j int) bool { return mp.quiet[i].Score > mp.quiet[j].Score })
}

func clampScore(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// HistoryTable scores quiet moves by how often they have caused beta
// cutoffs in the past, indexed by side to move, origin and
// destination square.
type HistoryTable [ColorArraySize][SquareArraySize][SquareArraySize]int16

// Get returns the current history score for a quiet move.
func (h *HistoryTable) Get(c Color, from, to Square) int16 {
	return h[c][from][to]
}

// Add applies a history update of bonus (positive on a cutoff,
// negative for quiet moves that were tried and failed to cut off).
// The update is the clamped formula cur += 32*bonus - cur*|bonus|/512,
// which pulls the score towards +-32*512 asymptotically instead of
// letting it grow without bound across a long search.
func (h *HistoryTable) Add(c Color, from, to Square, bonus int32) {
	cur := int32(h[c][from][to])
	cur += 32*bonus - cur*abs32(bonus)/512
	h[c][from][to] = int16(clampScore(cur))
}

// Clear resets every entry to zero, as done between separate searches.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// KillerTable remembers, per ply, up to two quiet moves that recently
// caused a beta cutoff. Killers are tried before the rest of the
// quiet moves since a move that cut off a sibling node is likely to
// do so again.
type KillerTable struct {
	moves [MaxPly][2]Move
}

// Get returns the two killer moves for ply.
func (k *KillerTable) Get(ply int) (Move, Move) {
	return k.moves[ply][0], k.moves[ply][1]
}

// Add records m as the newest killer for ply, demoting the previous
// first killer to second place unless m is already the first killer.
func (k *KillerTable) Add(ply int, m Move) {
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// Clear resets every ply's killers, as done between separate searches.
func (k *KillerTable) Clear() {
	*k = KillerTable{}
}
