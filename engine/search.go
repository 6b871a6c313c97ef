// search.go implements iterative-deepening alpha-beta search: a
// negamax core with transposition table cutoffs, check extensions,
// staged move ordering and a quiescence search at the search
// horizon, driven by an outer loop that deepens one ply at a time
// until the position's time control says to stop.

package engine

// Stats accumulates counters for the search currently in flight (or
// just finished), reported to the Logger after each completed depth.
type Stats struct {
	Nodes    uint64
	Depth    int
	SelDepth int
}

// Logger receives progress reports during a search. The UCI layer
// implements this to emit "info" lines; tests typically use NulLogger.
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats, score int32, pv []Move)
}

// NulLogger discards every report.
type NulLogger struct{}

func (NulLogger) BeginSearch()                {}
func (NulLogger) EndSearch()                  {}
func (NulLogger) PrintPV(Stats, int32, []Move) {}

// Engine owns the search's mutable state: the transposition table,
// move-ordering heuristics, and per-search bookkeeping (node counts,
// the principal variation, the abort flag). A single Engine can be
// reused across many searches; Search resets the per-search state
// each time it is called.
type Engine struct {
	TT      *HashTable
	History *HistoryTable
	Killers *KillerTable
	Log     Logger

	Stats Stats

	position    *Position
	timeControl *TimeControl
	pv          [MaxPly][MaxPly]Move
	pvLen       [MaxPly]int
	aborted     bool
}

// NewEngine builds an Engine backed by the given transposition table.
// If log is nil, progress reports are discarded.
func NewEngine(tt *HashTable, log Logger) *Engine {
	if log == nil {
		log = NulLogger{}
	}
	return &Engine{
		TT:      tt,
		History: new(HistoryTable),
		Killers: new(KillerTable),
		Log:     log,
	}
}

// Search runs iterative deepening on pos until tc says to stop, and
// returns the best move found and its score. The move from the last
// fully completed depth is always returned, even if a deeper
// iteration was aborted partway through.
func (e *Engine) Search(pos *Position, tc *TimeControl) (Move, int32) {
	e.position = pos
	e.timeControl = tc
	e.History.Clear()
	e.Killers.Clear()
	e.Stats = Stats{}
	e.aborted = false

	e.Log.BeginSearch()
	defer e.Log.EndSearch()

	var bestMove Move
	var bestScore int32

	for depth := 1; tc.NextDepth(depth); depth++ {
		e.Stats.Depth = depth
		score := e.negamax(0, depth, -InfinityScore, InfinityScore)

		if e.aborted && depth > 1 {
			break
		}

		bestScore = score
		if e.pvLen[0] > 0 {
			bestMove = e.pv[0][0]
		}
		e.Log.PrintPV(e.Stats, bestScore, append([]Move(nil), e.pv[0][:e.pvLen[0]]...))

		if e.aborted {
			break
		}
	}

	return bestMove, bestScore
}

func (e *Engine) checkTime() {
	if e.timeControl != nil && e.timeControl.Stopped() {
		e.aborted = true
	}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// scoreToTT rewrites a mate score relative to the current search ply
// into one relative to the position itself, so the same transposition
// table entry stays valid however deep in the tree it is next probed
// from.
func scoreToTT(score int32, ply int) int32 {
	if score >= KnownWinScore {
		return score + int32(ply)
	}
	if score <= KnownLossScore {
		return score - int32(ply)
	}
	return score
}

// scoreFromTT is the inverse of scoreToTT, applied when a stored score
// is read back in at ply.
func scoreFromTT(score int32, ply int) int32 {
	if score >= KnownWinScore {
		return score - int32(ply)
	}
	if score <= KnownLossScore {
		return score + int32(ply)
	}
	return score
}

func isQuietMove(pos *Position, m Move) bool {
	return m.Flag() != FlagEnPassant && m.Flag() != FlagPromotion && pos.PieceAt(m.To()) == NoPiece
}

func (e *Engine) negamax(ply, depth int, alpha, beta int32) int32 {
	pos := e.position
	e.pvLen[ply] = 0

	if ply > 0 {
		if pos.IsDraw() {
			return 0
		}
		alpha = max32(alpha, MatedScore+int32(ply))
		beta = min32(beta, MateScore-int32(ply))
		if alpha >= beta {
			return alpha
		}
	}

	if depth <= 0 {
		return e.quiescence(ply, alpha, beta)
	}

	e.Stats.Nodes++
	if ply > e.Stats.SelDepth {
		e.Stats.SelDepth = ply
	}
	if e.Stats.Nodes%NodeCheckInterval == 0 {
		e.checkTime()
	}
	if e.aborted {
		return 0
	}

	origAlpha := alpha
	var hashMove Move
	if entry, ok := e.TT.Probe(pos.Hash); ok {
		hashMove = entry.Move
		if int(entry.Depth) >= depth {
			score := scoreFromTT(entry.Score, ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				alpha = max32(alpha, score)
			case TTUpperBound:
				beta = min32(beta, score)
			}
			if alpha >= beta {
				return score
			}
		}
	}

	inCheck := pos.IsChecked()
	var extension int
	if inCheck {
		extension = 1
	}

	killer1, killer2 := e.Killers.Get(ply)
	picker := NewMovePicker(pos, e.History, hashMove, killer1, killer2, false)

	var best Move
	bestScore := MatedScore - 1
	movesPlayed := 0
	var quietsTried []Move

	for {
		m := picker.Next()
		if m == NullMove {
			break
		}
		quiet := isQuietMove(pos, m)
		if !pos.MakeMove(m) {
			continue
		}
		movesPlayed++

		score := -e.negamax(ply+1, depth-1+extension, -beta, -alpha)
		pos.UnmakeMove()

		if e.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			best = m
			e.pv[ply][0] = m
			copy(e.pv[ply][1:], e.pv[ply+1][:e.pvLen[ply+1]])
			e.pvLen[ply] = e.pvLen[ply+1] + 1
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if quiet {
				e.Killers.Add(ply, m)
				bonus := int32(depth * depth)
				e.History.Add(pos.SideToMove, m.From(), m.To(), bonus)
				for _, missed := range quietsTried {
					e.History.Add(pos.SideToMove, missed.From(), missed.To(), -bonus)
				}
			}
			break
		}
		if quiet {
			quietsTried = append(quietsTried, m)
		}
	}

	if movesPlayed == 0 {
		if inCheck {
			return MatedScore + int32(ply)
		}
		return 0
	}

	var flag TTFlag
	switch {
	case bestScore <= origAlpha:
		flag = TTUpperBound
	case bestScore >= beta:
		flag = TTLowerBound
	default:
		flag = TTExact
	}
	e.TT.Store(pos.Hash, best, scoreToTT(bestScore, ply), int8(depth), flag)

	return bestScore
}

// quiescence extends the search along capture sequences past the
// nominal horizon, so the static evaluation is never trusted in a
// position where an obvious recapture is pending.
func (e *Engine) quiescence(ply int, alpha, beta int32) int32 {
	pos := e.position

	e.Stats.Nodes++
	if ply > e.Stats.SelDepth {
		e.Stats.SelDepth = ply
	}
	if e.Stats.Nodes%NodeCheckInterval == 0 {
		e.checkTime()
	}
	if e.aborted {
		return 0
	}

	standPat := Evaluate(pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	picker := NewMovePicker(pos, e.History, NullMove, NullMove, NullMove, true)
	for {
		m := picker.Next()
		if m == NullMove {
			break
		}
		if !pos.MakeMove(m) {
			continue
		}
		score := -e.quiescence(ply+1, -beta, -alpha)
		pos.UnmakeMove()

		if e.aborted {
			return 0
		}
		if score > alpha {
			alpha = score
			if alpha >= beta {
				return alpha
			}
		}
	}

	return alpha
}
