// Package perft drives the move generator's standard correctness
// benchmark: counting the leaf nodes of the full game tree to a fixed
// depth and comparing against known-good counts for a handful of
// reference positions.
package perft

import (
	"time"

	"github.com/corella-engine/corella/engine"
)

// Result is the outcome of a single perft run.
type Result struct {
	Nodes   uint64
	Elapsed time.Duration
}

// Run counts the leaf nodes of pos's game tree at the given depth.
func Run(pos *engine.Position, depth int) Result {
	start := time.Now()
	nodes := pos.Perft(depth)
	return Result{Nodes: nodes, Elapsed: time.Since(start)}
}

// DivideEntry is one top-level move's subtree count, as reported by
// the UCI "perft divide" debugging command.
type DivideEntry struct {
	Move  string
	Nodes uint64
}

// Divide breaks perft(depth) down by the first move played, which is
// the standard technique for finding exactly where a move generator
// disagrees with a reference engine.
func Divide(pos *engine.Position, depth int) []DivideEntry {
	var entries []DivideEntry
	for _, m := range pos.PseudoLegalMoves(engine.GenAll) {
		if !pos.MakeMove(m) {
			continue
		}
		var nodes uint64
		if depth <= 1 {
			nodes = 1
		} else {
			nodes = pos.Perft(depth - 1)
		}
		entries = append(entries, DivideEntry{Move: m.UCI(), Nodes: nodes})
		pos.UnmakeMove()
	}
	return entries
}

// Fixture is a perft scenario with a known-correct node count, used
// as a regression test by perft_test.go.
type Fixture struct {
	Name  string
	FEN   string
	Depth int
	Nodes uint64
}

// Fixtures lists the perft regression scenarios this engine ships
// with. Node counts are widely published reference values for these
// positions: the initial position, the "Kiwipete" test position
// introduced by Peter McKenzie, and "duplain", a position chosen to
// stress promotions and en-passant captures together.
var Fixtures = []Fixture{
	{Name: "startpos", FEN: engine.StartFEN, Depth: 5, Nodes: 4865609},
	{Name: "kiwipete", FEN: "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", Depth: 4, Nodes: 4085603},
	{Name: "duplain", FEN: "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", Depth: 4, Nodes: 43238},
}
