package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStartPositionFEN(t *testing.T) {
	pos := NewPosition()
	require.Equal(t, StartFEN, pos.FEN())
	require.Equal(t, White, pos.SideToMove)
	require.False(t, pos.IsChecked())
}

func TestSetFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}

	for _, fen := range fens {
		pos := &Position{}
		require.NoError(t, pos.SetFEN(fen))
		require.Equal(t, fen, pos.FEN())
	}
}

func TestSetFENRejectsGarbage(t *testing.T) {
	pos := &Position{}
	require.Error(t, pos.SetFEN("not a fen"))
	require.Error(t, pos.SetFEN("8/8/8/8/8/8/8 w - - 0 1"))
}

func TestMakeUnmakeRestoresPosition(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		pos := &Position{}
		require.NoError(t, pos.SetFEN(fen))
		before := *pos

		for _, m := range pos.PseudoLegalMoves(GenAll) {
			snapshot := *pos
			if !pos.MakeMove(m) {
				if diff := cmp.Diff(snapshot, *pos, cmp.AllowUnexported(Position{})); diff != "" {
					t.Errorf("illegal move %v mutated position before rollback (-before +after):\n%s", m, diff)
				}
				continue
			}
			pos.UnmakeMove()
			if diff := cmp.Diff(snapshot, *pos, cmp.AllowUnexported(Position{})); diff != "" {
				t.Errorf("make/unmake of %v did not restore position (-before +after):\n%s", m, diff)
			}
		}

		if diff := cmp.Diff(before, *pos, cmp.AllowUnexported(Position{})); diff != "" {
			t.Errorf("position %q changed after a full make/unmake sweep:\n%s", fen, diff)
		}
	}
}

func TestMakeMoveRejectsSelfCheck(t *testing.T) {
	pos := &Position{}
	// The e2 bishop is pinned against the king by the e8 rook; moving
	// it off the e-file must be rejected.
	require.NoError(t, pos.SetFEN("4r3/8/8/8/8/8/4B3/4K3 w - - 0 1"))
	before := *pos

	require.False(t, pos.MakeMove(MakeMove(SquareE2, SquareA6, FlagNormal, NoPieceType)))
	require.Equal(t, before, *pos)
}

func TestEnPassantCapture(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1"))
	require.True(t, pos.ApplyMove("e5d6"))
	require.Equal(t, NoPiece, pos.PieceAt(SquareD5))
	require.Equal(t, ColorPiece(White, Pawn), pos.PieceAt(SquareD6))
}

func TestDoublePushWithoutAdjacentPawnLeavesNoEnPassantSquare(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"))

	require.True(t, pos.ApplyMove("e2e4"))
	require.Equal(t, NoSquare, pos.EPSquare)
}

func TestDoublePushWithAdjacentPawnSetsEnPassantSquare(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN("4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1"))

	require.True(t, pos.ApplyMove("e2e4"))
	require.Equal(t, SquareE3, pos.EPSquare)
}

func TestCastlingMovesRookToo(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"))
	require.True(t, pos.ApplyMove("e1g1"))
	require.Equal(t, ColorPiece(White, King), pos.PieceAt(SquareG1))
	require.Equal(t, ColorPiece(White, Rook), pos.PieceAt(SquareF1))
	require.Equal(t, NoPiece, pos.PieceAt(SquareH1))
	require.False(t, pos.Castle.Has(SquareH1))
	require.False(t, pos.Castle.Has(SquareA1))
}

func TestThreeFoldRepetition(t *testing.T) {
	pos := NewPosition()
	moves := []string{
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
	}
	for _, m := range moves {
		require.True(t, pos.ApplyMove(m))
	}
	require.True(t, pos.IsThreeFoldRepetition())
	require.True(t, pos.IsDraw())
}

func TestInsufficientMaterial(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN("8/8/4k3/8/8/3NK3/8/8 w - - 0 1"))
	require.True(t, pos.IsInsufficientMaterial())

	require.NoError(t, pos.SetFEN("8/8/4k3/8/8/3PK3/8/8 w - - 0 1"))
	require.False(t, pos.IsInsufficientMaterial())
}
