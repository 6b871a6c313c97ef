package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnpassantFileKeyDistinguishesFiles(t *testing.T) {
	require.NotEqual(t, enpassantFileKey(SquareA3), enpassantFileKey(SquareB3))
	require.Equal(t, enpassantFileKey(SquareA3), enpassantFileKey(SquareA6))
	require.Equal(t, zobristEnpassant[8], enpassantFileKey(NoSquare))
}

func TestZobristHashChangesWithPosition(t *testing.T) {
	start := NewPosition()
	other := &Position{}
	require.NoError(t, other.SetFEN(kiwipeteFEN))
	require.NotEqual(t, start.Hash, other.Hash)
}

func TestZobristHashStableAcrossEquivalentFENParses(t *testing.T) {
	a := &Position{}
	b := &Position{}
	require.NoError(t, a.SetFEN(StartFEN))
	require.NoError(t, b.SetFEN(StartFEN))
	require.Equal(t, a.Hash, b.Hash)
}

func TestZobristHashOmitsEnPassantKeyWithoutAdjacentPawn(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"))
	require.True(t, pos.ApplyMove("e2e4"))
	require.Equal(t, NoSquare, pos.EPSquare)

	want := &Position{}
	require.NoError(t, want.SetFEN("4k3/8/8/8/4P3/8/8/4K3 b - - 0 1"))

	require.Equal(t, want.Hash, pos.Hash)
}

func TestZobristHashReturnsAfterMakeUnmake(t *testing.T) {
	pos := NewPosition()
	before := pos.Hash
	m := MakeMove(SquareE2, SquareE4, FlagNormal, NoPieceType)
	require.True(t, pos.MakeMove(m))
	require.NotEqual(t, before, pos.Hash)
	pos.UnmakeMove()
	require.Equal(t, before, pos.Hash)
}
