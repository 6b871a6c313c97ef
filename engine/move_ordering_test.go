package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMovePickerReturnsHashMoveFirst(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN(kiwipeteFEN))

	hist := new(HistoryTable)
	hashMove := MakeMove(SquareA2, SquareA3, FlagNormal, NoPieceType)
	picker := NewMovePicker(pos, hist, hashMove, NullMove, NullMove, false)

	require.Equal(t, hashMove, picker.Next())
}

func TestMovePickerNeverRepeatsAMove(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN(kiwipeteFEN))

	hist := new(HistoryTable)
	pseudo := pos.PseudoLegalMoves(GenAll)
	hashMove := pseudo[0]

	// Killers are only ever recorded for quiet moves by the search, so
	// pick two distinct quiet moves here to respect that invariant.
	quiet := pos.PseudoLegalMoves(GenQuiet)
	var k1, k2 Move
	for _, m := range quiet {
		if m == hashMove {
			continue
		}
		if k1 == NullMove {
			k1 = m
		} else if k2 == NullMove && m != k1 {
			k2 = m
			break
		}
	}
	picker := NewMovePicker(pos, hist, hashMove, k1, k2, false)

	seen := make(map[Move]int)
	for {
		m := picker.Next()
		if m == NullMove {
			break
		}
		seen[m]++
	}
	for m, count := range seen {
		require.Equal(t, 1, count, "move %v returned %d times", m, count)
	}
}

func TestMovePickerCoversEveryPseudoLegalMove(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN(kiwipeteFEN))

	hist := new(HistoryTable)
	picker := NewMovePicker(pos, hist, NullMove, NullMove, NullMove, false)

	got := make(map[Move]bool)
	for {
		m := picker.Next()
		if m == NullMove {
			break
		}
		got[m] = true
	}

	for _, m := range pos.PseudoLegalMoves(GenAll) {
		require.True(t, got[m], "picker never produced pseudo-legal move %v", m)
	}
	require.Len(t, got, len(pos.PseudoLegalMoves(GenAll)))
}

func TestMovePickerNoisyOnlySkipsQuietMoves(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN(kiwipeteFEN))

	hist := new(HistoryTable)
	picker := NewMovePicker(pos, hist, NullMove, NullMove, NullMove, true)

	for {
		m := picker.Next()
		if m == NullMove {
			break
		}
		isNoisy := pos.PieceAt(m.To()) != NoPiece || m.Flag() == FlagEnPassant || m.IsPromotion()
		require.True(t, isNoisy, "quiescence picker returned quiet move %v", m)
	}
}

func TestMovePickerNoisyOnlySkipsLosingCaptures(t *testing.T) {
	pos := &Position{}
	require.NoError(t, pos.SetFEN("4k3/8/1n6/3p4/8/8/6Q1/4K3 w - - 0 1"))

	hist := new(HistoryTable)
	picker := NewMovePicker(pos, hist, NullMove, NullMove, NullMove, true)

	losing := MakeMove(SquareG2, SquareD5, FlagNormal, NoPieceType)
	for {
		m := picker.Next()
		if m == NullMove {
			break
		}
		require.NotEqual(t, losing, m, "quiescence picker should not offer a losing capture")
	}
}

func TestHistoryTableAddAndClamp(t *testing.T) {
	hist := new(HistoryTable)
	for i := 0; i < 50; i++ {
		hist.Add(White, SquareE2, SquareE4, 900)
	}
	v := hist.Get(White, SquareE2, SquareE4)
	require.LessOrEqual(t, int32(v), int32(32767))
	require.Greater(t, v, int16(0))
}

func TestHistoryTableClear(t *testing.T) {
	hist := new(HistoryTable)
	hist.Add(White, SquareE2, SquareE4, 100)
	hist.Clear()
	require.Equal(t, int16(0), hist.Get(White, SquareE2, SquareE4))
}

func TestKillerTableAddPromotesAndDemotes(t *testing.T) {
	k := new(KillerTable)
	m1 := MakeMove(SquareG1, SquareF3, FlagNormal, NoPieceType)
	m2 := MakeMove(SquareB1, SquareC3, FlagNormal, NoPieceType)

	k.Add(0, m1)
	first, second := k.Get(0)
	require.Equal(t, m1, first)
	require.Equal(t, NullMove, second)

	k.Add(0, m2)
	first, second = k.Get(0)
	require.Equal(t, m2, first)
	require.Equal(t, m1, second)

	// Re-adding the current first killer is a no-op.
	k.Add(0, m2)
	first, second = k.Get(0)
	require.Equal(t, m2, first)
	require.Equal(t, m1, second)
}
