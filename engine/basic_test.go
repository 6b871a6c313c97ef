package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSquareFromStringRoundTrip(t *testing.T) {
	data := []struct {
		sq  Square
		str string
	}{
		{SquareA1, "a1"},
		{SquareH8, "h8"},
		{SquareE4, "e4"},
		{SquareD5, "d5"},
	}
	for _, d := range data {
		require.Equal(t, d.str, d.sq.String())
		got, err := SquareFromString(d.str)
		require.NoError(t, err)
		require.Equal(t, d.sq, got)
	}
}

func TestSquareFromStringRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "a", "a9", "i1", "zz"} {
		_, err := SquareFromString(s)
		require.Error(t, err, "input %q", s)
	}
}

func TestRankFileRoundTrip(t *testing.T) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			require.Equal(t, r, sq.Rank())
			require.Equal(t, f, sq.File())
		}
	}
}

func TestColorOpposite(t *testing.T) {
	require.Equal(t, Black, White.Opposite())
	require.Equal(t, White, Black.Opposite())
}

func TestColorPieceRoundTrip(t *testing.T) {
	for c := ColorMinValue; c <= ColorMaxValue; c++ {
		for pt := PieceTypeMinValue; pt <= PieceTypeMaxValue; pt++ {
			pi := ColorPiece(c, pt)
			require.Equal(t, c, pi.Color())
			require.Equal(t, pt, pi.Type())
		}
	}
}

func TestNoPieceHasNoType(t *testing.T) {
	require.Equal(t, NoPieceType, NoPiece.Type())
}

func TestBitboardHasAndPop(t *testing.T) {
	bb := SquareA1.Bitboard() | SquareH8.Bitboard()
	require.True(t, bb.Has(SquareA1))
	require.True(t, bb.Has(SquareH8))
	require.False(t, bb.Has(SquareD4))
	require.Equal(t, 2, bb.Popcnt())

	first := bb.Pop()
	require.Equal(t, SquareA1, first)
	require.Equal(t, 1, bb.Popcnt())
}

func TestRankBbAndFileBb(t *testing.T) {
	rank1 := RankBb(0)
	require.Equal(t, 8, rank1.Popcnt())
	require.True(t, rank1.Has(SquareA1))
	require.True(t, rank1.Has(SquareH1))
	require.False(t, rank1.Has(SquareA2))

	fileA := FileBb(0)
	require.Equal(t, 8, fileA.Popcnt())
	require.True(t, fileA.Has(SquareA1))
	require.True(t, fileA.Has(SquareA8))
}

func TestCastleRightsHas(t *testing.T) {
	cr := CastleRights(SquareH1.Bitboard() | SquareA8.Bitboard())
	require.True(t, cr.Has(SquareH1))
	require.True(t, cr.Has(SquareA8))
	require.False(t, cr.Has(SquareA1))
}
