// position.go implements the mutable board state: piece placement,
// FEN parsing/formatting, make/unmake, and the draw-detection queries
// built on top of it.

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN of the initial chess position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// undoState captures everything MakeMove needs to hand back to
// UnmakeMove, beyond what is trivially derivable from the move itself.
type undoState struct {
	move          Move
	captured      Piece
	captureSquare Square
	castle        CastleRights
	epSquare      Square
	halfmoveClock int
	fullmoveNo    int
	hash          uint64
	mover         Color
}

// Position is the full mutable state of a chess game in progress.
type Position struct {
	board    [SquareArraySize]Piece
	byColor  [ColorArraySize]Bitboard
	byType   [PieceTypeArraySize]Bitboard

	SideToMove     Color
	Castle         CastleRights
	EPSquare       Square
	HalfMoveClock  int
	FullMoveNumber int
	Hash           uint64
	Ply            int

	undoStack        []undoState
	repetitionHashes []uint64
}

// NewPosition returns the standard chess starting position.
func NewPosition() *Position {
	pos := &Position{}
	if err := pos.SetFEN(StartFEN); err != nil {
		panic(err)
	}
	return pos
}

func (pos *Position) occupied() Bitboard { return pos.byColor[White] | pos.byColor[Black] }

func (pos *Position) byPiece(c Color, pt PieceType) Bitboard {
	return pos.byColor[c] & pos.byType[pt]
}

// PieceAt returns the piece sitting on sq, or NoPiece.
func (pos *Position) PieceAt(sq Square) Piece { return pos.board[sq] }

func (pos *Position) kingSquare(c Color) Square {
	return pos.byPiece(c, King).AsSquare()
}

func (pos *Position) put(c Color, pt PieceType, sq Square) {
	pi := ColorPiece(c, pt)
	pos.board[sq] = pi
	pos.byColor[c] |= sq.Bitboard()
	pos.byType[pt] |= sq.Bitboard()
	pos.Hash ^= zobristPiece[pi][sq]
}

func (pos *Position) remove(sq Square) Piece {
	pi := pos.board[sq]
	if pi == NoPiece {
		return NoPiece
	}
	pos.board[sq] = NoPiece
	pos.byColor[pi.Color()] &^= sq.Bitboard()
	pos.byType[pi.Type()] &^= sq.Bitboard()
	pos.Hash ^= zobristPiece[pi][sq]
	return pi
}

func castleHashOf(cr CastleRights) uint64 {
	var h uint64
	bb := Bitboard(cr)
	for bb != 0 {
		sq := bb.Pop()
		h ^= zobristCastleRook[sq]
	}
	return h
}

// castleRookSquares returns the rook's origin and destination squares
// for a castling move whose king lands on kingTo.
func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case SquareG1:
		return SquareH1, SquareF1
	case SquareC1:
		return SquareA1, SquareD1
	case SquareG8:
		return SquareH8, SquareF8
	case SquareC8:
		return SquareA8, SquareD8
	default:
		panic("castleRookSquares: not a castling destination")
	}
}

// IsChecked reports whether the side to move's king is currently attacked.
func (pos *Position) IsChecked() bool {
	us := pos.SideToMove
	return squareAttacked(pos, pos.kingSquare(us), us.Opposite())
}

// doMove places pieces on the board for m, returning the piece (if
// any) that was captured and the square it sat on. It does not touch
// castling rights, the en-passant square, clocks or the side to move;
// callers handle that bookkeeping.
func (pos *Position) doMove(us Color, m Move) (captured Piece, captureSquare Square) {
	from, to := m.From(), m.To()
	moving := pos.board[from]
	captureSquare = to

	switch m.Flag() {
	case FlagEnPassant:
		captureSquare = RankFile(from.Rank(), to.File())
		captured = pos.remove(captureSquare)
		pos.remove(from)
		pos.put(us, Pawn, to)
	case FlagCastle:
		pos.remove(from)
		pos.put(us, King, to)
		rookFrom, rookTo := castleRookSquares(to)
		rook := pos.remove(rookFrom)
		pos.put(rook.Color(), Rook, rookTo)
	case FlagPromotion:
		captured = pos.board[to]
		if captured != NoPiece {
			pos.remove(to)
		}
		pos.remove(from)
		pos.put(us, m.Promotion(), to)
	default:
		captured = pos.board[to]
		if captured != NoPiece {
			pos.remove(to)
		}
		pos.remove(from)
		pos.put(us, moving.Type(), to)
	}
	return captured, captureSquare
}

// undoBoard reverses doMove's piece placement. The hash is expected to
// be overwritten wholesale by the caller afterwards, so it is left
// inconsistent here on purpose.
func (pos *Position) undoBoard(us Color, m Move, captured Piece, captureSquare Square) {
	from, to := m.From(), m.To()

	switch m.Flag() {
	case FlagEnPassant:
		pos.remove(to)
		pos.put(us, Pawn, from)
		if captured != NoPiece {
			pos.put(captured.Color(), captured.Type(), captureSquare)
		}
	case FlagCastle:
		rookFrom, rookTo := castleRookSquares(to)
		rook := pos.remove(rookTo)
		pos.put(rook.Color(), Rook, rookFrom)
		pos.remove(to)
		pos.put(us, King, from)
	case FlagPromotion:
		pos.remove(to)
		pos.put(us, Pawn, from)
		if captured != NoPiece {
			pos.put(captured.Color(), captured.Type(), to)
		}
	default:
		moved := pos.remove(to)
		pos.put(us, moved.Type(), from)
		if captured != NoPiece {
			pos.put(captured.Color(), captured.Type(), to)
		}
	}
}

// MakeMove plays m. It returns false and leaves pos completely
// unchanged if m would leave the mover's own king in check; otherwise
// it commits the move and returns true.
func (pos *Position) MakeMove(m Move) bool {
	us := pos.SideToMove
	them := us.Opposite()
	from, to := m.From(), m.To()
	moving := pos.board[from]

	undo := undoState{
		move:          m,
		castle:        pos.Castle,
		epSquare:      pos.EPSquare,
		halfmoveClock: pos.HalfMoveClock,
		fullmoveNo:    pos.FullMoveNumber,
		hash:          pos.Hash,
		mover:         us,
	}

	pos.Hash ^= enpassantFileKey(pos.EPSquare)
	pos.Hash ^= castleHashOf(pos.Castle)

	captured, captureSquare := pos.doMove(us, m)
	undo.captured = captured
	undo.captureSquare = captureSquare

	newCastle := pos.Castle
	if moving.Type() == King {
		if us == White {
			newCastle &^= CastleRights(RankBb(0))
		} else {
			newCastle &^= CastleRights(RankBb(7))
		}
	}
	newCastle &^= CastleRights(from.Bitboard())
	newCastle &^= CastleRights(to.Bitboard())
	pos.Castle = newCastle

	newEP := NoSquare
	if moving.Type() == Pawn {
		diff := int(to) - int(from)
		if diff == 16 || diff == -16 {
			// Only record the square if an enemy pawn actually sits
			// beside the landing square, i.e. an en-passant capture is
			// pseudo-legal next move (pins are not checked); otherwise
			// EPSquare (and its Zobrist key) must stay unset.
			theirs := pos.byPiece(them, Pawn)
			file := to.File()
			adjacent := (file > 0 && theirs.Has(RankFile(to.Rank(), file-1))) ||
				(file < 7 && theirs.Has(RankFile(to.Rank(), file+1)))
			if adjacent {
				newEP = Square((int(from) + int(to)) / 2)
			}
		}
	}
	pos.EPSquare = newEP

	if moving.Type() == Pawn || captured != NoPiece {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}

	pos.Hash ^= enpassantFileKey(pos.EPSquare)
	pos.Hash ^= castleHashOf(pos.Castle)
	pos.Hash ^= zobristSideToMove

	if us == Black {
		pos.FullMoveNumber++
	}
	pos.SideToMove = them
	pos.Ply++

	if squareAttacked(pos, pos.kingSquare(us), them) {
		pos.undoBoard(us, m, captured, captureSquare)
		pos.Castle = undo.castle
		pos.EPSquare = undo.epSquare
		pos.HalfMoveClock = undo.halfmoveClock
		pos.FullMoveNumber = undo.fullmoveNo
		pos.Hash = undo.hash
		pos.SideToMove = us
		pos.Ply--
		return false
	}

	pos.undoStack = append(pos.undoStack, undo)
	pos.repetitionHashes = append(pos.repetitionHashes, pos.Hash)
	return true
}

// UnmakeMove reverses the most recent call to MakeMove. It panics if
// no move is on the undo stack; callers never call it without a
// matching successful MakeMove.
func (pos *Position) UnmakeMove() {
	n := len(pos.undoStack)
	undo := pos.undoStack[n-1]
	pos.undoStack = pos.undoStack[:n-1]
	if n == 1 {
		// Match the nil stack SetFEN starts with, so a full make/unmake
		// leaves the Position equal to its pre-make value.
		pos.undoStack = nil
	}
	pos.repetitionHashes = pos.repetitionHashes[:len(pos.repetitionHashes)-1]

	pos.undoBoard(undo.mover, undo.move, undo.captured, undo.captureSquare)
	pos.Castle = undo.castle
	pos.EPSquare = undo.epSquare
	pos.HalfMoveClock = undo.halfmoveClock
	pos.FullMoveNumber = undo.fullmoveNo
	pos.Hash = undo.hash
	pos.SideToMove = undo.mover
	pos.Ply--
}

// ApplyMove parses text as a long-algebraic move (e.g. "e2e4",
// "e7e8q"), matches it against the position's legal moves and plays
// it. It returns false, leaving pos unchanged, if text does not name a
// legal move.
func (pos *Position) ApplyMove(text string) bool {
	if len(text) < 4 || len(text) > 5 {
		return false
	}
	from, err := SquareFromString(text[0:2])
	if err != nil {
		return false
	}
	to, err := SquareFromString(text[2:4])
	if err != nil {
		return false
	}
	var promo PieceType
	if len(text) == 5 {
		switch text[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return false
		}
	}

	for _, cand := range pos.PseudoLegalMoves(GenAll) {
		if cand.From() != from || cand.To() != to {
			continue
		}
		if cand.IsPromotion() && cand.Promotion() != promo {
			continue
		}
		if !cand.IsPromotion() && promo != NoPieceType {
			continue
		}
		return pos.MakeMove(cand)
	}
	return false
}

// Perft counts the number of leaf positions reachable in exactly depth
// plies of fully legal play, the standard move-generator correctness
// benchmark.
func (pos *Position) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range pos.PseudoLegalMoves(GenAll) {
		if !pos.MakeMove(m) {
			continue
		}
		nodes += pos.Perft(depth - 1)
		pos.UnmakeMove()
	}
	return nodes
}

// IsThreeFoldRepetition reports whether the current position has
// occurred at least three times since the last irreversible move
// (pawn move or capture).
func (pos *Position) IsThreeFoldRepetition() bool {
	n := len(pos.repetitionHashes)
	if n == 0 {
		return false
	}
	count := 0
	limit := pos.HalfMoveClock
	for i := 0; i <= limit && i < n; i++ {
		if pos.repetitionHashes[n-1-i] == pos.Hash {
			count++
		}
	}
	return count >= 3
}

// IsFiftyMoveRule reports whether 100 consecutive halfmoves have
// passed without a pawn move or capture.
func (pos *Position) IsFiftyMoveRule() bool { return pos.HalfMoveClock >= 100 }

// IsInsufficientMaterial reports whether neither side has enough
// material to deliver checkmate by any sequence of legal moves. This
// only recognises the common KvK, KvKN and KvKB cases; same-colour
// opposite-bishop draws and other deeper fortress draws are left to
// search/evaluation to find on their own merits.
func (pos *Position) IsInsufficientMaterial() bool {
	if pos.byType[Pawn]|pos.byType[Rook]|pos.byType[Queen] != 0 {
		return false
	}
	minorCount := pos.byType[Knight].Popcnt() + pos.byType[Bishop].Popcnt()
	return minorCount <= 1
}

// IsDraw reports whether the game is drawn by any of the rules this
// engine recognises.
func (pos *Position) IsDraw() bool {
	return pos.IsFiftyMoveRule() || pos.IsThreeFoldRepetition() || pos.IsInsufficientMaterial()
}

// SetFEN resets pos to the position described by fen, a standard
// 6-field Forsyth-Edwards string. Trailing fields (halfmove clock,
// fullmove number) default to 0 and 1 when absent. Castling rights are
// parsed in classical KQkq notation only: the data model is
// Chess960-capable (CastleRights is keyed by rook square), but this
// parser always maps K/Q/k/q to the classical corner squares.
func (pos *Position) SetFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fmt.Errorf("engine: invalid FEN %q: need at least 4 fields", fen)
	}

	*pos = Position{EPSquare: NoSquare}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("engine: invalid FEN %q: expected 8 ranks", fen)
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			c, pt, err := pieceFromFENSymbol(byte(ch))
			if err != nil {
				return fmt.Errorf("engine: invalid FEN %q: %v", fen, err)
			}
			if file > 7 {
				return fmt.Errorf("engine: invalid FEN %q: rank %d overflows", fen, rank+1)
			}
			pos.put(c, pt, RankFile(rank, file))
			file++
		}
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
		pos.Hash ^= zobristSideToMove
	default:
		return fmt.Errorf("engine: invalid FEN %q: bad side to move", fen)
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.Castle |= CastleRights(SquareH1.Bitboard())
			case 'Q':
				pos.Castle |= CastleRights(SquareA1.Bitboard())
			case 'k':
				pos.Castle |= CastleRights(SquareH8.Bitboard())
			case 'q':
				pos.Castle |= CastleRights(SquareA8.Bitboard())
			default:
				return fmt.Errorf("engine: invalid FEN %q: bad castling field", fen)
			}
		}
	}
	pos.Hash ^= castleHashOf(pos.Castle)

	if fields[3] != "-" {
		sq, err := SquareFromString(fields[3])
		if err != nil {
			return fmt.Errorf("engine: invalid FEN %q: bad en-passant square", fen)
		}
		pos.EPSquare = sq
	}
	pos.Hash ^= enpassantFileKey(pos.EPSquare)

	pos.HalfMoveClock = 0
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err == nil && n >= 0 {
			pos.HalfMoveClock = n
		}
	}
	pos.FullMoveNumber = 1
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err == nil && n >= 1 {
			pos.FullMoveNumber = n
		}
	}

	pos.repetitionHashes = append(pos.repetitionHashes, pos.Hash)
	return nil
}

func pieceFromFENSymbol(ch byte) (Color, PieceType, error) {
	c := White
	lower := ch
	if ch >= 'a' && ch <= 'z' {
		c = Black
	} else {
		lower = ch - 'A' + 'a'
	}
	switch lower {
	case 'p':
		return c, Pawn, nil
	case 'n':
		return c, Knight, nil
	case 'b':
		return c, Bishop, nil
	case 'r':
		return c, Rook, nil
	case 'q':
		return c, Queen, nil
	case 'k':
		return c, King, nil
	default:
		return NoColor, NoPieceType, fmt.Errorf("unrecognised piece symbol %q", string(ch))
	}
}

// FEN renders pos as a standard 6-field Forsyth-Edwards string.
func (pos *Position) FEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pi := pos.board[RankFile(r, f)]
			if pi == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pi.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.SideToMove.String())

	sb.WriteByte(' ')
	castle := castleFENString(pos.Castle)
	sb.WriteString(castle)

	sb.WriteByte(' ')
	sb.WriteString(pos.EPSquare.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.FullMoveNumber))

	return sb.String()
}

func castleFENString(cr CastleRights) string {
	var sb strings.Builder
	if cr.Has(SquareH1) {
		sb.WriteByte('K')
	}
	if cr.Has(SquareA1) {
		sb.WriteByte('Q')
	}
	if cr.Has(SquareH8) {
		sb.WriteByte('k')
	}
	if cr.Has(SquareA8) {
		sb.WriteByte('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func (pos *Position) String() string { return pos.FEN() }

// PrettyPrint renders an 8x8 ASCII board plus FEN and hash, the
// information the UCI "d" debug command reports.
func (pos *Position) PrettyPrint() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		sb.WriteString(strconv.Itoa(r + 1))
		sb.WriteString("  ")
		for f := 0; f < 8; f++ {
			sb.WriteByte(pos.board[RankFile(r, f)].Symbol())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	sb.WriteString("FEN: " + pos.FEN() + "\n")
	sb.WriteString(fmt.Sprintf("Hash: %016x\n", pos.Hash))
	return sb.String()
}
