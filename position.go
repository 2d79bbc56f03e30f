package chess

import (
	"fmt"
	"strings"
)

// Castling right bits, one pair per color, matching FEN's KQkq ordering.
const (
	CastleKingSide  uint8 = 1 << iota // O-O
	CastleQueenSide                   // O-O-O
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a complete, mutable chess position: the 0x88 board array plus
// the scalar state (turn, castling rights, en passant, clocks, hash) needed
// to generate moves and to make/unmake them without recomputing everything
// from scratch.
type Position struct {
	board [128]Piece
	turn  Color

	kings [2]Square

	// castling holds CastleKingSide|CastleQueenSide per color, index by Color.
	castling [2]uint8

	// epSquare is the square on which an en-passant capture is legal this
	// half-move, EmptySquare if none. fenEpSquare is the square the FEN field
	// names regardless of whether a capture is actually possible; the two
	// diverge whenever a double push occurs with no enemy pawn adjacent to
	// exploit it.
	epSquare    Square
	fenEpSquare Square

	halfMoves  int
	moveNumber int

	hash uint64

	// positionCount tracks how many times each hash has occurred across the
	// life of this Position, for threefold-repetition detection.
	positionCount map[uint64]int

	history []HistoryEntry
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := LoadFEN(StartFEN)
	if err != nil {
		panic("chess: invalid built-in start FEN: " + err.Error())
	}
	return p
}

// LoadFEN parses fen (2-6 space-separated fields, missing trailing fields
// default per FEN convention: halfmove clock to 0, move number to 1) and
// returns a freshly built Position.
func LoadFEN(fen string) (*Position, error) {
	p := &Position{positionCount: make(map[uint64]int)}
	if err := p.load(fen, false); err != nil {
		return nil, err
	}
	return p, nil
}

// load implements Position.load(fen, {skipValidation}) from the spec:
// parses all 6 FEN fields (autofilling defaults for missing trailing ones),
// rebuilds the board, and recomputes the hash from scratch.
func (p *Position) load(fen string, skipValidation bool) error {
	fields, err := splitFENFields(fen)
	if err != nil {
		return err
	}
	if !skipValidation {
		if verr := validateFEN(strings.Join(fields[:], " ")); verr != nil {
			return verr
		}
	}

	for i := range p.board {
		p.board[i] = NoPiece
	}
	p.kings = [2]Square{EmptySquare, EmptySquare}

	if err := p.loadPlacement(fields[0]); err != nil {
		return err
	}

	switch fields[1] {
	case "w":
		p.turn = White
	case "b":
		p.turn = Black
	default:
		return fmt.Errorf("%w: bad turn field %q", ErrInvalidFEN, fields[1])
	}

	p.castling = [2]uint8{}
	for _, c := range fields[2] {
		switch c {
		case 'K':
			p.castling[White] |= CastleKingSide
		case 'Q':
			p.castling[White] |= CastleQueenSide
		case 'k':
			p.castling[Black] |= CastleKingSide
		case 'q':
			p.castling[Black] |= CastleQueenSide
		case '-':
		default:
			return fmt.Errorf("%w: bad castling field %q", ErrInvalidFEN, fields[2])
		}
	}

	if fields[3] == "-" {
		p.fenEpSquare = EmptySquare
	} else {
		sq, perr := ParseSquare(fields[3])
		if perr != nil {
			return fmt.Errorf("%w: bad en passant field %q", ErrInvalidFEN, fields[3])
		}
		p.fenEpSquare = sq
	}

	p.halfMoves = parseDefaultInt(fields[4], 0)
	p.moveNumber = parseDefaultInt(fields[5], 1)

	p.updateCastlingRights()
	p.updateEnPassantSquare()
	p.computeHash()

	if p.positionCount == nil {
		p.positionCount = make(map[uint64]int)
	}
	p.positionCount[p.hash]++

	return nil
}

func (p *Position) loadPlacement(placement string) error {
	rank := 7
	file := 0
	for _, c := range placement {
		switch {
		case c == '/':
			if file != 8 {
				return fmt.Errorf("%w: short rank in placement %q", ErrInvalidFEN, placement)
			}
			rank--
			file = 0
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			piece := pieceFromLetter(byte(c))
			if piece.IsEmpty() {
				return fmt.Errorf("%w: bad piece letter %q", ErrInvalidFEN, string(c))
			}
			if file > 7 || rank < 0 {
				return fmt.Errorf("%w: placement overflows board", ErrInvalidFEN)
			}
			sq := NewSquare(file, rank)
			p.board[sq] = piece
			if piece.Kind == King {
				p.kings[piece.Color] = sq
			}
			file++
		}
	}
	return nil
}

// get returns the piece on sq, or NoPiece if empty or off-board.
func (p *Position) get(sq Square) Piece {
	if sq.OffBoard() || sq < 0 {
		return NoPiece
	}
	return p.board[sq]
}

// put places piece on sq, tracking king squares. It does not update the
// hash; callers that mutate a live position go through makeMove instead.
func (p *Position) put(piece Piece, sq Square) {
	p.board[sq] = piece
	if piece.Kind == King {
		p.kings[piece.Color] = sq
	}
}

// remove clears sq and returns what was there.
func (p *Position) remove(sq Square) Piece {
	piece := p.board[sq]
	p.board[sq] = NoPiece
	return piece
}

// updateCastlingRights re-asserts that each castling flag requires both the
// king and the corresponding rook to still sit on their home squares,
// clearing any flag that no longer holds.
func (p *Position) updateCastlingRights() {
	homeRank := map[Color]int{White: 0, Black: 7}
	for _, c := range [2]Color{White, Black} {
		r := homeRank[c]
		kingHome := p.get(NewSquare(4, r)) == Piece{King, c}
		if !kingHome {
			p.castling[c] = 0
			continue
		}
		if p.get(NewSquare(7, r)) != (Piece{Rook, c}) {
			p.castling[c] &^= CastleKingSide
		}
		if p.get(NewSquare(0, r)) != (Piece{Rook, c}) {
			p.castling[c] &^= CastleQueenSide
		}
	}
}

// updateEnPassantSquare derives epSquare from fenEpSquare: the field is only
// operative if an enemy pawn actually sits beside it (real legality,
// including discovered-check considerations, is left to move generation,
// which simply won't produce a move if none exists).
func (p *Position) updateEnPassantSquare() {
	p.epSquare = EmptySquare
	if p.fenEpSquare == EmptySquare {
		return
	}
	capturer := p.turn
	captureRank := 4
	if capturer == Black {
		captureRank = 3
	}
	for _, df := range [2]int{-1, 1} {
		f := p.fenEpSquare.File() + df
		if f < 0 || f > 7 {
			continue
		}
		sq := NewSquare(f, captureRank)
		if pc := p.get(sq); pc.Kind == Pawn && pc.Color == capturer {
			p.epSquare = p.fenEpSquare
			return
		}
	}
}

// computeHash rebuilds p.hash from scratch: XOR of every piece-square key,
// the en-passant key (by file, only when epSquare is set), the
// castling-rights key (by combined 4-bit index), and the side key iff black
// to move.
func (p *Position) computeHash() {
	var h uint64
	for sq := Square(0); sq < 128; sq++ {
		if sq.OffBoard() {
			continue
		}
		if piece := p.board[sq]; !piece.IsEmpty() {
			h ^= zobristPiece(piece, sq)
		}
	}
	if p.epSquare != EmptySquare {
		h ^= epKeys[p.epSquare.File()]
	}
	h ^= castlingKeys[p.castlingIndex()]
	if p.turn == Black {
		h ^= sideKey
	}
	p.hash = h
}

func (p *Position) castlingIndex() int {
	return int(p.castling[White]) | int(p.castling[Black])<<2
}

// snapshot captures the scalar state needed to unmake the move about to be
// applied; the board itself is restored by inverse edits, not by copying.
func (p *Position) snapshot(m Move) HistoryEntry {
	return HistoryEntry{
		Move:       m,
		Castling:   p.castling,
		EPSquare:   p.fenEpSquare,
		HalfMoves:  p.halfMoves,
		MoveNumber: p.moveNumber,
		Hash:       p.hash,
	}
}

// restore reverses a previously captured snapshot's scalar fields. Board
// edits are undone separately by unmakeMove.
func (p *Position) restore(h HistoryEntry) {
	p.castling = h.Castling
	p.fenEpSquare = h.EPSquare
	p.halfMoves = h.HalfMoves
	p.moveNumber = h.MoveNumber
	p.hash = h.Hash
	p.updateEnPassantSquare()
}

func (p *Position) king(c Color) Square {
	return p.kings[c]
}

// effectiveEPSquare returns epSquare only if a legal en-passant capture
// actually exists from the current position (i.e. the capture would not
// leave the capturing side's own king in check); otherwise EmptySquare.
// This is the stricter test spec §4.2 calls for in non-forced FEN emission,
// beyond the plain pawn-adjacency check updateEnPassantSquare performs.
func (p *Position) effectiveEPSquare() Square {
	if p.epSquare == EmptySquare {
		return EmptySquare
	}
	for _, m := range p.GenerateLegalMoves() {
		if m.Flags.Has(FlagEPCapture) {
			return p.epSquare
		}
	}
	return EmptySquare
}

func parseDefaultInt(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}
