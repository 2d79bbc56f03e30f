package chess

import (
	"fmt"
	"strings"
)

// Load replaces the game's position with the one encoded by fen, clearing
// history, comments, and NAGs. Per the resolved Open Question on
// preserveHeaders (see DESIGN.md), SetUp/FEN are always overwritten to
// reflect the freshly loaded FEN, regardless of any other headers the
// caller has set.
func (g *Game) Load(fen string, skipValidation bool) error {
	pos := &Position{positionCount: make(map[uint64]int)}
	if err := pos.load(fen, skipValidation); err != nil {
		return err
	}
	g.pos = pos
	g.history = nil
	g.comments = make(map[string]string)
	g.nags = make(map[string][]string)
	g.setHeader("SetUp", "1")
	g.setHeader("FEN", fen)
	return nil
}

// Reset returns the game to the standard starting position, clearing
// history, comments, and NAGs. Unless preserveHeaders is set, the SetUp
// and FEN headers are removed (restoring their Seven-Tag-Roster-style
// absence), matching Clear's behavior.
func (g *Game) Reset(preserveHeaders bool) {
	g.pos = NewPosition()
	g.history = nil
	g.comments = make(map[string]string)
	g.nags = make(map[string][]string)
	if !preserveHeaders {
		g.removeHeader("SetUp")
		g.removeHeader("FEN")
	}
}

// Clear empties the board entirely (no kings, no pieces, White to move),
// for callers building up a position square by square via Put/Remove.
// Unless preserveHeaders is set, SetUp and FEN are removed.
func (g *Game) Clear(preserveHeaders bool) {
	pos := &Position{positionCount: make(map[uint64]int)}
	for i := range pos.board {
		pos.board[i] = NoPiece
	}
	pos.kings = [2]Square{EmptySquare, EmptySquare}
	pos.epSquare = EmptySquare
	pos.fenEpSquare = EmptySquare
	pos.turn = White
	pos.moveNumber = 1
	pos.computeHash()
	pos.positionCount[pos.hash]++

	g.pos = pos
	g.history = nil
	g.comments = make(map[string]string)
	g.nags = make(map[string][]string)
	if !preserveHeaders {
		g.removeHeader("SetUp")
		g.removeHeader("FEN")
	}
}

// LoadPGN parses pgn end to end (headers, SetUp/FEN handling, main-line
// replay) and replaces the receiver's entire state with the result.
// newlineChar, if non-empty and not already "\n", is normalized to "\n"
// before parsing.
func (g *Game) LoadPGN(pgn string, strict bool, newlineChar string) error {
	if newlineChar != "" && newlineChar != "\n" {
		pgn = strings.ReplaceAll(pgn, newlineChar, "\n")
	}
	parsed, err := GameFromPGN(pgn, strict)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}

// SetTurn forces the side to move, recomputing the hash's side key.
// It reports false (and leaves the position unchanged) for any color other
// than White or Black.
func (g *Game) SetTurn(color Color) bool {
	if color != White && color != Black {
		return false
	}
	g.pos.turn = color
	g.pos.computeHash()
	return true
}

// Get returns the piece on sq and whether the square is occupied.
func (g *Game) Get(sq Square) (Piece, bool) {
	p := g.pos.get(sq)
	return p, !p.IsEmpty()
}

// Put places piece on sq (e.g. while building a position via Clear).
func (g *Game) Put(piece Piece, sq Square) {
	g.pos.put(piece, sq)
	g.pos.updateCastlingRights()
	g.pos.computeHash()
}

// Remove clears sq, returning whatever piece was there.
func (g *Game) Remove(sq Square) Piece {
	p := g.pos.remove(sq)
	g.pos.updateCastlingRights()
	g.pos.computeHash()
	return p
}

// FindPiece returns every square currently occupied by piece.
func (g *Game) FindPiece(piece Piece) []Square {
	var out []Square
	for sq := Square(0); sq < 128; sq++ {
		if sq.OffBoard() {
			continue
		}
		if g.pos.get(sq) == piece {
			out = append(out, sq)
		}
	}
	return out
}

// Board returns the position as an 8x8 grid indexed [rank][file], rank 0
// being rank 1 and file 0 being the a-file.
func (g *Game) Board() [8][8]Piece {
	var out [8][8]Piece
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			out[r][f] = g.pos.get(NewSquare(f, r))
		}
	}
	return out
}

// ASCII renders the board as an 8x8 text diagram, rank 8 at the top,
// files labeled a-h along the bottom, '.' marking empty squares.
func (g *Game) ASCII() string {
	var sb strings.Builder
	sb.WriteString("  +------------------------+\n")
	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d |", r+1))
		for f := 0; f < 8; f++ {
			p := g.pos.get(NewSquare(f, r))
			sb.WriteString(" ")
			if p.IsEmpty() {
				sb.WriteString(".")
			} else {
				sb.WriteString(string(p.Letter()))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  +------------------------+\n")
	sb.WriteString("    a  b  c  d  e  f  g  h\n")
	return sb.String()
}

// MovesOptions filters the legal-move set returned by Moves/VerboseMoves.
// A nil field means "no filter"; the zero value of MovesOptions matches
// every legal move.
type MovesOptions struct {
	Square *Square
	Piece  *PieceKind
}

// Moves returns the current legal moves in SAN, optionally filtered by
// source square and/or piece kind.
func (g *Game) Moves(opts MovesOptions) []string {
	legal := g.filteredLegalMoves(opts)
	out := make([]string, len(legal))
	for i, m := range legal {
		out[i] = MoveToSAN(g.pos, m)
	}
	return out
}

// VerboseMoves is Moves, but returns the full VerboseMove shape (including
// the FEN before/after each candidate move) instead of bare SAN text.
func (g *Game) VerboseMoves(opts MovesOptions) []VerboseMove {
	legal := g.filteredLegalMoves(opts)
	out := make([]VerboseMove, len(legal))
	before := g.pos.FEN(false)
	for i, m := range legal {
		san := MoveToSAN(g.pos, m)
		entry := g.pos.makeMove(m)
		out[i] = VerboseMove{
			Color:     m.Piece.Color,
			From:      m.From,
			To:        m.To,
			Piece:     m.Piece,
			Captured:  m.Captured,
			Promotion: m.Promotion,
			SAN:       san,
			LAN:       m.String(),
			Before:    before,
			After:     g.pos.FEN(false),
			Flags:     m.Flags,
		}
		g.pos.unmakeMove(entry)
	}
	return out
}

func (g *Game) filteredLegalMoves(opts MovesOptions) MoveList {
	legal := g.pos.GenerateLegalMoves()
	if opts.Square == nil && opts.Piece == nil {
		return legal
	}
	var out MoveList
	for _, m := range legal {
		if opts.Square != nil && m.From != *opts.Square {
			continue
		}
		if opts.Piece != nil && m.Piece.Kind != *opts.Piece {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Attackers returns every square holding a color piece that attacks sq.
func (g *Game) Attackers(sq Square, color Color) []Square {
	return g.pos.attackers(sq, color)
}

// IsAttacked reports whether any color piece attacks sq.
func (g *Game) IsAttacked(sq Square, color Color) bool {
	return g.pos.isAttacked(sq, color)
}

// SquareColor returns "light" or "dark" for sq.
func (g *Game) SquareColor(sq Square) string {
	return SquareColor(sq)
}

// GetHeaders returns a copy of the game's header map.
func (g *Game) GetHeaders() map[string]string {
	out := make(map[string]string, len(g.headers))
	for k, v := range g.headers {
		out[k] = v
	}
	return out
}

// SetHeader stores a header value; see setHeader for Seven-Tag-Roster
// default handling.
func (g *Game) SetHeader(key, value string) { g.setHeader(key, value) }

// RemoveHeader restores a Seven-Tag-Roster key to its default or deletes a
// supplemental key, reporting whether the key was present.
func (g *Game) RemoveHeader(key string) bool { return g.removeHeader(key) }

// GetComment returns the comment attached to the most recently played
// move, if any.
func (g *Game) GetComment() (string, bool) {
	if len(g.history) == 0 {
		return "", false
	}
	c, ok := g.comments[g.history[len(g.history)-1].fenKey]
	return c, ok
}

// RemoveComment deletes the comment on the most recently played move,
// reporting whether one was present.
func (g *Game) RemoveComment() bool {
	if len(g.history) == 0 {
		return false
	}
	key := g.history[len(g.history)-1].fenKey
	if _, ok := g.comments[key]; !ok {
		return false
	}
	delete(g.comments, key)
	return true
}

// GetComments returns a copy of every FEN-keyed comment in the game.
func (g *Game) GetComments() map[string]string {
	out := make(map[string]string, len(g.comments))
	for k, v := range g.comments {
		out[k] = v
	}
	return out
}

// RemoveComments clears every comment in the game.
func (g *Game) RemoveComments() {
	g.comments = make(map[string]string)
}

// validSuffixAnnotations is the closed set of NAG symbols a suffix
// annotation may take, per §3's Game.suffixes field.
var validSuffixAnnotations = map[string]bool{
	"!": true, "?": true, "!!": true, "!?": true, "?!": true, "??": true,
}

// SetSuffixAnnotation attaches nag to the most recently played move. It
// returns ErrInvalidSuffix if nag is not one of the six recognized glyphs
// or if there is no move to annotate.
func (g *Game) SetSuffixAnnotation(nag string) error {
	if !validSuffixAnnotations[nag] {
		return fmt.Errorf("%w: %q", ErrInvalidSuffix, nag)
	}
	if len(g.history) == 0 {
		return fmt.Errorf("%w: no move to annotate", ErrInvalidSuffix)
	}
	g.nags[g.history[len(g.history)-1].fenKey] = []string{nag}
	return nil
}

// GetSuffixAnnotation returns the suffix annotation on the most recently
// played move, if any.
func (g *Game) GetSuffixAnnotation() (string, bool) {
	if len(g.history) == 0 {
		return "", false
	}
	nags := g.nags[g.history[len(g.history)-1].fenKey]
	if len(nags) == 0 {
		return "", false
	}
	return nags[0], true
}

// RemoveSuffixAnnotation deletes the suffix annotation on the most
// recently played move, reporting whether one was present.
func (g *Game) RemoveSuffixAnnotation() bool {
	if len(g.history) == 0 {
		return false
	}
	key := g.history[len(g.history)-1].fenKey
	if _, ok := g.nags[key]; !ok {
		return false
	}
	delete(g.nags, key)
	return true
}
