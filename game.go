package chess

import "fmt"

// sevenTagRoster is the mandatory PGN header set, in emission order, with
// its placeholder default values.
var sevenTagRoster = []struct {
	key     string
	deflt   string
}{
	{"Event", "?"},
	{"Site", "?"},
	{"Date", "????.??.??"},
	{"Round", "?"},
	{"White", "?"},
	{"Black", "?"},
	{"Result", "*"},
}

// supplementalTagOrder fixes the emission order of the common optional tags
// that follow the Seven Tag Roster; any header not listed here is emitted
// after these, in the order it was first set.
var supplementalTagOrder = []string{
	"WhiteElo", "BlackElo", "ECO", "Opening", "Variation", "TimeControl",
	"SetUp", "FEN", "Annotator", "Mode", "PlyCount", "Termination",
}

// plyRecord pairs a played move with its SAN rendering and the FEN reached
// immediately after it; comments and NAGs key off that post-move FEN so
// that pruneComments can walk the history and drop orphaned entries.
type plyRecord struct {
	move    Move
	san     string
	fenKey  string
}

// Game wraps a Position with PGN-level bookkeeping: headers, move history,
// and comment/NAG annotations keyed by post-move FEN.
type Game struct {
	pos *Position

	history []plyRecord

	headers     map[string]string
	headerOrder []string

	comments map[string]string
	nags     map[string][]string
}

// NewGame returns a Game at the standard starting position with default
// Seven Tag Roster headers.
func NewGame() *Game {
	g := &Game{
		pos:      NewPosition(),
		headers:  make(map[string]string),
		comments: make(map[string]string),
		nags:     make(map[string][]string),
	}
	for _, t := range sevenTagRoster {
		g.headers[t.key] = t.deflt
		g.headerOrder = append(g.headerOrder, t.key)
	}
	return g
}

// NewGameFromFEN builds a Game whose starting position is fen, recording the
// SetUp/FEN header pair per the PGN convention for non-standard starts.
func NewGameFromFEN(fen string) (*Game, error) {
	pos, err := LoadFEN(fen)
	if err != nil {
		return nil, err
	}
	g := NewGame()
	g.pos = pos
	g.setHeader("SetUp", "1")
	g.setHeader("FEN", fen)
	return g, nil
}

// Position returns the current (post-history) position.
func (g *Game) Position() *Position {
	return g.pos
}

// Turn returns the side to move in the current position.
func (g *Game) Turn() Color {
	return g.pos.turn
}

// Move applies the legal move matching san (strict controls whether the
// permissive SAN fallback is allowed) and records it in history.
func (g *Game) Move(san string, strict bool) error {
	m, err := MoveFromSAN(g.pos, san, strict)
	if err != nil {
		return err
	}
	return g.applyMove(m)
}

// MoveByCoordinates applies the unique legal move from 'from' to 'to' (and,
// for pawn promotions, with the given promotion kind).
func (g *Game) MoveByCoordinates(from, to Square, promotion PieceKind) error {
	for _, m := range g.pos.GenerateLegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.Flags.Has(FlagPromotion) && m.Promotion != promotion {
			continue
		}
		return g.applyMove(m)
	}
	return fmt.Errorf("%w: no legal move %s-%s", ErrInvalidMove, from, to)
}

func (g *Game) applyMove(m Move) error {
	san := MoveToSAN(g.pos, m)
	entry := g.pos.makeMove(m)
	g.pos.history = append(g.pos.history, entry)

	g.history = append(g.history, plyRecord{
		move:   m,
		san:    san,
		fenKey: g.pos.FEN(false),
	})
	return nil
}

// Undo reverses the most recently applied move, if any, returning false if
// history is empty.
func (g *Game) Undo() bool {
	if len(g.history) == 0 {
		return false
	}
	n := len(g.pos.history) - 1
	entry := g.pos.history[n]
	g.pos.history = g.pos.history[:n]
	g.pos.unmakeMove(entry)
	g.history = g.history[:len(g.history)-1]
	g.pruneComments()
	return true
}

// History returns the SAN tokens played so far, in order.
func (g *Game) History() []string {
	out := make([]string, len(g.history))
	for i, r := range g.history {
		out[i] = r.san
	}
	return out
}

// VerboseHistory returns each played ply as a VerboseMove, with the FEN
// immediately before and after it rendered via Position.FEN(false) per the
// documented default (§9).
func (g *Game) VerboseHistory() []VerboseMove {
	pos, err := LoadFEN(g.startFEN())
	if err != nil {
		return nil
	}
	out := make([]VerboseMove, len(g.history))
	for i, r := range g.history {
		before := pos.FEN(false)
		pos.makeMove(r.move)
		out[i] = VerboseMove{
			Color:     r.move.Piece.Color,
			From:      r.move.From,
			To:        r.move.To,
			Piece:     r.move.Piece,
			Captured:  r.move.Captured,
			Promotion: r.move.Promotion,
			SAN:       r.san,
			LAN:       r.move.String(),
			Before:    before,
			After:     pos.FEN(false),
			Flags:     r.move.Flags,
		}
	}
	return out
}

func (g *Game) startFEN() string {
	if fen, ok := g.headers["FEN"]; ok && g.headers["SetUp"] == "1" {
		return fen
	}
	return StartFEN
}

// IsCheck, IsCheckmate, IsStalemate, IsDraw, and IsGameOver expose the
// Position termination predicates at the current point in the game.
func (g *Game) IsCheck() bool     { return g.pos.inCheck(g.pos.turn) }
func (g *Game) IsCheckmate() bool { return g.pos.isCheckmate() }
func (g *Game) IsStalemate() bool { return g.pos.isStalemate() }
func (g *Game) IsDraw() bool      { return g.pos.isDraw() }
func (g *Game) IsGameOver() bool  { return g.pos.isGameOver() }

// IsThreefoldRepetition, IsInsufficientMaterial, and IsDrawByFiftyMoves
// expose the individual draw conditions IsDraw aggregates.
func (g *Game) IsThreefoldRepetition() bool { return g.pos.isThreefoldRepetition() }
func (g *Game) IsInsufficientMaterial() bool { return g.pos.isInsufficientMaterial() }
func (g *Game) IsDrawByFiftyMoves() bool     { return g.pos.isDrawByFiftyMoves() }

// MoveNumber returns the current full-move counter.
func (g *Game) MoveNumber() int { return g.pos.moveNumber }

// Perft counts leaf nodes of the legal-move tree to the given depth, used
// for move-generator regression testing.
func (g *Game) Perft(depth int) int {
	return perft(g.pos, depth)
}

func perft(pos *Position, depth int) int {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		entry := pos.makeMove(m)
		nodes += perft(pos, depth-1)
		pos.unmakeMove(entry)
	}
	return nodes
}
