package chess

// MoveFlags is a bitset describing the special characteristics of a move,
// mirroring the flag vocabulary chess.js exposes on its verbose move objects.
type MoveFlags uint16

const (
	FlagNormal MoveFlags = 1 << iota
	FlagCapture
	FlagBigPawn    // two-square pawn push
	FlagEPCapture  // en passant capture
	FlagPromotion
	FlagKSideCastle
	FlagQSideCastle
	FlagNullMove
)

// Has reports whether f contains all bits of other.
func (f MoveFlags) Has(other MoveFlags) bool {
	return f&other == other
}

// String renders the flags using chess.js's single-letter codes: n, b, e, c,
// p, k, q (concatenated; a null move renders as "-").
func (f MoveFlags) String() string {
	if f.Has(FlagNullMove) {
		return "-"
	}
	s := ""
	if f.Has(FlagNormal) {
		s += "n"
	}
	if f.Has(FlagBigPawn) {
		s += "b"
	}
	if f.Has(FlagEPCapture) {
		s += "e"
	}
	if f.Has(FlagCapture) {
		s += "c"
	}
	if f.Has(FlagPromotion) {
		s += "p"
	}
	if f.Has(FlagKSideCastle) {
		s += "k"
	}
	if f.Has(FlagQSideCastle) {
		s += "q"
	}
	return s
}

// Move is a fully-resolved move: the piece that moved, the squares involved,
// and everything needed to undo it or render it as SAN without consulting the
// position again. Unlike the teacher's packed uint16 encoding (which fits a
// 0-63 bitboard square into 6 bits), 0x88 squares run 0..127 and so this
// library keeps Move as a small struct rather than a packed integer.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece // empty (IsEmpty) if not a capture
	Promotion PieceKind // NoPieceKind unless Flags has FlagPromotion
	Flags     MoveFlags
}

// NullMove returns the sentinel "pass" move used for null-move analysis.
func NullMove(side Color) Move {
	return Move{
		From:  EmptySquare,
		To:    EmptySquare,
		Piece: Piece{Kind: NoPieceKind, Color: side},
		Flags: FlagNullMove,
	}
}

// IsNull reports whether m is a null (pass) move.
func (m Move) IsNull() bool {
	return m.Flags.Has(FlagNullMove)
}

// IsCapture reports whether m captures a piece, including en passant.
func (m Move) IsCapture() bool {
	return m.Flags.Has(FlagCapture) || m.Flags.Has(FlagEPCapture)
}

// IsCastle reports whether m is a castling move, either side.
func (m Move) IsCastle() bool {
	return m.Flags.Has(FlagKSideCastle) || m.Flags.Has(FlagQSideCastle)
}

// String renders a UCI-style long algebraic move, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Flags.Has(FlagPromotion) {
		s += string(m.Promotion.Letter() + ('a' - 'A'))
	}
	return s
}

// MoveList is a slice of candidate moves, used by the generator and by SAN
// disambiguation (which must scan the full legal-move set).
type MoveList []Move

// VerboseMove is the public, fully-rendered shape of a played or candidate
// move: everything in Move, plus its SAN/LAN text and the FEN immediately
// before and after it. Before/After are always rendered in non-forced EP
// mode (Position.FEN(false)), per §9.
type VerboseMove struct {
	Color     Color
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	Promotion PieceKind
	SAN       string
	LAN       string
	Before    string
	After     string
	Flags     MoveFlags
}

func (m VerboseMove) IsCapture() bool         { return m.Flags.Has(FlagCapture) || m.Flags.Has(FlagEPCapture) }
func (m VerboseMove) IsPromotion() bool       { return m.Flags.Has(FlagPromotion) }
func (m VerboseMove) IsEnPassant() bool       { return m.Flags.Has(FlagEPCapture) }
func (m VerboseMove) IsKingsideCastle() bool  { return m.Flags.Has(FlagKSideCastle) }
func (m VerboseMove) IsQueensideCastle() bool { return m.Flags.Has(FlagQSideCastle) }
func (m VerboseMove) IsBigPawn() bool         { return m.Flags.Has(FlagBigPawn) }
func (m VerboseMove) IsNullMove() bool        { return m.Flags.Has(FlagNullMove) }

// HistoryEntry records the scalar position state needed to unmake a move
// without keeping a full board snapshot, per the copy/restore pattern the
// teacher's engine search uses for undo.
type HistoryEntry struct {
	Move           Move
	Castling       [2]uint8
	EPSquare       Square
	HalfMoves      int
	MoveNumber     int
	Hash           uint64
	CapturedSquare Square // differs from To only for en passant
}
