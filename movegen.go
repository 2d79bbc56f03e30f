package chess

// genPseudoLegal walks every occupied square belonging to the side to move
// and emits pseudo-legal moves per piece via the offset tables in
// board_tables.go. Pawn rules (push, double push, two capture diagonals, EP,
// promotion) are handled distinctly from the leaper/slider loop that serves
// knights, bishops, rooks, queens, and kings (including castling).
func (p *Position) genPseudoLegal() MoveList {
	var moves MoveList
	side := p.turn

	for sq := Square(0); sq < 128; sq++ {
		if sq.OffBoard() {
			continue
		}
		piece := p.board[sq]
		if piece.IsEmpty() || piece.Color != side {
			continue
		}
		switch piece.Kind {
		case Pawn:
			p.genPawnMoves(sq, piece, &moves)
		case Knight, King:
			p.genLeaperMoves(sq, piece, &moves)
		case Bishop, Rook, Queen:
			p.genSliderMoves(sq, piece, &moves)
		}
	}
	p.genCastlingMoves(side, &moves)

	return moves
}

var promotionKinds = [4]PieceKind{Queen, Rook, Bishop, Knight}

func (p *Position) genPawnMoves(from Square, piece Piece, moves *MoveList) {
	off := pawnOffsets[piece.Color]
	startRank := 1
	lastRank := 7
	if piece.Color == Black {
		startRank = 6
		lastRank = 0
	}

	push := from + Square(off[0])
	if !push.OffBoard() && p.board[push].IsEmpty() {
		p.addPawnAdvance(from, push, piece, lastRank, moves)

		if from.Rank() == startRank {
			doublePush := from + Square(off[1])
			if p.board[doublePush].IsEmpty() {
				*moves = append(*moves, Move{From: from, To: doublePush, Piece: piece, Flags: FlagBigPawn})
			}
		}
	}

	for _, capOff := range [2]int{off[2], off[3]} {
		to := from + Square(capOff)
		if to.OffBoard() {
			continue
		}
		if to == p.epSquare {
			victimSq := NewSquare(to.File(), from.Rank())
			*moves = append(*moves, Move{
				From: from, To: to, Piece: piece,
				Captured: p.board[victimSq],
				Flags:    FlagEPCapture | FlagCapture,
			})
			continue
		}
		target := p.board[to]
		if !target.IsEmpty() && target.Color != piece.Color {
			p.addPawnCapture(from, to, piece, target, lastRank, moves)
		}
	}
}

func (p *Position) addPawnAdvance(from, to Square, piece Piece, lastRank int, moves *MoveList) {
	if to.Rank() == lastRank {
		for _, k := range promotionKinds {
			*moves = append(*moves, Move{From: from, To: to, Piece: piece, Promotion: k, Flags: FlagPromotion})
		}
		return
	}
	*moves = append(*moves, Move{From: from, To: to, Piece: piece, Flags: FlagNormal})
}

func (p *Position) addPawnCapture(from, to Square, piece, captured Piece, lastRank int, moves *MoveList) {
	if to.Rank() == lastRank {
		for _, k := range promotionKinds {
			*moves = append(*moves, Move{From: from, To: to, Piece: piece, Captured: captured, Promotion: k, Flags: FlagPromotion | FlagCapture})
		}
		return
	}
	*moves = append(*moves, Move{From: from, To: to, Piece: piece, Captured: captured, Flags: FlagCapture})
}

func (p *Position) genLeaperMoves(from Square, piece Piece, moves *MoveList) {
	for _, off := range pieceOffsets[piece.Kind] {
		to := from + Square(off)
		if to.OffBoard() {
			continue
		}
		target := p.board[to]
		if target.IsEmpty() {
			*moves = append(*moves, Move{From: from, To: to, Piece: piece, Flags: FlagNormal})
		} else if target.Color != piece.Color {
			*moves = append(*moves, Move{From: from, To: to, Piece: piece, Captured: target, Flags: FlagCapture})
		}
	}
}

func (p *Position) genSliderMoves(from Square, piece Piece, moves *MoveList) {
	for _, off := range pieceOffsets[piece.Kind] {
		for to := from + Square(off); !to.OffBoard(); to += Square(off) {
			target := p.board[to]
			if target.IsEmpty() {
				*moves = append(*moves, Move{From: from, To: to, Piece: piece, Flags: FlagNormal})
				continue
			}
			if target.Color != piece.Color {
				*moves = append(*moves, Move{From: from, To: to, Piece: piece, Captured: target, Flags: FlagCapture})
			}
			break
		}
	}
}

// genCastlingMoves emits O-O/O-O-O for side if the rights bit is set, the
// squares between king and rook are empty, and the king is neither
// currently in check, transiting through, nor landing on an attacked
// square.
func (p *Position) genCastlingMoves(side Color, moves *MoveList) {
	rank := 0
	if side == Black {
		rank = 7
	}
	kingFrom := NewSquare(4, rank)
	if p.board[kingFrom] != (Piece{King, side}) {
		return
	}
	if p.isAttacked(kingFrom, side.Other()) {
		return
	}

	if p.castling[side]&CastleKingSide != 0 {
		f, g := NewSquare(5, rank), NewSquare(6, rank)
		if p.board[f].IsEmpty() && p.board[g].IsEmpty() &&
			!p.isAttacked(f, side.Other()) && !p.isAttacked(g, side.Other()) {
			*moves = append(*moves, Move{From: kingFrom, To: g, Piece: p.board[kingFrom], Flags: FlagKSideCastle})
		}
	}
	if p.castling[side]&CastleQueenSide != 0 {
		d, c, b := NewSquare(3, rank), NewSquare(2, rank), NewSquare(1, rank)
		if p.board[d].IsEmpty() && p.board[c].IsEmpty() && p.board[b].IsEmpty() &&
			!p.isAttacked(d, side.Other()) && !p.isAttacked(c, side.Other()) {
			*moves = append(*moves, Move{From: kingFrom, To: c, Piece: p.board[kingFrom], Flags: FlagQSideCastle})
		}
	}
}

// isAttacked reports whether sq is attacked by any piece of color by,
// accounting for blockers along slider rays.
func (p *Position) isAttacked(sq Square, by Color) bool {
	for from := Square(0); from < 128; from++ {
		if from.OffBoard() {
			continue
		}
		piece := p.board[from]
		if piece.IsEmpty() || piece.Color != by {
			continue
		}
		if p.attacksSquare(from, sq, piece) {
			return true
		}
	}
	return false
}

// attackers returns every square occupied by a piece of color by that
// attacks sq.
func (p *Position) attackers(sq Square, by Color) []Square {
	var result []Square
	for from := Square(0); from < 128; from++ {
		if from.OffBoard() {
			continue
		}
		piece := p.board[from]
		if piece.IsEmpty() || piece.Color != by {
			continue
		}
		if p.attacksSquare(from, sq, piece) {
			result = append(result, from)
		}
	}
	return result
}

func (p *Position) attacksSquare(from, to Square, piece Piece) bool {
	if piece.Kind == Pawn {
		diff := int(to) - int(from)
		captureOffsets := pawnOffsets[piece.Color]
		return diff == captureOffsets[2] || diff == captureOffsets[3]
	}
	if !attacksBetween(from, to, piece.Kind) {
		return false
	}
	if piece.Kind == Knight || piece.Kind == King {
		return true
	}
	// rays[diffIndex(from, to)] is keyed by (from-to) and so points from to
	// towards from; negate it to walk from from towards to.
	step := -rays[diffIndex(from, to)]
	for s := from + Square(step); s != to; s += Square(step) {
		if s.OffBoard() {
			return false
		}
		if !p.board[s].IsEmpty() {
			return false
		}
	}
	return true
}

// inCheck reports whether side's king currently sits on an attacked square.
func (p *Position) inCheck(side Color) bool {
	return p.isAttacked(p.king(side), side.Other())
}

// GenerateLegalMoves returns every legal move for the side to move, filtered
// from the pseudo-legal set by copy-make: each candidate is applied, the
// mover's king safety is checked, and the move is unmade regardless of the
// outcome.
func (p *Position) GenerateLegalMoves() MoveList {
	pseudo := p.genPseudoLegal()
	legal := make(MoveList, 0, len(pseudo))
	side := p.turn
	for _, m := range pseudo {
		entry := p.makeMove(m)
		if !p.isAttacked(p.king(side), side.Other()) {
			legal = append(legal, m)
		}
		p.unmakeMove(entry)
	}
	return legal
}

// makeMove applies m to the position: board edits, castling-rights
// maintenance, EP square creation/clearing, the side-key hash flip,
// half-move/move-number bookkeeping, and the positionCount increment. It
// returns the HistoryEntry so the caller can later unmakeMove it; it does
// not push the entry itself (Game.applyMove pushes it onto Position's
// history stack for Game-level undo).
func (p *Position) makeMove(m Move) HistoryEntry {
	entry := p.snapshot(m)
	entry.CapturedSquare = m.To

	mover := p.turn
	p.hash ^= castlingKeys[p.castlingIndex()]

	p.board[m.From] = NoPiece
	p.hash ^= zobristPiece(m.Piece, m.From)

	if m.Flags.Has(FlagEPCapture) {
		victimSq := NewSquare(m.To.File(), m.From.Rank())
		entry.CapturedSquare = victimSq
		p.hash ^= zobristPiece(m.Captured, victimSq)
		p.board[victimSq] = NoPiece
	} else if !m.Captured.IsEmpty() {
		p.hash ^= zobristPiece(m.Captured, m.To)
	}

	placed := m.Piece
	if m.Flags.Has(FlagPromotion) {
		placed = Piece{Kind: m.Promotion, Color: mover}
	}
	p.board[m.To] = placed
	p.hash ^= zobristPiece(placed, m.To)

	if m.Piece.Kind == King {
		p.kings[mover] = m.To
		p.castling[mover] = 0
	}

	if m.Flags.Has(FlagKSideCastle) || m.Flags.Has(FlagQSideCastle) {
		rank := m.From.Rank()
		var rookFrom, rookTo Square
		if m.Flags.Has(FlagKSideCastle) {
			rookFrom, rookTo = NewSquare(7, rank), NewSquare(5, rank)
		} else {
			rookFrom, rookTo = NewSquare(0, rank), NewSquare(3, rank)
		}
		rook := p.board[rookFrom]
		p.hash ^= zobristPiece(rook, rookFrom)
		p.board[rookFrom] = NoPiece
		p.board[rookTo] = rook
		p.hash ^= zobristPiece(rook, rookTo)
	}

	p.clearCastlingRightsForMove(m)

	if m.Flags.Has(FlagBigPawn) {
		p.fenEpSquare = NewSquare(m.To.File(), (m.From.Rank()+m.To.Rank())/2)
	} else {
		p.fenEpSquare = EmptySquare
	}
	if p.epSquare != EmptySquare {
		p.hash ^= epKeys[p.epSquare.File()]
	}
	// The side able to exploit a fresh EP square is whoever moves next, so
	// flip turn before deriving epSquare from fenEpSquare.
	p.turn = mover.Other()
	p.updateEnPassantSquare()
	if p.epSquare != EmptySquare {
		p.hash ^= epKeys[p.epSquare.File()]
	}

	if m.Piece.Kind == Pawn || m.IsCapture() {
		p.halfMoves = 0
	} else {
		p.halfMoves++
	}
	if mover == Black {
		p.moveNumber++
	}

	p.hash ^= castlingKeys[p.castlingIndex()]
	p.hash ^= sideKey

	p.positionCount[p.hash]++

	return entry
}

// clearCastlingRightsForMove drops rights when a home-square rook moves or
// is captured, independent of whether the move is itself a rook move.
func (p *Position) clearCastlingRightsForMove(m Move) {
	clearIfRookSquare := func(sq Square) {
		switch sq {
		case NewSquare(0, 0):
			p.castling[White] &^= CastleQueenSide
		case NewSquare(7, 0):
			p.castling[White] &^= CastleKingSide
		case NewSquare(0, 7):
			p.castling[Black] &^= CastleQueenSide
		case NewSquare(7, 7):
			p.castling[Black] &^= CastleKingSide
		}
	}
	clearIfRookSquare(m.From)
	clearIfRookSquare(m.To)
}

// unmakeMove reverses a makeMove application using its HistoryEntry: undoes
// board edits (replacing a captured piece or EP victim, reversing
// promotions, moving a castled rook back) and restores the snapshot
// scalars, leaving the hash bit-identical to before the move was made.
func (p *Position) unmakeMove(entry HistoryEntry) {
	m := entry.Move
	mover := m.Piece.Color

	if m.Flags.Has(FlagKSideCastle) || m.Flags.Has(FlagQSideCastle) {
		rank := m.From.Rank()
		var rookFrom, rookTo Square
		if m.Flags.Has(FlagKSideCastle) {
			rookFrom, rookTo = NewSquare(7, rank), NewSquare(5, rank)
		} else {
			rookFrom, rookTo = NewSquare(0, rank), NewSquare(3, rank)
		}
		rook := p.board[rookTo]
		p.board[rookTo] = NoPiece
		p.board[rookFrom] = rook
	}

	p.board[m.To] = NoPiece
	p.board[m.From] = m.Piece

	if m.Flags.Has(FlagEPCapture) {
		p.board[entry.CapturedSquare] = m.Captured
	} else if !m.Captured.IsEmpty() {
		p.board[m.To] = m.Captured
	}

	if m.Piece.Kind == King {
		p.kings[mover] = m.From
	}

	delete0 := p.positionCount[p.hash] - 1
	if delete0 <= 0 {
		delete(p.positionCount, p.hash)
	} else {
		p.positionCount[p.hash] = delete0
	}

	p.turn = mover
	p.restore(entry)
}

// isCheckmate reports whether the side to move is in check with no legal
// replies.
func (p *Position) isCheckmate() bool {
	return p.inCheck(p.turn) && len(p.GenerateLegalMoves()) == 0
}

// isStalemate reports whether the side to move is not in check but has no
// legal moves.
func (p *Position) isStalemate() bool {
	return !p.inCheck(p.turn) && len(p.GenerateLegalMoves()) == 0
}

// isInsufficientMaterial reports K-vs-K, K+minor-vs-K, and same-color-bishop
// endings that can never be checkmated.
func (p *Position) isInsufficientMaterial() bool {
	var minors []Piece
	var minorSquares []Square
	for sq := Square(0); sq < 128; sq++ {
		if sq.OffBoard() {
			continue
		}
		piece := p.board[sq]
		if piece.IsEmpty() || piece.Kind == King {
			continue
		}
		if piece.Kind == Bishop || piece.Kind == Knight {
			minors = append(minors, piece)
			minorSquares = append(minorSquares, sq)
			continue
		}
		return false // pawn, rook, or queen on board: sufficient
	}
	switch len(minors) {
	case 0:
		return true
	case 1:
		return true
	case 2:
		if minors[0].Kind == Bishop && minors[1].Kind == Bishop {
			return sameColor(minorSquares[0], minorSquares[1])
		}
		return false
	default:
		return false
	}
}

// isThreefoldRepetition reports whether the current hash has occurred three
// or more times over the life of this Position.
func (p *Position) isThreefoldRepetition() bool {
	return p.positionCount[p.hash] >= 3
}

// isDrawByFiftyMoves reports whether 50 full moves (100 half-moves) have
// passed without a pawn move or capture.
func (p *Position) isDrawByFiftyMoves() bool {
	return p.halfMoves >= 100
}

func (p *Position) isDraw() bool {
	return p.isStalemate() || p.isInsufficientMaterial() || p.isThreefoldRepetition() || p.isDrawByFiftyMoves()
}

func (p *Position) isGameOver() bool {
	return p.isCheckmate() || p.isDraw()
}
