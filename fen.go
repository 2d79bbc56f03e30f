package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// splitFENFields accepts 2-6 whitespace-separated FEN fields and pads the
// missing trailing ones with their documented defaults: castling "-", en
// passant "-", half-move clock "0", move number "1". The turn field has no
// default; it and placement are mandatory.
func splitFENFields(fen string) ([6]string, error) {
	var out [6]string
	fields := strings.Fields(fen)
	if len(fields) < 2 || len(fields) > 6 {
		return out, fmt.Errorf("%w: expected 2-6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	defaults := [6]string{"", "", "-", "-", "0", "1"}
	for i := range out {
		if i < len(fields) {
			out[i] = fields[i]
		} else {
			out[i] = defaults[i]
		}
	}
	return out, nil
}

// FEN renders the position as a canonical six-field FEN string. When
// force is false (the default per spec), the en-passant field is emitted
// only if epSquare is set to a square a legal capture can actually reach;
// when force is true, fenEpSquare is emitted whenever non-empty regardless
// of whether a capture is currently possible.
func (p *Position) FEN(force bool) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.board[NewSquare(file, rank)]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.turn.String())

	sb.WriteByte(' ')
	sb.WriteString(p.castlingString())

	sb.WriteByte(' ')
	if force {
		sb.WriteString(p.fenEpSquare.String())
	} else {
		sb.WriteString(p.effectiveEPSquare().String())
	}

	fmt.Fprintf(&sb, " %d %d", p.halfMoves, p.moveNumber)

	return sb.String()
}

func (p *Position) castlingString() string {
	s := ""
	if p.castling[White]&CastleKingSide != 0 {
		s += "K"
	}
	if p.castling[White]&CastleQueenSide != 0 {
		s += "Q"
	}
	if p.castling[Black]&CastleKingSide != 0 {
		s += "k"
	}
	if p.castling[Black]&CastleQueenSide != 0 {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}
