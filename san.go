package chess

import (
	"fmt"
	"regexp"
	"strings"
)

// permissiveSAN matches lenient move notations such as "Pe2-e4", "Rc1c4",
// "Qf3xf7", "f7f8q", "b1c3": an optional piece letter, an optional
// (possibly partial) source coordinate, an optional "x"/"-" separator, the
// destination square, and an optional promotion letter.
var permissiveSAN = regexp.MustCompile(`^([PNBRQK])?([a-h][1-8]|[a-h]|[1-8])?x?-?([a-h][1-8])([qrbnQRBN])?$`)

// MoveToSAN renders m as standard algebraic notation against pos (which
// must be the position m is to be played from). Disambiguation is computed
// over pos's full legal-move set, and the trailing +/# suffix is determined
// by actually making and unmaking the move.
func MoveToSAN(pos *Position, m Move) string {
	legal := pos.GenerateLegalMoves()
	san := sanCore(m, legal)

	entry := pos.makeMove(m)
	switch {
	case pos.isCheckmate():
		san += "#"
	case pos.inCheck(pos.turn):
		san += "+"
	}
	pos.unmakeMove(entry)

	return san
}

// sanCore renders m without the trailing check/mate suffix.
func sanCore(m Move, legal MoveList) string {
	if m.IsNull() {
		return "--"
	}
	if m.Flags.Has(FlagKSideCastle) {
		return "O-O"
	}
	if m.Flags.Has(FlagQSideCastle) {
		return "O-O-O"
	}

	var sb strings.Builder
	if m.Piece.Kind != Pawn {
		sb.WriteByte(m.Piece.Kind.Letter())
	}
	sb.WriteString(disambiguator(m, legal))
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Flags.Has(FlagPromotion) {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion.Letter())
	}
	return sb.String()
}

// disambiguator computes the minimal source-square prefix needed to
// distinguish m from every other legal move of the same piece kind landing
// on the same square: empty if unambiguous (except pawn captures, which
// always prefix the source file), else the file, else the rank, else the
// full source square.
func disambiguator(m Move, legal MoveList) string {
	if m.Piece.Kind == Pawn {
		if m.IsCapture() {
			return m.From.String()[0:1]
		}
		return ""
	}

	ambiguous, sameFile, sameRank := false, false, false
	for _, other := range legal {
		if other.From == m.From || other.To != m.To {
			continue
		}
		if other.Piece.Kind != m.Piece.Kind || other.Piece.Color != m.Piece.Color {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	name := m.From.String()
	if !sameFile {
		return name[0:1]
	}
	if !sameRank {
		return name[1:2]
	}
	return name
}

var sanDecorators = strings.NewReplacer("=", "", "+", "", "#", "", "?", "", "!", "")

// MoveFromSAN decodes san against pos's current legal-move set. The strict
// pass strips decorators, normalizes numeric castling, and accepts the
// first legal move whose undecorated SAN matches exactly. If that fails and
// strict is false, a permissive regex pass infers piece kind and partial
// source coordinates, accepting the first legal move consistent with them
// (documented non-determinism when more than one matches).
func MoveFromSAN(pos *Position, san string, strict bool) (Move, error) {
	legal := pos.GenerateLegalMoves()

	normalized := sanDecorators.Replace(san)
	switch normalized {
	case "0-0":
		normalized = "O-O"
	case "0-0-0":
		normalized = "O-O-O"
	}

	for _, m := range legal {
		if sanDecorators.Replace(sanCore(m, legal)) == normalized {
			return m, nil
		}
	}

	if strict {
		return Move{}, fmt.Errorf("%w: %q does not match any legal move", ErrInvalidSAN, san)
	}

	return moveFromSANPermissive(normalized, legal)
}

func moveFromSANPermissive(san string, legal MoveList) (Move, error) {
	match := permissiveSAN.FindStringSubmatch(san)
	if match == nil {
		return Move{}, fmt.Errorf("%w: %q is not a recognized move", ErrInvalidSAN, san)
	}
	pieceLetter, srcHint, dest, promo := match[1], match[2], match[3], match[4]

	wantKind := Pawn
	if pieceLetter != "" {
		wantKind = kindFromLetter(pieceLetter[0])
	}
	toSq, err := ParseSquare(dest)
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidSAN, san)
	}

	for _, m := range legal {
		if m.Piece.Kind != wantKind || m.To != toSq {
			continue
		}
		if promo != "" {
			if !m.Flags.Has(FlagPromotion) || m.Promotion != kindFromLetter(strings.ToUpper(promo)[0]) {
				continue
			}
		} else if m.Flags.Has(FlagPromotion) {
			continue
		}
		if !srcHintMatches(srcHint, m.From) {
			continue
		}
		return m, nil
	}
	return Move{}, fmt.Errorf("%w: %q does not match any legal move", ErrInvalidSAN, san)
}

func srcHintMatches(hint string, from Square) bool {
	switch len(hint) {
	case 0:
		return true
	case 1:
		c := hint[0]
		if c >= 'a' && c <= 'h' {
			return from.File() == int(c-'a')
		}
		if c >= '1' && c <= '8' {
			return from.Rank() == int(c-'1')
		}
		return false
	default:
		sq, err := ParseSquare(hint)
		return err == nil && sq == from
	}
}

func kindFromLetter(c byte) PieceKind {
	switch c {
	case 'P':
		return Pawn
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	default:
		return NoPieceKind
	}
}
