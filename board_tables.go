package chess

// 0x88 attack/ray/offset tables, built once at package init. Squares are
// indexed 0..127 (rank*16+file); only indices with (s&0x88)==0 are real board
// squares, the rest pad each rank out to a power-of-two stride so off-board
// detection and the attack/ray tables below can be addressed purely by the
// numeric difference between two square indices.

// attacks[d] is a bitmask (see pieceMask) of the piece kinds that *could*
// attack across a square difference of d-119, ignoring blockers.
var attacks [239]uint16

// rays[d] is the single 0x88 step increment along the ray connecting two
// squares whose difference is d-119, or 0 if the two squares do not share a
// rank, file, or diagonal.
var rays [239]int8

// pieceOffsets holds the leaper/slider step set for each non-pawn kind.
var pieceOffsets = [7][]int{
	NoPieceKind: nil,
	Pawn:        nil,
	Knight:      {-33, -31, -18, -14, 14, 18, 31, 33},
	Bishop:      {-17, -15, 15, 17},
	Rook:        {-16, -1, 1, 16},
	Queen:       {-17, -16, -15, -1, 1, 15, 16, 17},
	King:        {-17, -16, -15, -1, 1, 15, 16, 17},
}

// pawnOffsets holds {singlePush, doublePush, captureA, captureB} per color.
var pawnOffsets = [2][4]int{
	White: {16, 32, 15, 17},
	Black: {-16, -32, -15, -17},
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

func diffIndex(from, to Square) int {
	return int(from) - int(to) + 119
}

func init() {
	initRayTable()
	initAttackTable()
}

// initRayTable classifies every possible square difference as horizontal,
// vertical, one of the two diagonal families, or not a ray at all.
func initRayTable() {
	for d := 0; d < 239; d++ {
		diff := d - 119
		if diff == 0 {
			continue
		}
		switch {
		case abs(diff) <= 7:
			rays[d] = int8(sign(diff))
		case diff%16 == 0:
			rays[d] = int8(16 * sign(diff))
		case diff%15 == 0 && abs(diff) <= 105:
			rays[d] = int8(15 * sign(diff))
		case diff%17 == 0 && abs(diff) <= 119:
			rays[d] = int8(17 * sign(diff))
		}
	}
}

// initAttackTable walks every pair of real board squares and records, for
// each reachable pair, which piece kinds could move between them in one step
// or along a ray, ignoring blockers.
func initAttackTable() {
	for from := Square(0); from < 128; from++ {
		if from.OffBoard() {
			continue
		}
		for to := Square(0); to < 128; to++ {
			if to.OffBoard() || to == from {
				continue
			}
			diff := int(from) - int(to)
			mag := abs(diff)
			d := diffIndex(from, to)

			if mag == 15 || mag == 17 {
				attacks[d] |= pieceMask(Pawn)
			}
			if containsOffset(pieceOffsets[Knight], diff) {
				attacks[d] |= pieceMask(Knight)
			}
			if containsOffset(pieceOffsets[King], diff) {
				attacks[d] |= pieceMask(King)
			}
			if rays[d] != 0 {
				switch {
				case mag <= 7 || diff%16 == 0:
					attacks[d] |= pieceMask(Rook) | pieceMask(Queen)
				default:
					attacks[d] |= pieceMask(Bishop) | pieceMask(Queen)
				}
			}
		}
	}
}

func containsOffset(offsets []int, diff int) bool {
	for _, o := range offsets {
		if o == diff {
			return true
		}
	}
	return false
}

// attacksBetween reports whether a piece of kind k sitting on from could, in
// principle, attack to (it does not check blockers; see attacksSquare).
func attacksBetween(from, to Square, k PieceKind) bool {
	return attacks[diffIndex(from, to)]&pieceMask(k) != 0
}
