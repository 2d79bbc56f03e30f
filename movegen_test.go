package chess

import "testing"

// TestPerftStartingPosition checks move-generator node counts from the
// standard starting position against the well-known perft sequence.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftKiwipete exercises castling, en passant, promotion, and check
// evasion together via the well-known Kiwipete position.
func TestPerftKiwipete(t *testing.T) {
	pos, err := LoadFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftEnPassantEdgeCases covers en passant discovery plus a
// horizontal-pin case that must make the EP capture illegal.
func TestPerftEnPassantEdgeCases(t *testing.T) {
	pos, err := LoadFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}
	tests := []struct {
		depth    int
		expected int
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}
	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestEnPassantHorizontalPinIsIllegal is the specific case perft alone
// would only reveal indirectly: an EP capture that would expose the
// capturing side's own king to a rook along the vacated rank must not be
// generated as a legal move.
func TestEnPassantHorizontalPinIsIllegal(t *testing.T) {
	pos, err := LoadFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}
	for _, m := range pos.GenerateLegalMoves() {
		if m.Flags.Has(FlagEPCapture) {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", m)
		}
	}
}

// TestMakeUnmakeRestoresHash walks every legal move from a handful of
// positions one ply deep and checks that make+unmake leaves the board, the
// turn, castling rights, fenEpSquare, both clocks, and the Zobrist hash
// bit-identical.
func TestMakeUnmakeRestoresHash(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		pos, err := LoadFEN(fen)
		if err != nil {
			t.Fatalf("LoadFEN(%q): %v", fen, err)
		}
		before := *pos
		beforeHash := pos.hash
		for _, m := range pos.GenerateLegalMoves() {
			entry := pos.makeMove(m)
			pos.unmakeMove(entry)
			if pos.hash != beforeHash {
				t.Fatalf("hash mismatch after make/unmake of %v: got %x want %x", m, pos.hash, beforeHash)
			}
			if pos.board != before.board {
				t.Fatalf("board mismatch after make/unmake of %v", m)
			}
			if pos.turn != before.turn || pos.castling != before.castling ||
				pos.fenEpSquare != before.fenEpSquare || pos.halfMoves != before.halfMoves ||
				pos.moveNumber != before.moveNumber {
				t.Fatalf("scalar mismatch after make/unmake of %v", m)
			}
		}
	}
}

// TestInsufficientMaterial covers the K-vs-K, K+minor-vs-K, and same-color
// bishop pair cases.
func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/4K3/8/8/8 w - - 0 1", true},
		{"8/8/8/4k3/4KB2/8/8/8 w - - 0 1", true},
		{"8/8/8/4k3/4KN2/8/8/8 w - - 0 1", true},
		{"8/8/8/2b1k3/4KB2/8/8/8 w - - 0 1", true},  // both bishops on dark squares
		{"8/8/8/3bk3/4KB2/8/8/8 w - - 0 1", false},  // opposite-colored bishops
		{"8/8/8/4k3/4KR2/8/8/8 w - - 0 1", false},   // rook is sufficient material
	}
	for _, tc := range cases {
		pos, err := LoadFEN(tc.fen)
		if err != nil {
			t.Fatalf("LoadFEN(%q): %v", tc.fen, err)
		}
		if got := pos.isInsufficientMaterial(); got != tc.want {
			t.Errorf("isInsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

// TestFiftyMoveRule matches spec §8 scenario 5.
func TestFiftyMoveRule(t *testing.T) {
	pos, err := LoadFEN("8/8/8/4k3/4K3/8/8/8 w - - 100 60")
	if err != nil {
		t.Fatalf("LoadFEN: %v", err)
	}
	if !pos.isDrawByFiftyMoves() {
		t.Error("expected isDrawByFiftyMoves = true")
	}
	if !pos.isDraw() {
		t.Error("expected isDraw = true")
	}
}
