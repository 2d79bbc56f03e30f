package chess

import "testing"

// TestParsePGNHeadersAndMoves covers the basic grammar: tag pairs, move
// numbers, SAN tokens, and a trailing result.
func TestParsePGNHeadersAndMoves(t *testing.T) {
	text := `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "1"]
[White "Alice"]
[Black "Bob"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0
`
	parsed, err := ParsePGN(text, true)
	if err != nil {
		t.Fatalf("ParsePGN: %v", err)
	}
	if parsed.Headers["White"] != "Alice" || parsed.Headers["Black"] != "Bob" {
		t.Fatalf("headers = %v", parsed.Headers)
	}
	if parsed.Result != "1-0" {
		t.Fatalf("Result = %q, want 1-0", parsed.Result)
	}
	if len(parsed.Root.Variations) != 1 {
		t.Fatalf("expected exactly one main-line variation, got %d", len(parsed.Root.Variations))
	}
	main := parsed.Root.Variations[0]
	wantSANs := []string{"e4", "e5", "Nf3", "Nc6"}
	if len(main) != len(wantSANs) {
		t.Fatalf("main line length = %d, want %d", len(main), len(wantSANs))
	}
	for i, n := range main {
		if n.SAN != wantSANs[i] {
			t.Errorf("main[%d].SAN = %q, want %q", i, n.SAN, wantSANs[i])
		}
	}
}

// TestParsePGNVariationsCommentsNAGs covers a nested variation, a comment,
// and a NAG attached to the same move.
func TestParsePGNVariationsCommentsNAGs(t *testing.T) {
	text := `[Event "Test"]

1. e4 e5 2. Nf3 {developing} Nc6 (2... Nf6 3. Nxe5) 3. Bb5 !? *
`
	parsed, err := ParsePGN(text, true)
	if err != nil {
		t.Fatalf("ParsePGN: %v", err)
	}
	main := parsed.Root.Variations[0]
	if len(main) != 5 {
		t.Fatalf("main line length = %d, want 5 (e4 e5 Nf3 Nc6 Bb5)", len(main))
	}
	nf3 := main[2]
	if nf3.SAN != "Nf3" || nf3.Comment != "developing" {
		t.Errorf("Nf3 node = %+v, want SAN=Nf3 Comment=developing", nf3)
	}
	nc6 := main[3]
	if len(nc6.Variations) != 1 {
		t.Fatalf("Nc6 should carry exactly one side variation, got %d", len(nc6.Variations))
	}
	variation := nc6.Variations[0]
	if len(variation) != 2 || variation[0].SAN != "Nf6" || variation[1].SAN != "Nxe5" {
		t.Errorf("variation = %+v, want [Nf6 Nxe5]", variation)
	}
	bb5 := main[4]
	if len(bb5.NAGs) != 1 || bb5.NAGs[0] != "!?" {
		t.Errorf("Bb5 NAGs = %v, want [!?]", bb5.NAGs)
	}
}

// TestParsePGNEscapedQuoteInHeader covers the grammar's handling of a
// backslash-escaped quote inside a tag value, per spec §8 scenario 6.
func TestParsePGNEscapedQuoteInHeader(t *testing.T) {
	text := `[Event "Test"]
[Annotator "O\"Connor"]

1. e4 *
`
	parsed, err := ParsePGN(text, true)
	if err != nil {
		t.Fatalf("ParsePGN: %v", err)
	}
	if got, want := parsed.Headers["Annotator"], `O"Connor`; got != want {
		t.Errorf("Annotator header = %q, want %q", got, want)
	}
}

// TestReplayMainLineRejectsIllegalSAN ensures a SAN token that doesn't match
// any legal move surfaces as ErrInvalidPGN, not a silent skip.
func TestReplayMainLineRejectsIllegalSAN(t *testing.T) {
	text := `[Event "Test"]

1. e4 e5 2. Qh5 Nf6 3. Qxf8 *
`
	_, err := GameFromPGN(text, true)
	if err == nil {
		t.Fatal("expected an error for an illegal SAN token (Qxf8 isn't legal here)")
	}
}

// TestPGNEmitRoundTrip checks that a freshly built Game re-parses to an
// equivalent move sequence through PGN() + GameFromPGN.
func TestPGNEmitRoundTrip(t *testing.T) {
	g := NewGame()
	for _, san := range []string{"e4", "c5", "Nf3", "d6"} {
		if err := g.Move(san, false); err != nil {
			t.Fatalf("Move(%q): %v", san, err)
		}
	}
	pgn := g.PGN(PGNOptions{})
	replayed, err := GameFromPGN(pgn, true)
	if err != nil {
		t.Fatalf("GameFromPGN: %v", err)
	}
	want := g.History()
	got := replayed.History()
	if len(got) != len(want) {
		t.Fatalf("History() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("History()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
