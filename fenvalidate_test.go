package chess

import "testing"

// TestValidateFENAcceptsWellFormed checks a selection of valid FENs pass
// every structural rule.
func TestValidateFENAcceptsWellFormed(t *testing.T) {
	valid := []string{
		StartFEN,
		"8/8/8/4k3/4K3/8/8/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}
	for _, fen := range valid {
		if err := ValidateFEN(fen); err != nil {
			t.Errorf("ValidateFEN(%q): unexpected error %v", fen, err)
		}
	}
}

// TestValidateFENRejectsStructuralErrors exercises each of the 11
// structural rules' failure case.
func TestValidateFENRejectsStructuralErrors(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		{"wrong field count", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"},
		{"bad fullmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0"},
		{"negative halfmove", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1"},
		{"bad turn", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling char", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkqX - 0 1"},
		{"bad ep file", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z6 0 1"},
		{"ep rank inconsistent with turn", "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e3 0 2"},
		{"wrong rank count", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"consecutive digits", "rnbqkbnr/pppppppp/8/8/8/44/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad piece letter", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPXP/RNBQKBNR w KQkq - 0 1"},
		{"rank does not sum to 8", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"pawn on back rank", "Pnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"missing king", "rnbqqbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQQBNR w KQkq - 0 1"},
		{"two white kings", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNK w KQkq - 0 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateFEN(tc.fen); err == nil {
				t.Errorf("ValidateFEN(%q) = nil, want an error", tc.fen)
			}
		})
	}
}
