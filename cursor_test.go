package chess

import (
	"context"
	"testing"
)

func TestCursorNextBeforeSeekReset(t *testing.T) {
	c := NewCursor(multiGamePGN, CursorOptions{})
	if got := c.TotalGames(); got != 2 {
		t.Fatalf("TotalGames() = %d, want 2", got)
	}
	if !c.HasNext() {
		t.Fatal("HasNext() = false at start")
	}
	if c.HasBefore() {
		t.Fatal("HasBefore() = true at start")
	}

	g1, err := c.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	if g1 == nil {
		t.Fatal("Next() returned nil game")
	}
	if g1.GetHeaders()["White"] != "Alice" {
		t.Errorf("first game White = %q, want Alice", g1.GetHeaders()["White"])
	}

	g2, err := c.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	if g2 == nil || g2.GetHeaders()["White"] != "Carol" {
		t.Fatalf("second game White = %v, want Carol", g2)
	}

	if c.HasNext() {
		t.Error("HasNext() should be false after exhausting both games")
	}
	g3, err := c.Next()
	if g3 != nil || err != nil {
		t.Fatalf("Next() past the end = (%v, %v), want (nil, nil)", g3, err)
	}

	back, err := c.Before()
	if err != nil {
		t.Fatalf("Before(): %v", err)
	}
	if back == nil || back.GetHeaders()["White"] != "Carol" {
		t.Fatalf("Before() = %v, want the Carol game", back)
	}

	if !c.Seek(0) {
		t.Fatal("Seek(0) = false")
	}
	if c.Seek(99) {
		t.Error("Seek(99) = true, want false (out of range)")
	}

	c.Reset()
	if !c.HasNext() || c.HasBefore() {
		t.Error("Reset() did not restore current to start")
	}
}

func TestCursorFindNextOnlyReadsHeaders(t *testing.T) {
	c := NewCursor(multiGamePGN, CursorOptions{})
	game, err := c.FindNext(func(h map[string]string) bool {
		return h["White"] == "Carol"
	})
	if err != nil {
		t.Fatalf("FindNext: %v", err)
	}
	if game == nil || game.GetHeaders()["White"] != "Carol" {
		t.Fatalf("FindNext matched %v, want the Carol game", game)
	}
	if c.HasNext() {
		t.Error("FindNext should have advanced past the only matching (last) game")
	}
}

func TestCursorFindNextNoMatch(t *testing.T) {
	c := NewCursor(multiGamePGN, CursorOptions{})
	game, err := c.FindNext(func(h map[string]string) bool {
		return h["White"] == "Nobody"
	})
	if game != nil || err != nil {
		t.Fatalf("FindNext with no match = (%v, %v), want (nil, nil)", game, err)
	}
	if c.HasNext() {
		t.Error("exhausted FindNext should leave the cursor with no next game")
	}
}

func TestCursorAllSerialYieldsEveryGame(t *testing.T) {
	c := NewCursor(multiGamePGN, CursorOptions{})
	var whites []string
	for game, err := range c.All(context.Background()) {
		if err != nil {
			t.Fatalf("All() yielded error: %v", err)
		}
		whites = append(whites, game.GetHeaders()["White"])
	}
	if len(whites) != 2 || whites[0] != "Alice" || whites[1] != "Carol" {
		t.Fatalf("All() order = %v, want [Alice Carol]", whites)
	}
}

func TestCursorAllWithWorkersYieldsEveryGame(t *testing.T) {
	c := NewCursor(multiGamePGN, CursorOptions{Workers: 2, WorkerBatchSize: 1})
	var whites []string
	for game, err := range c.All(context.Background()) {
		if err != nil {
			t.Fatalf("All() yielded error: %v", err)
		}
		whites = append(whites, game.GetHeaders()["White"])
	}
	if len(whites) != 2 || whites[0] != "Alice" || whites[1] != "Carol" {
		t.Fatalf("All() with workers order = %v, want [Alice Carol]", whites)
	}
	if err := c.Terminate(); err != nil {
		t.Errorf("Terminate(): %v", err)
	}
}

func TestCursorAllStopsOnYieldFalse(t *testing.T) {
	c := NewCursor(multiGamePGN, CursorOptions{})
	count := 0
	for range c.All(context.Background()) {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("range-over-func break should stop after 1 yield, got %d", count)
	}
}

func TestCursorNonStrictRecordsFailureAndContinues(t *testing.T) {
	source := `[Event "Test"]

1. e4 Qh5 *

[Event "Test"]

1. e4 e5 *
`
	c := NewCursor(source, CursorOptions{})
	first, err := c.Next()
	if err != nil {
		t.Fatalf("non-strict Next() should not return an error, got %v", err)
	}
	if first != nil {
		t.Fatalf("non-strict Next() on a bad game should return nil, got %v", first)
	}
	second, err := c.Next()
	if err != nil || second == nil {
		t.Fatalf("second game should parse cleanly, got (%v, %v)", second, err)
	}
	if len(c.Errors()) != 1 {
		t.Fatalf("Errors() = %v, want exactly 1 recorded failure", c.Errors())
	}
}

func TestCursorStrictPropagatesFirstFailure(t *testing.T) {
	source := `[Event "Test"]

1. e4 Qh5 *
`
	c := NewCursor(source, CursorOptions{Strict: true})
	game, err := c.Next()
	if err == nil {
		t.Fatal("strict Next() should propagate the parse error")
	}
	if game != nil {
		t.Errorf("strict Next() on failure should return a nil game, got %v", game)
	}
}

func TestCursorStartLength(t *testing.T) {
	c := NewCursor(multiGamePGN, CursorOptions{Start: 1, Length: 1})
	if c.TotalGames() != 2 {
		t.Fatalf("TotalGames() = %d, want 2 (independent of Start/Length)", c.TotalGames())
	}
	game, err := c.Next()
	if err != nil || game == nil || game.GetHeaders()["White"] != "Carol" {
		t.Fatalf("ranged cursor first game = (%v, %v), want the Carol game", game, err)
	}
	if c.HasNext() {
		t.Error("HasNext() should be false once the ranged window is exhausted")
	}
}
