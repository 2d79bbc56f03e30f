package chess

import (
	"fmt"
	"strings"
)

// GameFromPGN parses a single game's PGN text end to end: tag pairs,
// SetUp/FEN header handling, and main-line replay via SAN decode + make.
// If the full grammar parse fails in a way that looks like a header-
// quoting problem, it retries with the fallback strategy documented on
// Cursor's parse flow: scan headers permissively, parse only the movetext
// region, and build the Game from the scanned headers plus that parse.
func GameFromPGN(pgn string, strict bool) (*Game, error) {
	game, _, err := parseGameText(pgn, strict)
	return game, err
}

// parseDiagnostic records whether a parse fell back to the permissive
// header-scan + movetext-only strategy, and the primary error that
// triggered it. Cursor and the worker pool surface this via errors[] for
// observability even when the fallback itself succeeds.
type parseDiagnostic struct {
	usedFallback bool
	primaryErr   error
}

// parseGameText is the shared parse-with-fallback flow used by GameFromPGN,
// Cursor, and the worker pool: try the full grammar, and on a header-
// quoting-shaped failure retry with the fallback strategy documented on
// Cursor's parse flow (§4.8 step 4).
func parseGameText(pgn string, strict bool) (*Game, parseDiagnostic, error) {
	parsed, err := ParsePGN(pgn, strict)
	if err == nil {
		game, buildErr := buildGame(parsed, strict)
		if buildErr == nil {
			return game, parseDiagnostic{}, nil
		}
		err = buildErr
	}

	if !looksLikeHeaderQuotingIssue(err) {
		return nil, parseDiagnostic{}, err
	}

	fallback, fbErr := fallbackParse(pgn, strict)
	if fbErr != nil {
		return nil, parseDiagnostic{}, fmt.Errorf("primary parse failed (%v), fallback parse failed (%w)", err, fbErr)
	}
	return fallback, parseDiagnostic{usedFallback: true, primaryErr: err}, nil
}

func looksLikeHeaderQuotingIssue(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "expected '\"'") ||
		strings.Contains(msg, "']' found") ||
		strings.Contains(msg, "'[' found") ||
		strings.Contains(msg, "unterminated tag value")
}

func buildGame(parsed *ParsedGame, strict bool) (*Game, error) {
	startFEN := StartFEN
	if parsed.Headers["SetUp"] == "1" {
		if fen, ok := parsed.Headers["FEN"]; ok {
			startFEN = fen
		}
	}
	pos, err := LoadFEN(startFEN)
	if err != nil {
		return nil, err
	}

	game, err := ReplayMainLine(pos, parsed.Root, strict)
	if err != nil {
		return nil, err
	}
	game.headers = parsed.Headers
	for k := range parsed.Headers {
		game.headerOrder = append(game.headerOrder, k)
	}
	game.setHeader("Result", firstNonEmpty(parsed.Result, "*"))
	return game, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// fallbackParse scans headers permissively, then parses only the movetext
// region (the text after the first blank line) with a synthetic
// `[Event "_"]` tag pair prepended so the grammar has a header section to
// anchor on.
func fallbackParse(pgn string, strict bool) (*Game, error) {
	lines := strings.Split(pgn, "\n")
	blankAt := len(lines)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankAt = i
			break
		}
	}
	headers := scanHeaders(lines[:blankAt])
	movetext := ""
	if blankAt < len(lines) {
		movetext = strings.Join(lines[blankAt+1:], "\n")
	}

	synthetic := "[Event \"_\"]\n\n" + movetext
	parsed, err := ParsePGN(synthetic, strict)
	if err != nil {
		return nil, err
	}
	parsed.Headers = headers

	return buildGame(parsed, strict)
}
