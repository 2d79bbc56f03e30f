package chess

import (
	"fmt"
	"strings"
)

func isSevenTagKey(key string) (defaultValue string, ok bool) {
	for _, t := range sevenTagRoster {
		if t.key == key {
			return t.deflt, true
		}
	}
	return "", false
}

// setHeader stores a header value. Seven Tag Roster keys cannot be set to
// the empty string; an empty value for one of them stores that key's roster
// default instead.
func (g *Game) setHeader(key, value string) {
	if deflt, ok := isSevenTagKey(key); ok && value == "" {
		value = deflt
	}
	if _, exists := g.headers[key]; !exists {
		g.headerOrder = append(g.headerOrder, key)
	}
	g.headers[key] = value
}

// removeHeader restores a Seven Tag Roster key to its default, or deletes a
// supplemental key entirely. It reports whether the key was present.
func (g *Game) removeHeader(key string) bool {
	deflt, isRoster := isSevenTagKey(key)
	_, existed := g.headers[key]
	if !existed {
		return false
	}
	if isRoster {
		g.headers[key] = deflt
		return true
	}
	delete(g.headers, key)
	for i, k := range g.headerOrder {
		if k == key {
			g.headerOrder = append(g.headerOrder[:i], g.headerOrder[i+1:]...)
			break
		}
	}
	return true
}

// SetComment attaches a comment to the position reached after the most
// recently played move.
func (g *Game) SetComment(comment string) {
	if len(g.history) == 0 {
		return
	}
	g.comments[g.history[len(g.history)-1].fenKey] = comment
}

// SetNAG attaches a numeric or glyph annotation glyph to the most recently
// played move.
func (g *Game) SetNAG(nag string) {
	if len(g.history) == 0 {
		return
	}
	key := g.history[len(g.history)-1].fenKey
	g.nags[key] = append(g.nags[key], nag)
}

// pruneComments walks the history from the start forward, keeping only
// comment/NAG entries whose keyed FEN is actually reachable on the current
// main line; this is the only correct policy after Undo on a branching
// history, since comments are keyed by FEN rather than by ply index.
func (g *Game) pruneComments() {
	reachable := make(map[string]bool, len(g.history)+1)
	pos, err := LoadFEN(g.startFEN())
	if err != nil {
		return
	}
	for _, r := range g.history {
		pos.makeMove(r.move)
		reachable[pos.FEN(false)] = true
	}
	for key := range g.comments {
		if !reachable[key] {
			delete(g.comments, key)
		}
	}
	for key := range g.nags {
		if !reachable[key] {
			delete(g.nags, key)
		}
	}
}

// orderedHeaders returns the header keys in canonical emission order: the
// Seven Tag Roster, then the fixed supplemental order, then any remaining
// keys in first-set order. The seven roster keys are always returned, even
// if absent from g.headers; PGN emits every returned key with its stored
// value (the empty string for an absent key).
func (g *Game) orderedHeaders() []string {
	seen := make(map[string]bool)
	var order []string
	for _, t := range sevenTagRoster {
		order = append(order, t.key)
		seen[t.key] = true
	}
	for _, k := range supplementalTagOrder {
		if _, ok := g.headers[k]; ok && !seen[k] {
			order = append(order, k)
			seen[k] = true
		}
	}
	for _, k := range g.headerOrder {
		if !seen[k] {
			order = append(order, k)
			seen[k] = true
		}
	}
	return order
}

// PGNOptions controls PGN emission.
type PGNOptions struct {
	Newline  string
	MaxWidth int
}

// PGN renders the game as a PGN string: headers in canonical order, a blank
// separator line, the movetext with comments and NAGs attached, and the
// result token. When opts.MaxWidth > 0 the movetext is wrapped, never
// breaking inside a comment.
func (g *Game) PGN(opts PGNOptions) string {
	newline := opts.Newline
	if newline == "" {
		newline = "\n"
	}

	var headerLines []string
	for _, k := range g.orderedHeaders() {
		headerLines = append(headerLines, fmt.Sprintf("[%s %q]", k, g.headers[k]))
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(headerLines, newline))

	tokens := g.movetextTokens()
	if len(headerLines) > 0 && len(tokens) > 0 {
		sb.WriteString(newline)
		sb.WriteString(newline)
	} else if len(headerLines) > 0 {
		sb.WriteString(newline)
	}

	sb.WriteString(wrapTokens(tokens, opts.MaxWidth, newline))

	return sb.String()
}

// movetextTokens builds the flat token stream for the main line: move
// numbers, SAN (with NAG suffixes), comments, and the trailing result.
func (g *Game) movetextTokens() []string {
	start, err := LoadFEN(g.startFEN())
	if err != nil {
		return nil
	}

	var tokens []string
	turn := start.turn
	moveNumber := start.moveNumber
	for i, r := range g.history {
		switch {
		case turn == White:
			tokens = append(tokens, fmt.Sprintf("%d.", moveNumber))
		case i == 0:
			tokens = append(tokens, fmt.Sprintf("%d...", moveNumber))
		}

		san := r.san
		for _, nag := range g.nags[r.fenKey] {
			san += nag
		}
		tokens = append(tokens, san)
		if c, ok := g.comments[r.fenKey]; ok {
			tokens = append(tokens, "{"+c+"}")
		}

		if turn == Black {
			moveNumber++
		}
		turn = turn.Other()
	}
	tokens = append(tokens, g.headers["Result"])
	return tokens
}

// wrapTokens joins tokens with single spaces, wrapping at maxWidth columns
// (0 disables wrapping). Wraps happen only between tokens and a comment is
// a single token, so a comment is never broken; a token longer than
// maxWidth gets a line of its own that exceeds the width.
func wrapTokens(tokens []string, maxWidth int, newline string) string {
	if maxWidth <= 0 {
		return strings.Join(tokens, " ")
	}

	var sb strings.Builder
	lineLen := 0
	for i, tok := range tokens {
		sep := " "
		if i == 0 {
			sep = ""
		}
		addLen := len(sep) + len(tok)
		if lineLen > 0 && lineLen+addLen > maxWidth {
			sb.WriteString(newline)
			lineLen = 0
			sep = ""
			addLen = len(tok)
		}
		sb.WriteString(sep)
		sb.WriteString(tok)
		lineLen += addLen
	}
	return sb.String()
}
