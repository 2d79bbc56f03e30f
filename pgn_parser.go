package chess

import "fmt"

// MoveNode is one ply in a PGN move tree: the SAN text played, any trailing
// comment/NAGs, and zero or more Variations branching after it. A parsed
// game's root node carries no SAN of its own; its first Variation is the
// main line.
type MoveNode struct {
	SAN        string
	NAGs       []string
	Comment    string
	Variations [][]*MoveNode
}

// ParsedGame is the grammar's single entry-point result: headers, a move
// tree whose first variation is the main line, and the game result token.
type ParsedGame struct {
	Headers map[string]string
	Root    *MoveNode
	Result  string
}

// ParsePGN parses one game's PGN text (headers + movetext) per the grammar
// in 4.5: tag pairs, SAN moves (including promotions and castling), NAGs,
// comments, variations, and a trailing result marker. ParsePGN itself
// rejects no move syntax in either mode: move forms are checked only when
// ReplayMainLine decodes them with MoveFromSAN, whose strict pass rejects
// the permissive forms but still accepts numeric castling (0-0, 0-0-0).
func ParsePGN(text string, strict bool) (*ParsedGame, error) {
	tokens, err := lexPGN(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, strict: strict}

	headers := p.parseHeaders()

	root := &MoveNode{}
	mainLine, result := p.parseSequence()
	root.Variations = [][]*MoveNode{mainLine}

	return &ParsedGame{Headers: headers, Root: root, Result: result}, nil
}

type parser struct {
	tokens []token
	pos    int
	strict bool
}

func (p *parser) peek() token {
	if p.pos >= len(p.tokens) {
		return token{kind: tokEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) parseHeaders() map[string]string {
	headers := make(map[string]string)
	for p.peek().kind == tokTagName {
		name := p.advance().text
		value := ""
		if p.peek().kind == tokTagValue {
			value = p.advance().text
		}
		headers[name] = value
	}
	return headers
}

// parseSequence consumes moves, comments, NAGs, and nested variations until
// a result token, a closing variation parenthesis, or EOF, returning the
// flat list of nodes for this line and the result token text (empty if
// none was found, e.g. inside a variation).
func (p *parser) parseSequence() ([]*MoveNode, string) {
	var nodes []*MoveNode

	for {
		switch p.peek().kind {
		case tokEOF, tokVariationEnd:
			return nodes, ""

		case tokResult:
			return nodes, p.advance().text

		case tokMoveNumber:
			p.advance()

		case tokComment:
			c := p.advance().text
			if len(nodes) > 0 {
				appendComment(&nodes[len(nodes)-1].Comment, c)
			}

		case tokNAG:
			nag := p.advance().text
			if len(nodes) > 0 {
				last := nodes[len(nodes)-1]
				last.NAGs = append(last.NAGs, nag)
			}

		case tokVariationStart:
			p.advance()
			variation, _ := p.parseSequence()
			if p.peek().kind == tokVariationEnd {
				p.advance()
			}
			if len(nodes) > 0 {
				last := nodes[len(nodes)-1]
				last.Variations = append(last.Variations, variation)
			}

		case tokSAN:
			nodes = append(nodes, &MoveNode{SAN: p.advance().text})

		default:
			p.advance()
		}
	}
}

func appendComment(dst *string, c string) {
	if *dst == "" {
		*dst = c
		return
	}
	*dst = *dst + " " + c
}

// ReplayMainLine applies a parsed game's main line to pos (typically the
// position derived from the game's SetUp/FEN headers), returning the moves
// actually played and the resulting Game-level comment/NAG attachment data
// keyed by post-move FEN.
func ReplayMainLine(pos *Position, root *MoveNode, strict bool) (*Game, error) {
	g := &Game{
		pos:      pos,
		headers:  make(map[string]string),
		comments: make(map[string]string),
		nags:     make(map[string][]string),
	}
	if len(root.Variations) == 0 {
		return g, nil
	}
	for _, node := range root.Variations[0] {
		m, err := MoveFromSAN(g.pos, node.SAN, strict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPGN, err)
		}
		if err := g.applyMove(m); err != nil {
			return nil, err
		}
		key := g.history[len(g.history)-1].fenKey
		if node.Comment != "" {
			g.comments[key] = node.Comment
		}
		if len(node.NAGs) > 0 {
			g.nags[key] = append(g.nags[key], node.NAGs...)
		}
	}
	return g, nil
}
