package chess

import "strings"

// scanHeaders is a permissive, line-oriented tag-pair extractor used only
// by the Indexer. It does not attempt to parse movetext and never fails: a
// malformed header line is simply absent from the returned map. It is
// deliberately more forgiving than the full grammar in pgn_parser.go so
// that pathological tag values still yield searchable headers.
func scanHeaders(lines []string) map[string]string {
	headers := make(map[string]string)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		name, value, ok := scanHeaderLine(line)
		if ok {
			headers[name] = value
		}
	}
	return headers
}

// scanHeaderLine extracts Name and Value from a single "[Name "Value"]"
// line: the name is everything between '[' and the first quote, with
// surrounding whitespace trimmed; the value runs from that quote to the next
// unescaped quote (unescaped meaning preceded by an even number of
// backslashes).
func scanHeaderLine(line string) (name, value string, ok bool) {
	body := strings.TrimPrefix(line, "[")
	quoteStart := strings.IndexByte(body, '"')
	if quoteStart < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(body[:quoteStart])
	if name == "" {
		return "", "", false
	}

	rest := body[quoteStart+1:]
	end := findUnescapedQuote(rest)
	if end < 0 {
		return "", "", false
	}
	return name, unescapeHeaderValue(rest[:end]), true
}

// findUnescapedQuote returns the index of the first '"' in s that is not
// escaped (preceded by an even number of consecutive backslashes), or -1.
func findUnescapedQuote(s string) int {
	backslashes := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			backslashes++
		case '"':
			if backslashes%2 == 0 {
				return i
			}
			backslashes = 0
		default:
			backslashes = 0
		}
	}
	return -1
}

// unescapeHeaderValue applies the fixed unescaping order `\\`→`\`, then
// `\"`→`"`, matching the order the scanner's escaping rules assume.
func unescapeHeaderValue(s string) string {
	s = strings.ReplaceAll(s, `\\`, "\x00")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, "\x00", `\`)
	return s
}
