package chess

import "strings"

// GameIndex records one game's byte-offset span in a multi-game PGN source
// and its pre-scanned headers, letting callers slice the source and inspect
// tags without parsing movetext.
type GameIndex struct {
	StartOffset int
	EndOffset   int
	Headers     map[string]string
}

// IndexGames scans text in a single O(n) pass, splitting on '\n'. A new
// game begins at the first tag-pair line that follows a blank line (or the
// start of the file); its header block runs until the next blank line and
// is handed to the header scanner. Indexing never fails on an individual
// malformed game: a bad tag-value line is simply missing from that game's
// Headers map.
func IndexGames(text string) []GameIndex {
	var games []GameIndex

	lines := strings.Split(text, "\n")
	offset := 0
	atBoundary := true // start of file counts as following a blank line
	inHeaderBlock := false

	haveOpen := false
	openStart := 0
	var openHeaderLines []string

	closeOpen := func(endOffset int) {
		if !haveOpen {
			return
		}
		games = append(games, GameIndex{
			StartOffset: openStart,
			EndOffset:   endOffset,
			Headers:     scanHeaders(openHeaderLines),
		})
		haveOpen = false
		openHeaderLines = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			atBoundary = true
			inHeaderBlock = false
		case strings.HasPrefix(trimmed, "[") && atBoundary:
			closeOpen(offset)
			haveOpen = true
			openStart = offset
			openHeaderLines = []string{line}
			inHeaderBlock = true
			atBoundary = false
		case strings.HasPrefix(trimmed, "[") && inHeaderBlock:
			openHeaderLines = append(openHeaderLines, line)
			atBoundary = false
		default:
			atBoundary = false
			inHeaderBlock = false
		}

		offset += len(line) + 1 // account for the '\n' split away
	}

	closeOpen(len(text))

	return games
}
