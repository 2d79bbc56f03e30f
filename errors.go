package chess

import "errors"

// Sentinel errors, testable with errors.Is. Wrapping (via fmt.Errorf's %w)
// adds context without losing the ability to match on these.
var (
	ErrInvalidFEN       = errors.New("chess: invalid FEN")
	ErrInvalidMove      = errors.New("chess: invalid move")
	ErrIllegalNullMove  = errors.New("chess: null move not legal here")
	ErrInvalidSAN       = errors.New("chess: invalid SAN")
	ErrInvalidPGN       = errors.New("chess: invalid PGN")
	ErrInvalidSuffix    = errors.New("chess: invalid suffix annotation")
	ErrHeaderContract   = errors.New("chess: header contract violation")
	ErrWorkerTransport  = errors.New("chess: worker transport failure")
	ErrCursorTerminated = errors.New("chess: cursor terminated")
)
