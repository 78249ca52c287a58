package aggregator

import (
	"errors"
	"fmt"
)

// ErrUnknownGame is wrapped by LookupError.
var ErrUnknownGame = errors.New("unknown game id")

// LookupError reports a play whose game id is missing from the games list.
// Generate returns it before any collector runs.
type LookupError struct {
	PlayID int
	GameID int
	Name   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("play %d (%q) references game %d: %v", e.PlayID, e.Name, e.GameID, ErrUnknownGame)
}

func (e *LookupError) Unwrap() error { return ErrUnknownGame }
