package searcher

import (
	"errors"
	"math"

	"wargame/game"
)

var (
	// ErrNoLegalAction means the player to move cannot act at all. Callers
	// treat it as an immediate loss for that player.
	ErrNoLegalAction = errors.New("no legal action for the player to move")
	// ErrDeadlineAtDepthOne is logged, never returned: the search falls back to
	// the first legal action when even depth 1 misses the deadline.
	ErrDeadlineAtDepthOne = errors.New("deadline exceeded before depth 1 completed")
)

// Searcher picks an action for the player to move.
type Searcher interface {
	FindMove(state *game.GameState) (Result, error)
}

// proven reports whether a score can only come from a decided game.
func proven(score float64) bool {
	return math.Abs(score) >= game.WinScore/2
}
