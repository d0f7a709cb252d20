// Package transcript records finished turns for later inspection: a plain text
// trace file and an SQL store.
package transcript

import (
	"errors"
	"time"

	"wargame/game"
	"wargame/searcher"
)

// Entry is one resolved turn.
type Entry struct {
	Turn   int // 1-based
	Player game.Player
	Action game.Action
	Board  *game.Board // position after the action
	Events []game.Event
	// Search is set for computer moves.
	Search *searcher.Result
	// Forfeit marks a player that could not act and lost; Action is unset.
	Forfeit bool
}

// GameInfo describes the game being recorded.
type GameInfo struct {
	ID        string
	Mode      string
	Dim       int
	MaxTurns  int
	MaxDepth  int
	MaxTime   time.Duration
	Heuristic int
	AlphaBeta bool
	StartedAt time.Time
	Initial   *game.GameState
}

// Recorder receives the game as it is played. Start is called once before the
// first turn and Finish once the outcome is decided.
type Recorder interface {
	Start(info GameInfo) error
	Record(e Entry) error
	Finish(final *game.GameState) error
	Close() error
}

type multi []Recorder

// Multi fans every call out to each recorder and joins their errors.
func Multi(recorders ...Recorder) Recorder {
	return multi(recorders)
}

func (m multi) Start(info GameInfo) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Start(info))
	}
	return errors.Join(errs...)
}

func (m multi) Record(e Entry) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Record(e))
	}
	return errors.Join(errs...)
}

func (m multi) Finish(final *game.GameState) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Finish(final))
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
