package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

type StateHash uint64

// GameState is immutable by convention: Play and Forfeit return new states and
// never touch the receiver.
type GameState struct {
	Board         *Board
	Tables        *Tables
	CurrentPlayer Player
	TurnsPlayed   int
	MaxTurns      int // 0 means unlimited
	Outcome       Outcome
}

// NewGameState lays out the standard starting position: each side's AI in its
// corner, screened by its support units. Attacker moves first.
func NewGameState(dim int, tables *Tables, maxTurns int) *GameState {
	if dim < 4 {
		panic(fmt.Sprintf("board dimension %d too small for the starting layout", dim))
	}
	b := NewBoard(dim)
	md := dim - 1
	layout := []struct {
		at   Coord
		p    Player
		kind UnitKind
	}{
		{Coord{0, 0}, Defender, AI},
		{Coord{1, 0}, Defender, Tech},
		{Coord{0, 1}, Defender, Tech},
		{Coord{2, 0}, Defender, Firewall},
		{Coord{0, 2}, Defender, Firewall},
		{Coord{1, 1}, Defender, Program},
		{Coord{md, md}, Attacker, AI},
		{Coord{md - 1, md}, Attacker, Virus},
		{Coord{md, md - 1}, Attacker, Virus},
		{Coord{md - 2, md}, Attacker, Program},
		{Coord{md, md - 2}, Attacker, Program},
		{Coord{md - 1, md - 1}, Attacker, Firewall},
	}
	for _, l := range layout {
		b.Set(l.at, tables.NewUnit(l.p, l.kind))
	}
	return NewGameStateFromBoard(b, tables, Attacker, maxTurns)
}

// NewGameStateFromBoard starts a game from an arbitrary position. The outcome
// is judged immediately, so a board missing an AI is already decided.
func NewGameStateFromBoard(b *Board, tables *Tables, toMove Player, maxTurns int) *GameState {
	gs := &GameState{
		Board:         b,
		Tables:        tables,
		CurrentPlayer: toMove,
		MaxTurns:      maxTurns,
	}
	gs.Outcome = gs.judge()
	return gs
}

// Copy clones the board; tables are shared.
func (gs *GameState) Copy() *GameState {
	cp := *gs
	cp.Board = gs.Board.Clone()
	return &cp
}

func (gs *GameState) IsOver() bool {
	return gs.Outcome != InProgress
}

func (gs *GameState) Winner() (Player, bool) {
	return gs.Outcome.Winner()
}

// Forfeit concedes the game for the player to move. It resolves the case of a
// mover left without any legal action.
func (gs *GameState) Forfeit() *GameState {
	next := gs.Copy()
	if !next.IsOver() {
		next.Outcome = winFor(gs.CurrentPlayer.Next())
	}
	return next
}

// judge applies the terminal checks in order: a missing AI loses (the Defender
// takes it when both are gone), then the turn limit hands the game to the Defender.
func (gs *GameState) judge() Outcome {
	_, attackerAlive := gs.Board.FindAI(Attacker)
	_, defenderAlive := gs.Board.FindAI(Defender)
	switch {
	case !attackerAlive:
		return DefenderWins
	case !defenderAlive:
		return AttackerWins
	case gs.MaxTurns > 0 && gs.TurnsPlayed >= gs.MaxTurns:
		return DefenderWins
	}
	return InProgress
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()
	binary.Write(hasher, binary.LittleEndian, int64(gs.CurrentPlayer))
	binary.Write(hasher, binary.LittleEndian, int64(gs.TurnsPlayed))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Outcome))
	for _, u := range gs.Board.cells {
		binary.Write(hasher, binary.LittleEndian, [3]int64{int64(u.Player), int64(u.Kind), int64(u.Health)})
	}
	return StateHash(hasher.Sum64())
}

func (gs *GameState) String() string {
	return fmt.Sprintf("Current player: %v\nTurns played: %d\n\n%v", gs.CurrentPlayer, gs.TurnsPlayed, gs.Board)
}
