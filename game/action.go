package game

import "fmt"

// ActionType represents the type of action a unit can perform.
type ActionType int

const (
	MoveAction ActionType = iota
	AttackAction
	RepairAction
	SelfDestructAction
)

func (t ActionType) String() string {
	switch t {
	case MoveAction:
		return "move"
	case AttackAction:
		return "attack"
	case RepairAction:
		return "repair"
	case SelfDestructAction:
		return "self-destruct"
	}
	return fmt.Sprintf("ActionType(%d)", int(t))
}

// Action is a single turn. For a self-destruct To equals From.
type Action struct {
	Type ActionType `json:"type"`
	From Coord      `json:"from"`
	To   Coord      `json:"to"`
}

func Move(from, to Coord) Action {
	return Action{Type: MoveAction, From: from, To: to}
}

func Attack(from, to Coord) Action {
	return Action{Type: AttackAction, From: from, To: to}
}

func Repair(from, to Coord) Action {
	return Action{Type: RepairAction, From: from, To: to}
}

func SelfDestruct(at Coord) Action {
	return Action{Type: SelfDestructAction, From: at, To: at}
}

// String uses the coordinate pair notation accepted by ParseCoordPair.
func (a Action) String() string {
	return a.From.String() + " " + a.To.String()
}

// Describe renders the action for humans, e.g. "attack from D2 to D3".
func (a Action) Describe() string {
	if a.Type == SelfDestructAction {
		return "self-destruct at " + a.From.String()
	}
	return fmt.Sprintf("%v from %v to %v", a.Type, a.From, a.To)
}

// ActionAt derives the intended action from a source and destination the way
// a player would type them: the same cell self-destructs, an empty cell is a
// move, an enemy is attacked and a friend is repaired.
func (s *GameState) ActionAt(src, dst Coord) Action {
	if src == dst {
		return SelfDestruct(src)
	}
	target, occupied := s.Board.Get(dst)
	if !occupied {
		return Move(src, dst)
	}
	if unit, ok := s.Board.Get(src); ok && unit.Player == target.Player {
		return Repair(src, dst)
	}
	return Attack(src, dst)
}

// ParseAction reads a coordinate pair such as "A3 B2" against the current board.
func (s *GameState) ParseAction(text string) (Action, error) {
	src, dst, err := ParseCoordPair(text)
	if err != nil {
		return Action{}, err
	}
	return s.ActionAt(src, dst), nil
}
