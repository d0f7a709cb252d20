package game

import (
	"testing"

	"golang.org/x/exp/rand"
)

func at(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

func unit(p Player, k UnitKind, health int) Unit {
	return Unit{Player: p, Kind: k, Health: health}
}

// position builds a 5x5 state from placements with full-health units unless a
// health is given.
func position(t *testing.T, toMove Player, maxTurns int, placements ...Placement) *GameState {
	t.Helper()
	tables := DefaultTables()
	b := NewBoard(5)
	for _, pl := range placements {
		u := pl.Unit
		if u.Health == 0 {
			u.Health = tables.MaxHealth[u.Kind]
		}
		b.Set(pl.At, u)
	}
	return NewGameStateFromBoard(b, tables, toMove, maxTurns)
}

func put(row, col int, p Player, k UnitKind) Placement {
	return Placement{At: at(row, col), Unit: Unit{Player: p, Kind: k}}
}

func putHurt(row, col int, p Player, k UnitKind, health int) Placement {
	return Placement{At: at(row, col), Unit: unit(p, k, health)}
}

// sampleStates returns positions reached by random playouts from the starting
// layout plus randomly scattered boards, always the same for a given seed.
func sampleStates(seed uint64, count int) []*GameState {
	r := rand.New(rand.NewSource(seed))
	states := []*GameState{}

	for len(states) < count/2 {
		s := NewGameState(5, DefaultTables(), 60)
		for !s.IsOver() && len(states) < count/2 {
			states = append(states, s)
			actions := s.LegalActions()
			s = s.Play(actions[r.Intn(len(actions))])
		}
	}

	kinds := []UnitKind{Tech, Virus, Program, Firewall}
	for len(states) < count {
		tables := DefaultTables()
		b := NewBoard(5)
		cells := r.Perm(25)
		b.Set(at(cells[0]/5, cells[0]%5), unit(Attacker, AI, 1+r.Intn(9)))
		b.Set(at(cells[1]/5, cells[1]%5), unit(Defender, AI, 1+r.Intn(9)))
		extra := r.Intn(10)
		for i := 0; i < extra; i++ {
			c := cells[2+i]
			b.Set(at(c/5, c%5), unit(Player(r.Intn(2)), kinds[r.Intn(len(kinds))], 1+r.Intn(9)))
		}
		states = append(states, NewGameStateFromBoard(b, tables, Player(r.Intn(2)), 0))
	}
	return states
}

// everyAction enumerates all well-formed actions whose coordinates lie on the board.
func everyAction(dim int) []Action {
	actions := []Action{}
	for fr := 0; fr < dim; fr++ {
		for fc := 0; fc < dim; fc++ {
			from := at(fr, fc)
			for tr := 0; tr < dim; tr++ {
				for tc := 0; tc < dim; tc++ {
					to := at(tr, tc)
					for _, typ := range []ActionType{MoveAction, AttackAction, RepairAction, SelfDestructAction} {
						actions = append(actions, Action{Type: typ, From: from, To: to})
					}
				}
			}
		}
	}
	return actions
}
