package game

import "fmt"

type EventKind int

const (
	Moved EventKind = iota
	Damaged
	Repaired
	Destroyed
)

func (k EventKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Damaged:
		return "damaged"
	case Repaired:
		return "repaired"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event records one effect of a resolved action. Unit is the affected unit as
// it stands after the effect; Amount is the health lost or gained.
type Event struct {
	Kind   EventKind `json:"kind"`
	At     Coord     `json:"at"`
	Unit   Unit      `json:"unit"`
	Amount int       `json:"amount,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case Damaged, Repaired:
		return fmt.Sprintf("%v %v at %v by %d", e.Unit.Kind, e.Kind, e.At, e.Amount)
	}
	return fmt.Sprintf("%v %v at %v", e.Unit.Kind, e.Kind, e.At)
}

// Play applies a legal action and returns the successor state. Handing it an
// illegal action is a programming error and panics with *PreconditionError.
func (gs *GameState) Play(a Action) *GameState {
	next, err := gs.apply(a, nil)
	if err != nil {
		panic(&PreconditionError{Action: a, Err: err})
	}
	return next
}

// Resolve is the checked form of Play. It returns an *IllegalActionError and
// the unchanged receiver for a rejected action, otherwise the successor state
// together with the effects of the action.
func (gs *GameState) Resolve(a Action) (*GameState, []Event, error) {
	events := []Event{}
	next, err := gs.apply(a, &events)
	if err != nil {
		return gs, nil, err
	}
	return next, events, nil
}

func (gs *GameState) apply(a Action, events *[]Event) (*GameState, error) {
	if err := gs.Validate(a); err != nil {
		return nil, err
	}

	next := gs.Copy()
	r := resolver{board: next.Board, tables: gs.Tables, events: events}
	switch a.Type {
	case MoveAction:
		r.move(a.From, a.To)
	case AttackAction:
		r.attack(a.From, a.To)
	case RepairAction:
		r.repair(a.From, a.To)
	case SelfDestructAction:
		r.selfDestruct(a.From)
	}

	next.TurnsPlayed++
	next.CurrentPlayer = gs.CurrentPlayer.Next()
	next.Outcome = next.judge()
	return next, nil
}

// resolver mutates a freshly copied board.
type resolver struct {
	board  *Board
	tables *Tables
	events *[]Event
}

func (r *resolver) record(kind EventKind, at Coord, u Unit, amount int) {
	if r.events != nil {
		*r.events = append(*r.events, Event{Kind: kind, At: at, Unit: u, Amount: amount})
	}
}

func (r *resolver) move(from, to Coord) {
	u, _ := r.board.Get(from)
	r.board.Remove(from)
	r.board.Set(to, u)
	r.record(Moved, to, u, 0)
}

// attack trades damage both ways. Both amounts come from the health the units
// had before the exchange.
func (r *resolver) attack(from, to Coord) {
	src, _ := r.board.Get(from)
	dst, _ := r.board.Get(to)
	dealt := r.tables.DamageAmount(src, dst)
	taken := r.tables.DamageAmount(dst, src)
	r.wound(to, dst, dealt)
	r.wound(from, src, taken)
}

func (r *resolver) repair(from, to Coord) {
	src, _ := r.board.Get(from)
	dst, _ := r.board.Get(to)
	amount := r.tables.RepairAmount(src, dst)
	dst.Health += amount
	r.board.Set(to, dst)
	r.record(Repaired, to, dst, amount)
}

func (r *resolver) selfDestruct(at Coord) {
	u, _ := r.board.Get(at)
	r.board.Remove(at)
	u.Health = 0
	r.record(Destroyed, at, u, 0)
	for _, c := range at.Surrounding() {
		if victim, ok := r.board.Get(c); ok {
			r.wound(c, victim, min(r.tables.SelfDestructDamage, victim.Health))
		}
	}
}

func (r *resolver) wound(at Coord, u Unit, amount int) {
	if amount <= 0 {
		return
	}
	u.Health -= amount
	r.board.Set(at, u)
	r.record(Damaged, at, u, amount)
	if u.Health <= 0 {
		r.record(Destroyed, at, u, 0)
	}
}
