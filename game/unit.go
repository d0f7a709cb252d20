package game

import "fmt"

// UnitKind indexes the damage, repair and max health tables.
type UnitKind int

const (
	AI UnitKind = iota
	Tech
	Virus
	Program
	Firewall
)

// NumKinds is the number of unit kinds.
const NumKinds = 5

var kindNames = [NumKinds]string{"AI", "Tech", "Virus", "Program", "Firewall"}

func (k UnitKind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("UnitKind(%d)", int(k))
	}
	return kindNames[k]
}

// restricted kinds obey the engagement and direction rules.
func (k UnitKind) restricted() bool {
	return k == AI || k == Firewall || k == Program
}

// Unit is a piece on the board. Its position is the cell that holds it.
type Unit struct {
	Player Player   `json:"player"`
	Kind   UnitKind `json:"kind"`
	Health int      `json:"health"`
}

// String renders the unit as player initial, kind initial and health, e.g. "dA9".
func (u Unit) String() string {
	p := 'a'
	if u.Player == Defender {
		p = 'd'
	}
	return fmt.Sprintf("%c%c%d", p, kindNames[u.Kind][0], u.Health)
}
