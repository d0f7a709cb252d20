package game

import (
	"fmt"
	"strings"
)

// Board is a dense dim x dim grid. A cell holding a unit with zero health is
// empty; resolution removes units as soon as their health reaches zero, so
// the two are never confused.
type Board struct {
	dim   int
	cells []Unit
}

// Placement is an occupied cell.
type Placement struct {
	At   Coord `json:"at"`
	Unit Unit  `json:"unit"`
}

func NewBoard(dim int) *Board {
	if dim <= 0 || dim > MaxDim {
		panic(fmt.Sprintf("invalid board dimension %d", dim))
	}
	return &Board{dim: dim, cells: make([]Unit, dim*dim)}
}

func (b *Board) Dim() int {
	return b.dim
}

func (b *Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.dim && c.Col >= 0 && c.Col < b.dim
}

func (b *Board) index(c Coord) int {
	return c.Row*b.dim + c.Col
}

// Get returns the unit at c. Out-of-bounds coordinates are reported as empty.
func (b *Board) Get(c Coord) (Unit, bool) {
	if !b.InBounds(c) {
		return Unit{}, false
	}
	u := b.cells[b.index(c)]
	return u, u.Health > 0
}

func (b *Board) IsEmpty(c Coord) bool {
	_, ok := b.Get(c)
	return !ok
}

// Set places u at c, replacing any occupant. A unit without health clears the cell.
func (b *Board) Set(c Coord, u Unit) {
	if !b.InBounds(c) {
		panic(fmt.Sprintf("coordinate %v out of bounds", c))
	}
	if u.Health <= 0 {
		u = Unit{}
	}
	b.cells[b.index(c)] = u
}

func (b *Board) Remove(c Coord) {
	b.Set(c, Unit{})
}

func (b *Board) Clone() *Board {
	cells := make([]Unit, len(b.cells))
	copy(cells, b.cells)
	return &Board{dim: b.dim, cells: cells}
}

// Each calls fn for every occupied cell in row-major order.
func (b *Board) Each(fn func(Coord, Unit)) {
	for i, u := range b.cells {
		if u.Health > 0 {
			fn(Coord{Row: i / b.dim, Col: i % b.dim}, u)
		}
	}
}

// Placements lists the occupied cells in row-major order.
func (b *Board) Placements() []Placement {
	placements := []Placement{}
	b.Each(func(c Coord, u Unit) {
		placements = append(placements, Placement{At: c, Unit: u})
	})
	return placements
}

// FindAI locates the AI unit of p.
func (b *Board) FindAI(p Player) (Coord, bool) {
	for i, u := range b.cells {
		if u.Health > 0 && u.Kind == AI && u.Player == p {
			return Coord{Row: i / b.dim, Col: i % b.dim}, true
		}
	}
	return Coord{}, false
}

// IsEngaged reports whether the unit at c has an enemy in an orthogonal neighbour.
func (b *Board) IsEngaged(c Coord) bool {
	u, ok := b.Get(c)
	if !ok {
		return false
	}
	for _, n := range c.Adjacent() {
		if other, ok := b.Get(n); ok && other.Player != u.Player {
			return true
		}
	}
	return false
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < b.dim; col++ {
		fmt.Fprintf(&sb, " %c  ", colLabels[col])
	}
	sb.WriteByte('\n')
	for row := 0; row < b.dim; row++ {
		fmt.Fprintf(&sb, "%c: ", rowLabels[row])
		for col := 0; col < b.dim; col++ {
			if u, ok := b.Get(Coord{Row: row, Col: col}); ok {
				fmt.Fprintf(&sb, "%-3s ", u.String())
			} else {
				sb.WriteString(" .  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
