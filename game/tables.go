package game

import (
	"errors"
	"fmt"
)

// Tables holds the per-kind combat data. A Tables value is never mutated once
// a game starts, so it can be shared freely between states and goroutines.
type Tables struct {
	// Damage[attacker][target]
	Damage [NumKinds][NumKinds]int
	// Repair[repairer][target]
	Repair             [NumKinds][NumKinds]int
	MaxHealth          [NumKinds]int
	SelfDestructDamage int
}

// DefaultTables returns the standard unit profiles.
func DefaultTables() *Tables {
	return &Tables{
		Damage: [NumKinds][NumKinds]int{
			AI:       {3, 3, 3, 3, 1},
			Tech:     {1, 1, 6, 1, 1},
			Virus:    {9, 6, 1, 6, 1},
			Program:  {3, 3, 3, 3, 1},
			Firewall: {1, 1, 1, 1, 1},
		},
		Repair: [NumKinds][NumKinds]int{
			AI:   {0, 1, 1, 0, 0},
			Tech: {3, 0, 0, 3, 3},
		},
		MaxHealth:          [NumKinds]int{9, 9, 9, 9, 9},
		SelfDestructDamage: 2,
	}
}

// NewTables builds tables from row slices, as read from configuration.
func NewTables(damage, repair [][]int, maxHealth []int, selfDestruct int) (*Tables, error) {
	t := &Tables{SelfDestructDamage: selfDestruct}
	if err := fillMatrix(&t.Damage, damage); err != nil {
		return nil, fmt.Errorf("damage table: %w", err)
	}
	if err := fillMatrix(&t.Repair, repair); err != nil {
		return nil, fmt.Errorf("repair table: %w", err)
	}
	if len(maxHealth) != NumKinds {
		return nil, fmt.Errorf("max health: expected %d entries, got %d", NumKinds, len(maxHealth))
	}
	copy(t.MaxHealth[:], maxHealth)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func fillMatrix(dst *[NumKinds][NumKinds]int, rows [][]int) error {
	if len(rows) != NumKinds {
		return fmt.Errorf("expected %d rows, got %d", NumKinds, len(rows))
	}
	for i, row := range rows {
		if len(row) != NumKinds {
			return fmt.Errorf("row %d: expected %d columns, got %d", i, NumKinds, len(row))
		}
		copy(dst[i][:], row)
	}
	return nil
}

// Validate checks that every amount is non-negative and every kind can hold health.
func (t *Tables) Validate() error {
	for a := 0; a < NumKinds; a++ {
		if t.MaxHealth[a] <= 0 {
			return fmt.Errorf("max health of %v must be positive", UnitKind(a))
		}
		for b := 0; b < NumKinds; b++ {
			if t.Damage[a][b] < 0 || t.Repair[a][b] < 0 {
				return fmt.Errorf("negative amount for %v against %v", UnitKind(a), UnitKind(b))
			}
		}
	}
	if t.SelfDestructDamage < 0 {
		return errors.New("self-destruct damage must not be negative")
	}
	return nil
}

// NewUnit returns a full-health unit of kind k.
func (t *Tables) NewUnit(p Player, k UnitKind) Unit {
	return Unit{Player: p, Kind: k, Health: t.MaxHealth[k]}
}

// DamageAmount is the damage src deals to dst, capped at dst's remaining health.
func (t *Tables) DamageAmount(src, dst Unit) int {
	return min(t.Damage[src.Kind][dst.Kind], dst.Health)
}

// RepairAmount is the health src restores to dst, capped at dst's maximum.
func (t *Tables) RepairAmount(src, dst Unit) int {
	return min(t.Repair[src.Kind][dst.Kind], t.MaxHealth[dst.Kind]-dst.Health)
}
