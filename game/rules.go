package game

// LegalActions returns every legal action for the player to move.
func (gs *GameState) LegalActions() []Action {
	return gs.LegalActionsFor(gs.CurrentPlayer)
}

// LegalActionsFor returns every legal action p could take on the current board,
// whoever is to move. Units are visited row-major; for each unit the neighbours
// are tried up, left, down, right, followed by its self-destruct.
func (gs *GameState) LegalActionsFor(p Player) []Action {
	if gs.IsOver() {
		return nil
	}
	actions := []Action{}
	gs.Board.Each(func(from Coord, u Unit) {
		if u.Player != p {
			return
		}
		for _, to := range from.Adjacent() {
			if !gs.Board.InBounds(to) {
				continue
			}
			target, occupied := gs.Board.Get(to)
			switch {
			case !occupied:
				if gs.canMove(u, from, to) == nil {
					actions = append(actions, Move(from, to))
				}
			case target.Player != p:
				actions = append(actions, Attack(from, to))
			case gs.canRepair(u, target) == nil:
				actions = append(actions, Repair(from, to))
			}
		}
		actions = append(actions, SelfDestruct(from))
	})
	return actions
}

// IsLegal reports whether the player to move may take a.
func (gs *GameState) IsLegal(a Action) bool {
	return gs.Validate(a) == nil
}

// Validate checks a for the player to move and returns an *IllegalActionError
// naming the first failed precondition.
func (gs *GameState) Validate(a Action) error {
	return gs.validateFor(gs.CurrentPlayer, a)
}

func (gs *GameState) validateFor(p Player, a Action) error {
	if gs.IsOver() {
		return illegal(a, ErrGameOver)
	}
	if !gs.Board.InBounds(a.From) || !gs.Board.InBounds(a.To) {
		return illegal(a, ErrOutOfBounds)
	}
	u, ok := gs.Board.Get(a.From)
	if !ok {
		return illegal(a, ErrNoUnit)
	}
	if u.Player != p {
		return illegal(a, ErrNotOwner)
	}

	if a.Type == SelfDestructAction {
		if a.To != a.From {
			return illegal(a, ErrMalformed)
		}
		return nil
	}
	if !a.From.IsAdjacent(a.To) {
		return illegal(a, ErrNotAdjacent)
	}
	target, occupied := gs.Board.Get(a.To)

	var reason error
	switch a.Type {
	case MoveAction:
		if occupied {
			reason = ErrOccupied
		} else {
			reason = gs.canMove(u, a.From, a.To)
		}
	case AttackAction:
		switch {
		case !occupied:
			reason = ErrNoTarget
		case target.Player == p:
			reason = ErrFriendlyTarget
		}
	case RepairAction:
		switch {
		case !occupied:
			reason = ErrNoTarget
		case target.Player != p:
			reason = ErrEnemyTarget
		default:
			reason = gs.canRepair(u, target)
		}
	default:
		reason = ErrMalformed
	}
	if reason != nil {
		return illegal(a, reason)
	}
	return nil
}

// canMove applies the engagement and direction rules to a step into an empty
// adjacent cell.
func (gs *GameState) canMove(u Unit, from, to Coord) error {
	if !u.Kind.restricted() {
		return nil
	}
	if gs.Board.IsEngaged(from) {
		return ErrEngaged
	}
	if !forward(u.Player, from, to) {
		return ErrWrongDirection
	}
	return nil
}

// forward reports whether a one-cell step goes the way p's restricted units
// advance: up or left for the Attacker, down or right for the Defender.
func forward(p Player, from, to Coord) bool {
	if p == Attacker {
		return to.Row < from.Row || to.Col < from.Col
	}
	return to.Row > from.Row || to.Col > from.Col
}

func (gs *GameState) canRepair(u, target Unit) error {
	if gs.Tables.Repair[u.Kind][target.Kind] == 0 {
		return ErrNoRepair
	}
	if target.Health >= gs.Tables.MaxHealth[target.Kind] {
		return ErrFullHealth
	}
	return nil
}
