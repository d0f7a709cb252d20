package game

// Player is one of the two factions. Attacker always moves first.
type Player int

const (
	Attacker Player = iota
	Defender
)

// Next returns the opposing player.
func (p Player) Next() Player {
	if p == Attacker {
		return Defender
	}
	return Attacker
}

func (p Player) String() string {
	switch p {
	case Attacker:
		return "Attacker"
	case Defender:
		return "Defender"
	}
	return "Unknown"
}

type Outcome int

const (
	InProgress Outcome = iota
	AttackerWins
	DefenderWins
	// Draw is part of the outcome model but the rules never produce it: a turn
	// limit and a double AI loss both resolve in the Defender's favour.
	Draw
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in-progress"
	case AttackerWins:
		return "attacker-wins"
	case DefenderWins:
		return "defender-wins"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// Winner reports the winning player of a decided game.
func (o Outcome) Winner() (Player, bool) {
	switch o {
	case AttackerWins:
		return Attacker, true
	case DefenderWins:
		return Defender, true
	}
	return 0, false
}

func winFor(p Player) Outcome {
	if p == Attacker {
		return AttackerWins
	}
	return DefenderWins
}

// Heuristic scores a state from the point of view of perspective: higher is
// better for perspective. Implementations must satisfy
// h(s, Attacker) == -h(s, Defender).
type Heuristic func(s *GameState, perspective Player) float64
