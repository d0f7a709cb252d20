package game

import "fmt"

// WinScore is the value of a decided game for the winner. It dominates any
// material or positional score.
const WinScore = 1e6

var kindWeights = [NumKinds]float64{
	AI:       9999,
	Tech:     3,
	Virus:    3,
	Program:  3,
	Firewall: 3,
}

const (
	threatPenalty   = 25.0 // per enemy unit engaging the AI
	proximityWeight = 10.0 // scaled by 1/distance of each enemy unit to the AI
	mobilityWeight  = 1.0  // per legal action
)

// Heuristics lists the selectable evaluators from cheapest to most informed.
var Heuristics = []Heuristic{EvaluateMaterial, EvaluateHealth, EvaluatePosition}

// HeuristicByIndex returns heuristic 0, 1 or 2.
func HeuristicByIndex(i int) (Heuristic, error) {
	if i < 0 || i >= len(Heuristics) {
		return nil, fmt.Errorf("unknown heuristic %d, expected 0 to %d", i, len(Heuristics)-1)
	}
	return Heuristics[i], nil
}

// EvaluateMaterial (h0) counts units weighted by kind.
func EvaluateMaterial(s *GameState, perspective Player) float64 {
	if score, ok := decided(s); ok {
		return orient(score, perspective)
	}
	return orient(s.material(false), perspective)
}

// EvaluateHealth (h1) is the material count with every unit scaled by its
// remaining health fraction.
func EvaluateHealth(s *GameState, perspective Player) float64 {
	if score, ok := decided(s); ok {
		return orient(score, perspective)
	}
	return orient(s.material(true), perspective)
}

// EvaluatePosition (h2) adds AI safety and mobility to EvaluateHealth.
func EvaluatePosition(s *GameState, perspective Player) float64 {
	if score, ok := decided(s); ok {
		return orient(score, perspective)
	}
	score := s.material(true)
	score += s.aiSafety(Attacker) - s.aiSafety(Defender)
	mobility := len(s.LegalActionsFor(Attacker)) - len(s.LegalActionsFor(Defender))
	score += mobilityWeight * float64(mobility)
	return orient(score, perspective)
}

// Scores below are computed from the Attacker's side and flipped for the
// Defender, which keeps every heuristic exactly antisymmetric.
func orient(score float64, perspective Player) float64 {
	if perspective == Defender {
		return -score
	}
	return score
}

func decided(s *GameState) (float64, bool) {
	switch s.Outcome {
	case AttackerWins:
		return WinScore, true
	case DefenderWins:
		return -WinScore, true
	case Draw:
		return 0, true
	}
	return 0, false
}

func (gs *GameState) material(byHealth bool) float64 {
	var score float64
	gs.Board.Each(func(_ Coord, u Unit) {
		w := kindWeights[u.Kind]
		if byHealth {
			w *= float64(u.Health) / float64(gs.Tables.MaxHealth[u.Kind])
		}
		if u.Player == Attacker {
			score += w
		} else {
			score -= w
		}
	})
	return score
}

// aiSafety is zero or negative: every enemy unit costs more the closer it is
// to p's AI, and engaging enemies cost a flat penalty on top.
func (gs *GameState) aiSafety(p Player) float64 {
	ai, ok := gs.Board.FindAI(p)
	if !ok {
		return 0
	}
	var safety float64
	gs.Board.Each(func(c Coord, u Unit) {
		if u.Player == p {
			return
		}
		d := c.Distance(ai)
		if d == 1 {
			safety -= threatPenalty
		}
		safety -= proximityWeight / float64(d)
	})
	return safety
}
