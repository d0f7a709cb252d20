package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeuristics(t *testing.T) {
	names := []string{"h0", "h1", "h2"}

	t.Run("swapping perspective negates the score", func(t *testing.T) {
		states := sampleStates(7, 150)
		states = append(states,
			position(t, Attacker, 0, put(4, 4, Attacker, AI)),
			position(t, Attacker, 0, put(0, 0, Defender, AI)),
		)
		for i, h := range Heuristics {
			for _, s := range states {
				a, d := h(s, Attacker), h(s, Defender)
				require.False(t, math.IsNaN(a) || math.IsInf(a, 0), "%s should be finite", names[i])
				require.Equal(t, a, -d, "%s should be antisymmetric on\n%v", names[i], s)
			}
		}
	})

	t.Run("starting layout is balanced in material", func(t *testing.T) {
		s := NewGameState(5, DefaultTables(), 100)

		require.Zero(t, EvaluateMaterial(s, Attacker))
		require.Zero(t, EvaluateHealth(s, Attacker))
	})

	t.Run("decided games score the win", func(t *testing.T) {
		s := position(t, Defender, 0, put(4, 4, Attacker, AI))

		for i, h := range Heuristics {
			require.Equal(t, WinScore, h(s, Attacker), names[i])
			require.Equal(t, -WinScore, h(s, Defender), names[i])
		}
	})

	t.Run("health weighting penalises damage", func(t *testing.T) {
		healthy := position(t, Attacker, 0, put(0, 0, Defender, AI), put(4, 4, Attacker, AI), put(2, 2, Attacker, Virus))
		hurt := position(t, Attacker, 0, put(0, 0, Defender, AI), put(4, 4, Attacker, AI), putHurt(2, 2, Attacker, Virus, 3))

		require.Equal(t, EvaluateMaterial(healthy, Attacker), EvaluateMaterial(hurt, Attacker), "h0 ignores health")
		require.Greater(t, EvaluateHealth(healthy, Attacker), EvaluateHealth(hurt, Attacker))
		require.InDelta(t, 1.0, EvaluateHealth(hurt, Attacker), 1e-9)
	})

	t.Run("enemy units next to the AI lower positional safety", func(t *testing.T) {
		far := position(t, Defender, 0, put(0, 0, Defender, AI), put(4, 4, Attacker, AI), put(3, 0, Attacker, Virus))
		near := position(t, Defender, 0, put(0, 0, Defender, AI), put(4, 4, Attacker, AI), put(1, 0, Attacker, Virus))

		require.Less(t, near.aiSafety(Defender), far.aiSafety(Defender))
		require.Equal(t, -threatPenalty-proximityWeight-proximityWeight/8, near.aiSafety(Defender))
	})

	t.Run("unknown selector", func(t *testing.T) {
		_, err := HeuristicByIndex(3)
		require.Error(t, err)
		h, err := HeuristicByIndex(2)
		require.NoError(t, err)
		require.NotNil(t, h)
	})
}
