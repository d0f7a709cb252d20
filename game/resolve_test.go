package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttack(t *testing.T) {
	t.Run("virus destroys the defender AI and takes retaliation", func(t *testing.T) {
		s := position(t, Attacker, 0,
			put(0, 0, Defender, AI), put(1, 0, Attacker, Virus), put(4, 4, Attacker, AI))
		tables := s.Tables

		next, events, err := s.Resolve(Attack(at(1, 0), at(0, 0)))

		require.NoError(t, err)
		require.True(t, next.Board.IsEmpty(at(0, 0)), "Defender AI should be removed")
		virus, ok := next.Board.Get(at(1, 0))
		require.True(t, ok)
		require.Equal(t, 9-tables.Damage[AI][Virus], virus.Health, "Virus should take the AI's damage")
		require.Equal(t, AttackerWins, next.Outcome)
		require.Equal(t, []Event{
			{Kind: Damaged, At: at(0, 0), Unit: unit(Defender, AI, 0), Amount: 9},
			{Kind: Destroyed, At: at(0, 0), Unit: unit(Defender, AI, 0)},
			{Kind: Damaged, At: at(1, 0), Unit: unit(Attacker, Virus, 6), Amount: 3},
		}, events)
	})

	t.Run("damage on both sides comes from pre-attack health", func(t *testing.T) {
		s := position(t, Attacker, 0,
			putHurt(0, 0, Defender, AI, 9),
			putHurt(2, 2, Attacker, Program, 2),
			putHurt(2, 3, Defender, Program, 2),
			put(4, 4, Attacker, AI))

		next := s.Play(Attack(at(2, 2), at(2, 3)))

		require.True(t, next.Board.IsEmpty(at(2, 2)), "Attacker program should die from retaliation")
		require.True(t, next.Board.IsEmpty(at(2, 3)), "Defender program should die")
		require.Equal(t, InProgress, next.Outcome)
	})

	t.Run("every attack damages both participants", func(t *testing.T) {
		for _, s := range sampleStates(4, 150) {
			for _, a := range s.LegalActions() {
				if a.Type != AttackAction {
					continue
				}
				src, _ := s.Board.Get(a.From)
				dst, _ := s.Board.Get(a.To)
				next := s.Play(a)

				after, _ := next.Board.Get(a.To)
				require.Equal(t, dst.Health-min(s.Tables.Damage[src.Kind][dst.Kind], dst.Health), after.Health)
				after, _ = next.Board.Get(a.From)
				require.Equal(t, src.Health-min(s.Tables.Damage[dst.Kind][src.Kind], src.Health), after.Health)
			}
		}
	})
}

func TestSelfDestruct(t *testing.T) {
	t.Run("blast hits every neighbour including friends", func(t *testing.T) {
		s := position(t, Attacker, 0,
			put(0, 0, Defender, AI),
			put(4, 4, Attacker, AI),
			put(2, 2, Attacker, Virus),
			put(1, 1, Attacker, Program),
			put(1, 2, Defender, Firewall),
			putHurt(3, 3, Defender, Tech, 1),
			put(2, 4, Defender, Program),
		)

		next, events, err := s.Resolve(SelfDestruct(at(2, 2)))

		require.NoError(t, err)
		require.True(t, next.Board.IsEmpty(at(2, 2)), "Self-destructing unit should be removed")
		program, _ := next.Board.Get(at(1, 1))
		require.Equal(t, 7, program.Health, "Friendly diagonal neighbour should be hit")
		firewall, _ := next.Board.Get(at(1, 2))
		require.Equal(t, 7, firewall.Health)
		require.True(t, next.Board.IsEmpty(at(3, 3)), "Neighbour with 1 health should be destroyed")
		outside, _ := next.Board.Get(at(2, 4))
		require.Equal(t, 9, outside.Health, "Units two cells away should be untouched")
		require.Equal(t, Destroyed, events[0].Kind)
		require.Equal(t, at(2, 2), events[0].At)
	})

	t.Run("every self-destruct clears the source and damages its ring", func(t *testing.T) {
		for _, s := range sampleStates(5, 150) {
			for _, a := range s.LegalActions() {
				if a.Type != SelfDestructAction {
					continue
				}
				next := s.Play(a)
				require.True(t, next.Board.IsEmpty(a.From))
				for _, c := range a.From.Surrounding() {
					before, ok := s.Board.Get(c)
					if !ok {
						continue
					}
					after, _ := next.Board.Get(c)
					require.Equal(t, max(0, before.Health-s.Tables.SelfDestructDamage), after.Health)
				}
			}
		}
	})

	t.Run("losing both AIs hands the game to the defender", func(t *testing.T) {
		s := position(t, Attacker, 0,
			putHurt(0, 0, Defender, AI, 2),
			put(1, 1, Attacker, Virus),
			putHurt(2, 2, Attacker, AI, 2))

		next := s.Play(SelfDestruct(at(1, 1)))

		require.Equal(t, DefenderWins, next.Outcome)
	})
}

func TestRepairAndMove(t *testing.T) {
	t.Run("repair is capped at max health", func(t *testing.T) {
		s := position(t, Defender, 0,
			putHurt(0, 0, Defender, AI, 8), put(0, 1, Defender, Tech), put(4, 4, Attacker, AI))

		next, events, err := s.Resolve(Repair(at(0, 1), at(0, 0)))

		require.NoError(t, err)
		ai, _ := next.Board.Get(at(0, 0))
		require.Equal(t, 9, ai.Health)
		tech, _ := next.Board.Get(at(0, 1))
		require.Equal(t, 9, tech.Health, "Repairing should not cost health")
		require.Equal(t, []Event{{Kind: Repaired, At: at(0, 0), Unit: unit(Defender, AI, 9), Amount: 1}}, events)
	})

	t.Run("move relocates the unit and passes the turn", func(t *testing.T) {
		s := NewGameState(5, DefaultTables(), 100)

		next, events, err := s.Resolve(Move(at(2, 4), at(1, 4)))

		require.NoError(t, err)
		require.True(t, next.Board.IsEmpty(at(2, 4)))
		program, ok := next.Board.Get(at(1, 4))
		require.True(t, ok)
		require.Equal(t, unit(Attacker, Program, 9), program)
		require.Equal(t, []Event{{Kind: Moved, At: at(1, 4), Unit: program}}, events)
		require.Equal(t, Defender, next.CurrentPlayer)
		require.Equal(t, 1, next.TurnsPlayed)
	})
}

func TestTurnLimit(t *testing.T) {
	t.Run("reaching the limit hands the game to the defender", func(t *testing.T) {
		for _, toMove := range []Player{Attacker, Defender} {
			s := position(t, toMove, 3, put(0, 0, Defender, AI), put(4, 4, Attacker, AI))
			s.TurnsPlayed = 2

			next := s.Play(s.LegalActions()[0])

			require.Equal(t, DefenderWins, next.Outcome, "%v moving last", toMove)
		}
	})

	t.Run("destroyed AI takes precedence over the limit", func(t *testing.T) {
		s := position(t, Attacker, 1, put(0, 0, Defender, AI), put(0, 1, Attacker, Virus), put(4, 4, Attacker, AI))

		next := s.Play(Attack(at(0, 1), at(0, 0)))

		require.Equal(t, AttackerWins, next.Outcome)
	})
}

func TestPlay(t *testing.T) {
	t.Run("illegal action panics with a precondition error", func(t *testing.T) {
		s := NewGameState(5, DefaultTables(), 100)

		defer func() {
			r := recover()
			require.NotNil(t, r, "Play should panic")
			err, ok := r.(*PreconditionError)
			require.True(t, ok, "Panic value should be a *PreconditionError")
			require.ErrorIs(t, err, ErrNoUnit)
		}()
		s.Play(Move(at(2, 2), at(2, 3)))
	})

	t.Run("rejected action leaves the state untouched", func(t *testing.T) {
		s := NewGameState(5, DefaultTables(), 100)
		before := s.Hash()

		next, events, err := s.Resolve(Move(at(0, 0), at(1, 0)))

		require.ErrorIs(t, err, ErrNotOwner)
		require.Same(t, s, next)
		require.Nil(t, events)
		require.Equal(t, before, s.Hash())
	})

	t.Run("play never mutates the receiver", func(t *testing.T) {
		for _, s := range sampleStates(6, 60) {
			before := s.Hash()
			for _, a := range s.LegalActions() {
				s.Play(a)
			}
			require.Equal(t, before, s.Hash())
		}
	})

	t.Run("forfeit loses for the player to move", func(t *testing.T) {
		s := NewGameState(5, DefaultTables(), 100)

		require.Equal(t, DefenderWins, s.Forfeit().Outcome)
		require.Equal(t, InProgress, s.Outcome)
	})
}
