package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wargame/experiments/metrics"
	"wargame/game"
	"wargame/searcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playedGame plays the opening move of a fresh game and returns what a
// recorder would be told about it.
func playedGame(t *testing.T) (GameInfo, Entry, *game.GameState) {
	t.Helper()
	initial := game.NewGameState(5, game.DefaultTables(), 100)
	action := game.Move(game.Coord{Row: 2, Col: 4}, game.Coord{Row: 1, Col: 4})
	next, events, err := initial.Resolve(action)
	require.NoError(t, err)

	info := GameInfo{
		Mode:      "auto",
		Dim:       5,
		MaxTurns:  100,
		MaxDepth:  4,
		MaxTime:   5 * time.Second,
		Heuristic: 2,
		AlphaBeta: true,
		StartedAt: time.Now(),
		Initial:   initial,
	}
	entry := Entry{
		Turn:   1,
		Player: game.Attacker,
		Action: action,
		Board:  next.Board,
		Events: events,
		Search: &searcher.Result{
			Action:  action,
			Score:   3.5,
			Depth:   3,
			Elapsed: 20 * time.Millisecond,
			Metric: metrics.SearchMetric{
				Duration:            20 * time.Millisecond,
				Nodes:               10,
				Branches:            120,
				Evaluations:         100,
				EvaluationsPerDepth: []int64{0, 10, 30, 60},
			},
		},
	}
	return info, entry, next.Forfeit()
}

func TestTextRecorder(t *testing.T) {
	t.Run("writes parameters, turns and the winner", func(t *testing.T) {
		info, entry, final := playedGame(t)
		var buf bytes.Buffer
		r := NewTextRecorder(&buf)

		require.NoError(t, r.Start(info))
		require.NoError(t, r.Record(entry))
		require.NoError(t, r.Record(Entry{Turn: 2, Player: game.Defender, Forfeit: true}))
		require.NoError(t, r.Finish(final))
		require.NoError(t, r.Close())

		out := buf.String()
		assert.Contains(t, out, "The value of the timeout is 5 seconds.")
		assert.Contains(t, out, "The max number of turns is 100.")
		assert.Contains(t, out, "The game type is auto.")
		assert.Contains(t, out, "Turn #1: Attacker: move from C4 to B4")
		assert.Contains(t, out, "Heuristic score: 3.5")
		assert.Contains(t, out, "Evals per depth: 0:0 1:10 2:30 3:60")
		assert.Contains(t, out, "Average branching factor: 12.00")
		assert.Contains(t, out, "Turn #2: Defender has no legal action and forfeits")
		assert.Contains(t, out, "Attacker wins!")
		assert.Contains(t, out, "Game ended after 1 turns")
	})

	t.Run("human game header omits search settings", func(t *testing.T) {
		info, _, _ := playedGame(t)
		info.Mode = "manual"
		info.MaxTime, info.MaxDepth, info.Heuristic, info.AlphaBeta = 0, 0, 0, false
		var buf bytes.Buffer
		r := NewTextRecorder(&buf)

		require.NoError(t, r.Start(info))

		out := buf.String()
		assert.Contains(t, out, "The game type is manual.")
		assert.NotContains(t, out, "timeout")
		assert.NotContains(t, out, "Alpha-beta")
		assert.NotContains(t, out, "heuristic")
	})

	t.Run("names the file after the settings", func(t *testing.T) {
		info, _, _ := playedGame(t)
		dir := filepath.Join(t.TempDir(), "traces")

		r, path, err := CreateTextFile(dir, info)
		require.NoError(t, err)
		require.NoError(t, r.Start(info))
		require.NoError(t, r.Close())

		require.Equal(t, filepath.Join(dir, "gameTrace-true-5-100.txt"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "Alpha-beta is on.")
	})
}

func TestStore(t *testing.T) {
	t.Run("records a game and its turns", func(t *testing.T) {
		info, entry, final := playedGame(t)
		s, err := OpenStore("sqlite", filepath.Join(t.TempDir(), "games.db"))
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Start(info))
		require.NoError(t, s.Record(entry))
		require.NoError(t, s.Finish(final))

		g, err := s.LoadGame(s.GameID())
		require.NoError(t, err)
		assert.Len(t, g.ID, 36, "Game should get a UUID")
		assert.Equal(t, "attacker-wins", g.Outcome)
		assert.Equal(t, 1, g.Turns)
		assert.NotNil(t, g.EndedAt)
		assert.Equal(t, int64(5000), g.MaxTimeMs)

		turns, err := s.Turns(s.GameID())
		require.NoError(t, err)
		require.Len(t, turns, 1)
		turn := turns[0]
		assert.Equal(t, "C4 B4", turn.Action)
		assert.Equal(t, "move", turn.Kind)
		assert.Equal(t, "Attacker", turn.Player)
		require.NotNil(t, turn.Depth)
		assert.Equal(t, 3, *turn.Depth)

		var units []game.Placement
		require.NoError(t, json.Unmarshal(turn.Units, &units))
		assert.Len(t, units, 12)
		var events []game.Event
		require.NoError(t, json.Unmarshal(turn.Events, &events))
		assert.Equal(t, entry.Events, events)
	})

	t.Run("keeps the configured id", func(t *testing.T) {
		info, _, _ := playedGame(t)
		info.ID = "fixed-id"
		s, err := OpenStore("sqlite", "")
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Start(info))
		require.Equal(t, "fixed-id", s.GameID())
	})

	t.Run("rejects use before start", func(t *testing.T) {
		_, entry, _ := playedGame(t)
		s, err := OpenStore("sqlite", "")
		require.NoError(t, err)
		defer s.Close()

		require.Error(t, s.Record(entry))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStore("mysql", "")
		require.Error(t, err)
	})
}

type failingRecorder struct{ err error }

func (f failingRecorder) Start(GameInfo) error         { return f.err }
func (f failingRecorder) Record(Entry) error           { return f.err }
func (f failingRecorder) Finish(*game.GameState) error { return f.err }
func (f failingRecorder) Close() error                 { return f.err }

func TestMulti(t *testing.T) {
	info, entry, final := playedGame(t)
	var buf bytes.Buffer
	boom := errors.New("boom")
	m := Multi(NewTextRecorder(&buf), failingRecorder{err: boom})

	require.ErrorIs(t, m.Start(info), boom)
	require.ErrorIs(t, m.Record(entry), boom)
	require.ErrorIs(t, m.Finish(final), boom)
	require.Contains(t, buf.String(), "Turn #1", "Healthy recorders should still receive every call")
}
