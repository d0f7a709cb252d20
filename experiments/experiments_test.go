package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wargame/experiments/metrics"
	"wargame/game"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRun(t *testing.T) {
	quick := metrics.AgentConfig{ID: 0, Heuristic: 0, AlphaBeta: true, MaxDepth: 1, Duration: time.Minute, Goroutines: 1}
	informed := quick
	informed.ID, informed.Heuristic = 1, 2
	x := Experiment{
		Name:     "tiny",
		Configs:  []metrics.AgentConfig{quick, informed},
		MatchUps: [][2]metrics.AgentConfig{{quick, informed}},
		Games:    2,
		Dim:      5,
		MaxTurns: 4,
		Tables:   game.DefaultTables(),
	}
	dir := t.TempDir()

	records, err := x.Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, records, 2)
	require.Equal(t, 0, records[0].Attacker)
	require.Equal(t, 1, records[0].Defender)
	require.Equal(t, 1, records[1].Attacker, "Agents should swap sides")
	for _, r := range records {
		require.Equal(t, "Defender", r.Winner, "Four turns cannot reach an AI")
		require.Equal(t, "Attacker", r.StartingPlayer)
		require.Equal(t, 4, r.TotalMoves)
	}

	runs, err := os.ReadDir(filepath.Join(dir, "tiny"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	base := filepath.Join(dir, "tiny", runs[0].Name())

	configs := readCSV(t, filepath.Join(base, "agent_configs.csv"))
	require.Len(t, configs, 3)
	require.Equal(t, []string{"1", "2", "true", "1", "1m0s", "1"}, configs[2])

	games := readCSV(t, filepath.Join(base, "game_records.csv"))
	require.Len(t, games, 3)
	require.Equal(t, "total_moves", games[0][8])

	moves := readCSV(t, filepath.Join(base, "move_records.csv"))
	require.Len(t, moves, 1+2*4)
	require.Equal(t, "1", moves[1][5], "Every move should complete depth 1")
}

func TestByName(t *testing.T) {
	for _, name := range []string{"heuristics", "alpha_beta", "parallelization"} {
		x, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, x.Name)
		require.NotEmpty(t, x.MatchUps)
		for _, m := range x.MatchUps {
			require.Contains(t, x.Configs, m[0])
			require.Contains(t, x.Configs, m[1])
		}
	}
	_, err := ByName("throughput")
	require.Error(t, err)
}
