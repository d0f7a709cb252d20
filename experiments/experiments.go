// Package experiments plays computer-versus-computer matchups and stores the
// game and move statistics as CSV files.
package experiments

import (
	"context"
	"fmt"
	"time"

	"wargame/engine"
	"wargame/experiments/metrics"
	"wargame/game"
	"wargame/meta"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 10 // Per match up
	TimeBudget = 100 * time.Millisecond
)

// Experiment pairs agent configurations. Every matchup is played Games times
// with the agents swapping sides after each game.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
	Games    int
	Dim      int
	MaxTurns int
	Tables   *game.Tables
}

func newExperiment(name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) Experiment {
	return Experiment{
		Name:     name,
		Configs:  configs,
		MatchUps: matchUps,
		Games:    NumGames,
		Dim:      meta.DIM,
		MaxTurns: meta.MAX_TURNS,
		Tables:   game.DefaultTables(),
	}
}

// HeuristicExperiment pairs each heuristic against the others at equal depth
// and time.
func HeuristicExperiment() Experiment {
	configs := []metrics.AgentConfig{
		{ID: 0, Heuristic: 0, AlphaBeta: true, MaxDepth: meta.MAX_DEPTH, Duration: TimeBudget, Goroutines: 1},
		{ID: 1, Heuristic: 1, AlphaBeta: true, MaxDepth: meta.MAX_DEPTH, Duration: TimeBudget, Goroutines: 1},
		{ID: 2, Heuristic: 2, AlphaBeta: true, MaxDepth: meta.MAX_DEPTH, Duration: TimeBudget, Goroutines: 1},
	}
	matchUps := [][2]metrics.AgentConfig{
		{configs[0], configs[1]},
		{configs[0], configs[2]},
		{configs[1], configs[2]},
	}
	return newExperiment("heuristics", configs, matchUps)
}

// AlphaBetaExperiment pairs a pruning agent against an exhaustive one under
// the same time budget, so pruning shows up as extra depth.
func AlphaBetaExperiment() Experiment {
	baseline := metrics.AgentConfig{ID: 0, Heuristic: 2, AlphaBeta: false, MaxDepth: 8, Duration: TimeBudget, Goroutines: 1}
	pruning := metrics.AgentConfig{ID: 1, Heuristic: 2, AlphaBeta: true, MaxDepth: 8, Duration: TimeBudget, Goroutines: 1}
	return newExperiment("alpha_beta", []metrics.AgentConfig{baseline, pruning}, [][2]metrics.AgentConfig{{baseline, pruning}})
}

// ParallelizationExperiment pairs root-parallel agents against the sequential
// baseline.
func ParallelizationExperiment() Experiment {
	baseline := metrics.AgentConfig{ID: 0, Heuristic: 2, AlphaBeta: true, MaxDepth: 8, Duration: TimeBudget, Goroutines: 1}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i, goroutines := range []int{2, 4, 8} {
		config := baseline
		config.ID = i + 1
		config.Goroutines = goroutines
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return newExperiment("parallelization", configs, matchUps)
}

// ByName returns one of the predefined experiments.
func ByName(name string) (Experiment, error) {
	switch name {
	case "heuristics":
		return HeuristicExperiment(), nil
	case "alpha_beta":
		return AlphaBetaExperiment(), nil
	case "parallelization":
		return ParallelizationExperiment(), nil
	}
	return Experiment{}, fmt.Errorf("unknown experiment %q", name)
}

func searchConfig(config metrics.AgentConfig) engine.SearchConfig {
	return engine.SearchConfig{
		MaxDepth:   config.MaxDepth,
		MaxTime:    config.Duration,
		Heuristic:  config.Heuristic,
		AlphaBeta:  config.AlphaBeta,
		Goroutines: config.Goroutines,
		Metrics:    true,
	}
}

// Run plays every matchup and writes the records below dir. It returns the
// game records.
func (x Experiment) Run(ctx context.Context, dir string) ([]metrics.GameRecord, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", x.Name)

	for mi, matchup := range x.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(x.MatchUps), matchup[0], matchup[1])

		for i := 0; i < x.Games; i++ {
			attacker, defender := matchup[0], matchup[1]
			if i%2 == 1 {
				attacker, defender = defender, attacker
			}

			gameMetric, moveMetrics, err := x.runGame(ctx, attacker, defender)
			if err != nil {
				return gameRecords, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Attacker:   attacker.ID,
				Defender:   defender.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(x.MatchUps), i+1, gameMetric.Winner)
		}
	}

	log.Info().Msgf("completed %s experiment", x.Name)

	writer, err := metrics.NewWriter(dir, x.Name)
	if err != nil {
		return gameRecords, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(x.Configs); err != nil {
		return gameRecords, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return gameRecords, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return gameRecords, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return gameRecords, nil
}

// runGame plays one computer game between two agents.
func (x Experiment) runGame(ctx context.Context, attacker, defender metrics.AgentConfig) (metrics.GameMetric, []metrics.MoveMetric, error) {
	state := game.NewGameState(x.Dim, x.Tables, x.MaxTurns)
	e := engine.New(state, engine.ComputerVsComputer,
		engine.WithAgent(game.Attacker, searchConfig(attacker)),
		engine.WithAgent(game.Defender, searchConfig(defender)),
	)

	start := time.Now()
	outcome, err := e.Run(ctx)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	end := time.Now()

	winner := outcome.String()
	if p, ok := outcome.Winner(); ok {
		winner = p.String()
	}
	moveMetrics := []metrics.MoveMetric{}
	for _, entry := range e.Transcript() {
		if entry.Search == nil {
			continue
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         entry.Turn,
			Player:       entry.Player.String(),
			Score:        entry.Search.Score,
			SearchMetric: entry.Search.Metric,
		})
	}
	return metrics.GameMetric{
		StartingPlayer: state.CurrentPlayer.String(),
		Winner:         winner,
		StartTime:      start,
		EndTime:        end,
		Duration:       end.Sub(start),
		TotalMoves:     e.Turn(),
	}, moveMetrics, nil
}
