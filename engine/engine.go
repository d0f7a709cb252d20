// Package engine drives a game turn by turn, asking humans or the searcher
// for actions and keeping the authoritative state and its history.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wargame/game"
	"wargame/meta"
	"wargame/searcher"
	"wargame/transcript"

	"github.com/rs/zerolog/log"
)

// ErrComputerTurn is returned when a human action is submitted while the
// player to move is computer-controlled.
var ErrComputerTurn = errors.New("the player to move is computer-controlled")

// Mode selects which players are computer-controlled.
type Mode int

const (
	HumanVsHuman       Mode = iota // "manual"
	HumanVsComputer                // "attacker": the human plays the Attacker
	ComputerVsHuman                // "defender": the human plays the Defender
	ComputerVsComputer             // "auto"
)

var modeNames = map[Mode]string{
	HumanVsHuman:       "manual",
	HumanVsComputer:    "attacker",
	ComputerVsHuman:    "defender",
	ComputerVsComputer: "auto",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode reads a mode name as written in configuration.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown game mode %q, expected manual, attacker, defender or auto", s)
}

// Computer reports whether p is played by the searcher in this mode.
func (m Mode) Computer(p game.Player) bool {
	switch m {
	case HumanVsComputer:
		return p == game.Defender
	case ComputerVsHuman:
		return p == game.Attacker
	case ComputerVsComputer:
		return true
	}
	return false
}

type Phase int

const (
	AwaitingMove Phase = iota
	Resolving
	GameOver
)

func (p Phase) String() string {
	switch p {
	case AwaitingMove:
		return "awaiting-move"
	case Resolving:
		return "resolving"
	case GameOver:
		return "game-over"
	}
	return "unknown"
}

// HumanSource supplies actions for human-controlled players. rejected is the
// reason the previous answer was refused, nil on the first prompt of a turn.
type HumanSource interface {
	NextAction(ctx context.Context, state *game.GameState, rejected error) (game.Action, error)
}

// SearchConfig parameterises one computer player.
type SearchConfig struct {
	MaxDepth   int
	MaxTime    time.Duration
	Heuristic  int
	AlphaBeta  bool
	Goroutines int
	Randomize  bool
	Seed       uint64
	Metrics    bool
}

// DefaultSearchConfig mirrors the meta defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxDepth:   meta.MAX_DEPTH,
		MaxTime:    meta.MAX_TIME,
		Heuristic:  meta.HEURISTIC,
		AlphaBeta:  meta.ALPHA_BETA,
		Goroutines: meta.GO_ROUTINES,
		Metrics:    true,
	}
}

// Searcher builds the searcher described by c.
func (c SearchConfig) Searcher() (*searcher.Minimax, error) {
	h, err := game.HeuristicByIndex(c.Heuristic)
	if err != nil {
		return nil, err
	}
	options := []searcher.Option{
		searcher.WithMaxDepth(c.MaxDepth),
		searcher.WithDuration(c.MaxTime),
		searcher.WithHeuristic(h),
		searcher.WithAlphaBeta(c.AlphaBeta),
		searcher.WithGoroutines(c.Goroutines),
	}
	if c.Randomize {
		options = append(options, searcher.WithRandomOrder(c.Seed))
	}
	if c.Metrics {
		options = append(options, searcher.WithMetrics())
	}
	return searcher.NewMinimax(options...), nil
}

type Option func(e *Engine)

func WithHumanSource(source HumanSource) Option {
	return func(e *Engine) {
		e.human = source
	}
}

// WithSearchConfig configures both computer players.
func WithSearchConfig(cfg SearchConfig) Option {
	return func(e *Engine) {
		e.agents[game.Attacker] = cfg
		e.agents[game.Defender] = cfg
	}
}

// WithAgent configures the computer player p only.
func WithAgent(p game.Player, cfg SearchConfig) Option {
	return func(e *Engine) {
		e.agents[p] = cfg
	}
}

func WithRecorder(recorder transcript.Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// WithGameID names the game for the recorders.
func WithGameID(id string) Option {
	return func(e *Engine) {
		e.gameID = id
	}
}

// Engine owns the authoritative game state. It is not safe for concurrent use.
type Engine struct {
	mode     Mode
	state    *game.GameState
	phase    Phase
	history  []transcript.Entry
	human    HumanSource
	agents   [2]SearchConfig
	recorder transcript.Recorder
	gameID   string
	started  bool
}

// New starts a game from initial in the given mode.
func New(initial *game.GameState, mode Mode, options ...Option) *Engine {
	e := &Engine{
		mode:  mode,
		state: initial,
		phase: AwaitingMove,
	}
	e.agents[game.Attacker] = DefaultSearchConfig()
	e.agents[game.Defender] = DefaultSearchConfig()
	for _, option := range options {
		option(e)
	}
	if initial.IsOver() {
		e.phase = GameOver
	}
	return e
}

func (e *Engine) Mode() Mode                       { return e.mode }
func (e *Engine) State() *game.GameState           { return e.state.Copy() }
func (e *Engine) Board() *game.Board               { return e.state.Board.Clone() }
func (e *Engine) CurrentPlayer() game.Player       { return e.state.CurrentPlayer }
func (e *Engine) Turn() int                        { return e.state.TurnsPlayed }
func (e *Engine) Outcome() game.Outcome            { return e.state.Outcome }
func (e *Engine) Phase() Phase                     { return e.phase }
func (e *Engine) Agent(p game.Player) SearchConfig { return e.agents[p] }

// Transcript returns a copy of the turns played so far.
func (e *Engine) Transcript() []transcript.Entry {
	entries := make([]transcript.Entry, len(e.history))
	for i, entry := range e.history {
		if entry.Board != nil {
			entry.Board = entry.Board.Clone()
		}
		entry.Events = append([]game.Event(nil), entry.Events...)
		entries[i] = entry
	}
	return entries
}

// SubmitHumanAction plays a for the player to move. A rejected action leaves
// the game unchanged and returns the *game.IllegalActionError.
func (e *Engine) SubmitHumanAction(a game.Action) error {
	if e.phase != GameOver && e.mode.Computer(e.state.CurrentPlayer) {
		return ErrComputerTurn
	}
	return e.resolve(a, nil)
}

// AdvanceWithSearch plays the searcher's choice for the player to move,
// whoever controls it. A player without any legal action forfeits.
func (e *Engine) AdvanceWithSearch(cfg SearchConfig) (searcher.Result, error) {
	if e.phase == GameOver {
		return searcher.Result{}, game.ErrGameOver
	}
	s, err := cfg.Searcher()
	if err != nil {
		return searcher.Result{}, err
	}
	e.begin()

	result, err := s.FindMove(e.state)
	if errors.Is(err, searcher.ErrNoLegalAction) {
		e.forfeit()
		return searcher.Result{}, nil
	}
	if err != nil {
		return searcher.Result{}, err
	}
	if err := e.resolve(result.Action, &result); err != nil {
		// the searcher only returns legal actions
		return result, fmt.Errorf("searcher returned %v: %w", result.Action, err)
	}
	return result, nil
}

// Step plays one turn.
func (e *Engine) Step(ctx context.Context) error {
	if e.phase == GameOver {
		return game.ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p := e.state.CurrentPlayer
	if e.mode.Computer(p) {
		_, err := e.AdvanceWithSearch(e.agents[p])
		return err
	}

	if e.human == nil {
		return fmt.Errorf("no human source for %v", p)
	}
	e.begin()
	if len(e.state.LegalActions()) == 0 {
		e.forfeit()
		return nil
	}
	var rejected error
	for {
		a, err := e.human.NextAction(ctx, e.state.Copy(), rejected)
		if err != nil {
			return fmt.Errorf("failed to read action for %v: %w", p, err)
		}
		err = e.resolve(a, nil)
		var illegal *game.IllegalActionError
		if errors.As(err, &illegal) {
			log.Debug().Str("action", a.String()).Err(err).Msg("rejected human action")
			rejected = err
			continue
		}
		return err
	}
}

// Run plays until the game is decided.
func (e *Engine) Run(ctx context.Context) (game.Outcome, error) {
	log.Info().Str("mode", e.mode.String()).Int("maxTurns", e.state.MaxTurns).Msg("game started")
	for e.phase != GameOver {
		if err := e.Step(ctx); err != nil {
			return e.state.Outcome, err
		}
	}
	return e.state.Outcome, nil
}

func (e *Engine) resolve(a game.Action, search *searcher.Result) error {
	e.begin()
	next, events, err := e.state.Resolve(a)
	if err != nil {
		return err
	}
	e.phase = Resolving
	e.commit(next, transcript.Entry{
		Turn:   next.TurnsPlayed,
		Player: e.state.CurrentPlayer,
		Action: a,
		Board:  next.Board.Clone(),
		Events: events,
		Search: search,
	})
	return nil
}

func (e *Engine) forfeit() {
	p := e.state.CurrentPlayer
	log.Warn().Str("player", p.String()).Msg("no legal action, forfeiting")
	e.phase = Resolving
	e.commit(e.state.Forfeit(), transcript.Entry{
		Turn:    e.state.TurnsPlayed + 1,
		Player:  p,
		Forfeit: true,
	})
}

func (e *Engine) commit(next *game.GameState, entry transcript.Entry) {
	e.history = append(e.history, entry)
	e.state = next

	l := log.Info().Int("turn", entry.Turn).Str("player", entry.Player.String())
	if !entry.Forfeit {
		l = l.Str("action", entry.Action.Describe())
	}
	if entry.Search != nil {
		l = l.Int("depth", entry.Search.Depth).Float64("score", entry.Search.Score)
	}
	l.Msg("turn played")

	if e.recorder != nil {
		if err := e.recorder.Record(entry); err != nil {
			log.Error().Err(err).Msg("failed to record turn")
		}
	}

	if !next.IsOver() {
		e.phase = AwaitingMove
		return
	}
	e.phase = GameOver
	log.Info().Str("outcome", next.Outcome.String()).Int("turns", next.TurnsPlayed).Msg("game over")
	if e.recorder != nil {
		if err := e.recorder.Finish(next); err != nil {
			log.Error().Err(err).Msg("failed to record outcome")
		}
	}
}

// begin announces the game to the recorder before the first turn.
func (e *Engine) begin() {
	if e.started {
		return
	}
	e.started = true
	if e.recorder == nil {
		return
	}
	// search settings stay zero when nobody is computer-controlled
	var cfg SearchConfig
	switch {
	case e.mode.Computer(game.Attacker):
		cfg = e.agents[game.Attacker]
	case e.mode.Computer(game.Defender):
		cfg = e.agents[game.Defender]
	}
	info := transcript.GameInfo{
		ID:        e.gameID,
		Mode:      e.mode.String(),
		Dim:       e.state.Board.Dim(),
		MaxTurns:  e.state.MaxTurns,
		MaxDepth:  cfg.MaxDepth,
		MaxTime:   cfg.MaxTime,
		Heuristic: cfg.Heuristic,
		AlphaBeta: cfg.AlphaBeta,
		StartedAt: time.Now(),
		Initial:   e.state.Copy(),
	}
	if err := e.recorder.Start(info); err != nil {
		log.Error().Err(err).Msg("failed to record game start")
	}
}
