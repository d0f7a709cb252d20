package searcher

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"wargame/experiments/metrics"
	"wargame/game"
	"wargame/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(m *Minimax)

// Minimax is an iterative-deepening minimax searcher with optional alpha-beta
// pruning. A Minimax must not run two searches at once.
type Minimax struct {
	maxDepth   int
	duration   time.Duration
	evaluate   game.Heuristic
	alphaBeta  bool
	goroutines int
	randomize  bool
	seed       uint64
	metrics    metrics.Collector
}

// Result is the outcome of one FindMove call.
type Result struct {
	Action   game.Action
	Score    float64 // from the mover's perspective
	Depth    int     // deepest fully searched depth, 0 for a fallback
	Elapsed  time.Duration
	Fallback bool
	Metric   metrics.SearchMetric
}

func WithMaxDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *Minimax) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithHeuristic(evaluate game.Heuristic) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithAlphaBeta(enabled bool) Option {
	return func(m *Minimax) {
		m.alphaBeta = enabled
	}
}

// WithGoroutines searches root actions in parallel. The chosen action is the
// same as with a single goroutine.
func WithGoroutines(goroutines int) Option {
	return func(m *Minimax) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

// WithRandomOrder shuffles root actions with a seeded source before ordering,
// varying play between equally scored actions. The same seed gives the same move.
func WithRandomOrder(seed uint64) Option {
	return func(m *Minimax) {
		m.randomize = true
		m.seed = seed
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		maxDepth:   meta.MAX_DEPTH,
		duration:   meta.MAX_TIME,
		evaluate:   game.EvaluateMaterial,
		alphaBeta:  meta.ALPHA_BETA,
		goroutines: meta.GO_ROUTINES,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// FindMove searches depth 1, 2, ... up to the maximum depth and returns the
// best action of the deepest depth that finished before the deadline. A depth
// interrupted by the deadline is discarded.
func (m *Minimax) FindMove(state *game.GameState) (Result, error) {
	start := time.Now()
	deadline := start.Add(m.duration)

	actions := state.LegalActions()
	if len(actions) == 0 {
		return Result{}, ErrNoLegalAction
	}
	if m.randomize {
		r := rand.New(rand.NewSource(m.seed))
		r.Shuffle(len(actions), func(i, j int) { actions[i], actions[j] = actions[j], actions[i] })
	}
	actions = orderActions(actions)

	m.metrics.Start(m.goroutines, m.maxDepth, m.alphaBeta)
	s := &search{
		root:      state.CurrentPlayer,
		deadline:  deadline,
		evaluate:  m.evaluate,
		alphaBeta: m.alphaBeta,
		metrics:   m.metrics,
	}

	result := Result{Action: actions[0], Fallback: true}
	for depth := 1; depth <= m.maxDepth; depth++ {
		var (
			action game.Action
			score  float64
			ok     bool
		)
		if m.goroutines > 1 {
			action, score, ok = s.parallelRoot(state, actions, depth, m.goroutines)
		} else {
			action, score, ok = s.searchRoot(state, actions, depth)
		}
		if !ok {
			log.Debug().Int("depth", depth).Dur("elapsed", time.Since(start)).Msg("search deadline reached, discarding depth")
			break
		}
		result = Result{Action: action, Score: score, Depth: depth}
		log.Debug().Int("depth", depth).Str("action", action.String()).Float64("score", score).Msg("depth completed")
		if proven(score) {
			break
		}
	}

	if result.Fallback {
		log.Warn().Err(ErrDeadlineAtDepthOne).Str("action", result.Action.String()).Msg("falling back to first legal action")
		result.Score = m.evaluate(state.Play(result.Action), state.CurrentPlayer)
	}
	result.Elapsed = time.Since(start)
	result.Metric = m.metrics.Complete(result.Depth, result.Fallback)
	recordSearch(result)
	return result, nil
}

// search holds what every node of one FindMove call shares. Only aborted is
// written during the search.
type search struct {
	root      game.Player
	deadline  time.Time
	evaluate  game.Heuristic
	alphaBeta bool
	metrics   metrics.Collector
	aborted   atomic.Bool
}

func (s *search) expired() bool {
	if s.aborted.Load() {
		return true
	}
	if time.Now().After(s.deadline) {
		s.aborted.Store(true)
		return true
	}
	return false
}

// searchRoot scores every root action to depth plies and keeps the first
// action with the strictly highest score.
func (s *search) searchRoot(state *game.GameState, actions []game.Action, depth int) (game.Action, float64, bool) {
	if s.expired() {
		return game.Action{}, 0, false
	}
	s.metrics.AddNode(len(actions))

	var best game.Action
	bestScore := math.Inf(-1)
	alpha := math.Inf(-1)
	for i, a := range actions {
		if s.expired() {
			return game.Action{}, 0, false
		}
		v, ok := s.value(state.Play(a), depth-1, 1, alpha, math.Inf(1))
		if !ok {
			return game.Action{}, 0, false
		}
		if i == 0 || v > bestScore {
			best, bestScore = a, v
		}
		if s.alphaBeta {
			alpha = max(alpha, bestScore)
		}
	}
	return best, bestScore, true
}

// parallelRoot scores root actions on a pool of goroutines. Each child gets a
// full window, so its score is exact and the pick matches searchRoot.
func (s *search) parallelRoot(state *game.GameState, actions []game.Action, depth, goroutines int) (game.Action, float64, bool) {
	if s.expired() {
		return game.Action{}, 0, false
	}
	s.metrics.AddNode(len(actions))

	scores := make([]float64, len(actions))
	task := make(chan int, len(actions))
	for i := range actions {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range task {
				if s.expired() {
					return
				}
				v, ok := s.value(state.Play(actions[idx]), depth-1, 1, math.Inf(-1), math.Inf(1))
				if !ok {
					return
				}
				scores[idx] = v
			}
		}()
	}
	wg.Wait()

	if s.aborted.Load() {
		return game.Action{}, 0, false
	}
	best, bestScore := 0, scores[0]
	for i, v := range scores {
		if v > bestScore {
			best, bestScore = i, v
		}
	}
	return actions[best], bestScore, true
}

// value is the minimax value of state searched depth more plies, seen from the
// root player. ok is false when the deadline interrupted the search.
func (s *search) value(state *game.GameState, depth, ply int, alpha, beta float64) (float64, bool) {
	if s.expired() {
		return 0, false
	}
	if state.IsOver() || depth == 0 {
		return s.leaf(state, ply), true
	}
	actions := state.LegalActions()
	if len(actions) == 0 {
		return s.leaf(state.Forfeit(), ply), true
	}
	orderActions(actions)
	s.metrics.AddNode(len(actions))

	maximizing := state.CurrentPlayer == s.root
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, a := range actions {
		v, ok := s.value(state.Play(a), depth-1, ply+1, alpha, beta)
		if !ok {
			return 0, false
		}
		if maximizing {
			best = max(best, v)
			alpha = max(alpha, best)
		} else {
			best = min(best, v)
			beta = min(beta, best)
		}
		if s.alphaBeta && alpha >= beta {
			break
		}
	}
	return best, true
}

// leaf evaluates for the root player. Decided games are nudged by ply so a
// quicker win outranks a slower one and a loss is put off as long as possible.
func (s *search) leaf(state *game.GameState, ply int) float64 {
	s.metrics.AddEvaluation(ply)
	score := s.evaluate(state, s.root)
	if state.IsOver() {
		if score > 0 {
			score -= float64(ply)
		} else if score < 0 {
			score += float64(ply)
		}
	}
	return score
}
