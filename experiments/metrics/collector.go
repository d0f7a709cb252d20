package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one move search.
type SearchMetric struct {
	Goroutines          int
	Duration            time.Duration
	MaxDepth            int
	CompletedDepth      int
	AlphaBeta           bool
	Nodes               int64 // interior nodes expanded
	Branches            int64 // children generated across all expanded nodes
	Evaluations         int64
	EvaluationsPerDepth []int64 // indexed by ply
	Fallback            bool
}

// BranchingFactor is the mean number of children per expanded node.
func (m SearchMetric) BranchingFactor() float64 {
	if m.Nodes == 0 {
		return 0
	}
	return float64(m.Branches) / float64(m.Nodes)
}

// EvaluationRate is heuristic evaluations per second.
func (m SearchMetric) EvaluationRate() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Evaluations) / m.Duration.Seconds()
}

type MoveMetric struct {
	Step   int
	Player string
	Score  float64
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers search statistics. Implementations are safe for the
// concurrent use of root search workers.
type Collector interface {
	Start(goroutines, maxDepth int, alphaBeta bool)
	AddNode(branches int)
	AddEvaluation(ply int)
	Complete(depth int, fallback bool) SearchMetric
}

type collector struct {
	goroutines  int
	maxDepth    int
	alphaBeta   bool
	startTime   time.Time
	nodes       atomic.Int64
	branches    atomic.Int64
	evaluations []atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, maxDepth int, alphaBeta bool) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.maxDepth = maxDepth
	m.alphaBeta = alphaBeta
	m.nodes.Store(0)
	m.branches.Store(0)
	m.evaluations = make([]atomic.Int64, maxDepth+1)
}

func (m *collector) AddNode(branches int) {
	m.nodes.Add(1)
	m.branches.Add(int64(branches))
}

func (m *collector) AddEvaluation(ply int) {
	if ply >= 0 && ply < len(m.evaluations) {
		m.evaluations[ply].Add(1)
	}
}

func (m *collector) Complete(depth int, fallback bool) SearchMetric {
	perDepth := make([]int64, len(m.evaluations))
	var total int64
	for i := range m.evaluations {
		perDepth[i] = m.evaluations[i].Load()
		total += perDepth[i]
	}
	return SearchMetric{
		Goroutines:          m.goroutines,
		Duration:            time.Since(m.startTime),
		MaxDepth:            m.maxDepth,
		CompletedDepth:      depth,
		AlphaBeta:           m.alphaBeta,
		Nodes:               m.nodes.Load(),
		Branches:            m.branches.Load(),
		Evaluations:         total,
		EvaluationsPerDepth: perDepth,
		Fallback:            fallback,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, maxDepth int, alphaBeta bool) {}
func (m *dummyCollector) AddNode(branches int)                          {}
func (m *dummyCollector) AddEvaluation(ply int)                         {}
func (m *dummyCollector) Complete(depth int, fallback bool) SearchMetric {
	return SearchMetric{CompletedDepth: depth, Fallback: fallback}
}
