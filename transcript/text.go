package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"wargame/game"
)

// TextRecorder writes a human-readable trace: the game parameters, every
// action with its effects and search statistics, the board after each turn,
// and the winner.
type TextRecorder struct {
	w      *bufio.Writer
	closer io.Closer
}

func NewTextRecorder(w io.Writer) *TextRecorder {
	return &TextRecorder{w: bufio.NewWriter(w)}
}

// TraceFileName names a trace after the settings that shape play.
func TraceFileName(info GameInfo) string {
	return fmt.Sprintf("gameTrace-%t-%g-%d.txt", info.AlphaBeta, info.MaxTime.Seconds(), info.MaxTurns)
}

// CreateTextFile creates the trace file for info in dir.
func CreateTextFile(dir string, info GameInfo) (*TextRecorder, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create transcript directory: %w", err)
	}
	path := filepath.Join(dir, TraceFileName(info))
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create transcript file: %w", err)
	}
	r := NewTextRecorder(f)
	r.closer = f
	return r, path, nil
}

func (r *TextRecorder) Start(info GameInfo) error {
	if info.MaxTime > 0 {
		fmt.Fprintf(r.w, "The value of the timeout is %g seconds.\n", info.MaxTime.Seconds())
	}
	fmt.Fprintf(r.w, "The max number of turns is %d.\n", info.MaxTurns)
	fmt.Fprintf(r.w, "The game type is %s.\n", info.Mode)
	// a game without a computer player has no search settings
	if info.MaxTime > 0 {
		fmt.Fprintf(r.w, "Alpha-beta is %s.\n", onOff(info.AlphaBeta))
		fmt.Fprintf(r.w, "The heuristic is h%d.\n", info.Heuristic)
	}
	if info.Initial != nil {
		fmt.Fprintf(r.w, "\n%v\n", info.Initial)
	}
	return r.w.Flush()
}

func (r *TextRecorder) Record(e Entry) error {
	if e.Forfeit {
		fmt.Fprintf(r.w, "Turn #%d: %v has no legal action and forfeits\n", e.Turn, e.Player)
		return r.w.Flush()
	}

	fmt.Fprintf(r.w, "Turn #%d: %v: %s\n", e.Turn, e.Player, e.Action.Describe())
	for _, ev := range e.Events {
		fmt.Fprintf(r.w, "  %v\n", ev)
	}
	if s := e.Search; s != nil {
		m := s.Metric
		fmt.Fprintf(r.w, "Heuristic score: %g\n", s.Score)
		fmt.Fprintf(r.w, "Search depth: %d\n", s.Depth)
		if s.Fallback {
			r.w.WriteString("Search ran out of time before depth 1; played the first legal action\n")
		}
		fmt.Fprintf(r.w, "Cumulative evals: %d\n", m.Evaluations)
		if m.Evaluations > 0 {
			perDepth := make([]string, 0, len(m.EvaluationsPerDepth))
			shares := make([]string, 0, len(m.EvaluationsPerDepth))
			for ply, n := range m.EvaluationsPerDepth {
				perDepth = append(perDepth, fmt.Sprintf("%d:%d", ply, n))
				shares = append(shares, fmt.Sprintf("%d:%.1f%%", ply, 100*float64(n)/float64(m.Evaluations)))
			}
			fmt.Fprintf(r.w, "Evals per depth: %s\n", strings.Join(perDepth, " "))
			fmt.Fprintf(r.w, "Cumulative %% evals by depth: %s\n", strings.Join(shares, " "))
			fmt.Fprintf(r.w, "Eval perf.: %.1fk/s\n", m.EvaluationRate()/1000)
			fmt.Fprintf(r.w, "Average branching factor: %.2f\n", m.BranchingFactor())
		}
		fmt.Fprintf(r.w, "Elapsed time: %.3fs\n", s.Elapsed.Seconds())
	}
	if e.Board != nil {
		fmt.Fprintf(r.w, "\n%v\n", e.Board)
	}
	return r.w.Flush()
}

func (r *TextRecorder) Finish(final *game.GameState) error {
	if winner, ok := final.Winner(); ok {
		fmt.Fprintf(r.w, "%v wins!\n", winner)
	} else {
		fmt.Fprintf(r.w, "Outcome: %v\n", final.Outcome)
	}
	fmt.Fprintf(r.w, "Game ended after %d turns\n", final.TurnsPlayed)
	return r.w.Flush()
}

func (r *TextRecorder) Close() error {
	if err := r.w.Flush(); err != nil {
		return err
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
