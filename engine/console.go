package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"wargame/game"
)

// ConsoleSource reads actions typed as coordinate pairs, e.g. "A3 B2". The
// same cell twice self-destructs; the kind of action follows from the board.
type ConsoleSource struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsoleSource(in io.Reader, out io.Writer) *ConsoleSource {
	return &ConsoleSource{in: bufio.NewScanner(in), out: out}
}

func (c *ConsoleSource) NextAction(ctx context.Context, state *game.GameState, rejected error) (game.Action, error) {
	if rejected != nil {
		fmt.Fprintf(c.out, "The move is not valid: %v\n", rejected)
	} else {
		fmt.Fprintf(c.out, "\n%v\n", state)
	}
	for {
		if err := ctx.Err(); err != nil {
			return game.Action{}, err
		}
		fmt.Fprintf(c.out, "%v, enter your move: ", state.CurrentPlayer)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return game.Action{}, err
			}
			return game.Action{}, io.ErrUnexpectedEOF
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		a, err := state.ParseAction(line)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid coordinates: %v\n", err)
			continue
		}
		return a, nil
	}
}
