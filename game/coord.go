package game

import (
	"fmt"
	"strings"
)

const (
	rowLabels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	colLabels = "0123456789abcdef"
)

// MaxDim is the largest board that coordinates can be written for.
const MaxDim = len(colLabels)

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	if c.Row < 0 || c.Row >= len(rowLabels) || c.Col < 0 || c.Col >= len(colLabels) {
		return "??"
	}
	return string(rowLabels[c.Row]) + string(colLabels[c.Col])
}

// Adjacent returns the orthogonal neighbours in the order up, left, down, right.
// Neighbours may be out of bounds.
func (c Coord) Adjacent() [4]Coord {
	return [4]Coord{
		{c.Row - 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row + 1, c.Col},
		{c.Row, c.Col + 1},
	}
}

// Surrounding returns the 8-neighbourhood in row-major order.
func (c Coord) Surrounding() [8]Coord {
	return [8]Coord{
		{c.Row - 1, c.Col - 1}, {c.Row - 1, c.Col}, {c.Row - 1, c.Col + 1},
		{c.Row, c.Col - 1}, {c.Row, c.Col + 1},
		{c.Row + 1, c.Col - 1}, {c.Row + 1, c.Col}, {c.Row + 1, c.Col + 1},
	}
}

// Distance is the manhattan distance between two coordinates.
func (c Coord) Distance(o Coord) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

func (c Coord) IsAdjacent(o Coord) bool {
	return c.Distance(o) == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ParseCoord reads a coordinate such as "D2" or "d2".
func ParseCoord(s string) (Coord, error) {
	s = stripSeparators(s)
	if len(s) != 2 {
		return Coord{}, fmt.Errorf("invalid coordinate %q", s)
	}
	return parseCoord(s)
}

// ParseCoordPair reads a source and destination such as "A3 B2". Any of the
// separators " ,.:;-_" may be used, or none at all.
func ParseCoordPair(s string) (src, dst Coord, err error) {
	stripped := stripSeparators(s)
	if len(stripped) != 4 {
		return Coord{}, Coord{}, fmt.Errorf("invalid coordinate pair %q", s)
	}
	if src, err = parseCoord(stripped[:2]); err != nil {
		return Coord{}, Coord{}, err
	}
	if dst, err = parseCoord(stripped[2:]); err != nil {
		return Coord{}, Coord{}, err
	}
	return src, dst, nil
}

func parseCoord(s string) (Coord, error) {
	row := strings.IndexByte(rowLabels, strings.ToUpper(s[:1])[0])
	col := strings.IndexByte(colLabels, strings.ToLower(s[1:2])[0])
	if row < 0 || col < 0 {
		return Coord{}, fmt.Errorf("invalid coordinate %q", s)
	}
	return Coord{Row: row, Col: col}, nil
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(" ,.:;-_", r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
