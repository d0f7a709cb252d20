// meta/meta.go
package meta

import "time"

// DIM defines the side length of the board.
const DIM = 5

// MAX_DEPTH defines the deepest ply iterative deepening will reach.
const MAX_DEPTH = 4

// MAX_TIME defines the search budget per computer move.
const MAX_TIME = 5 * time.Second

// MAX_TURNS defines the turn limit after which the Defender wins.
const MAX_TURNS = 100

// HEURISTIC defines the default evaluator (0, 1 or 2).
const HEURISTIC = 0

// ALPHA_BETA enables pruning by default.
const ALPHA_BETA = true

// GO_ROUTINES defines the number of root search workers.
const GO_ROUTINES = 1

// GAME_MODE defines the default player control mode.
const GAME_MODE = "manual"
