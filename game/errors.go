package game

import (
	"errors"
	"fmt"
)

// Reasons an action can be illegal. IllegalActionError unwraps to one of these.
var (
	ErrGameOver       = errors.New("game is over - no actions allowed")
	ErrOutOfBounds    = errors.New("coordinate out of bounds")
	ErrNoUnit         = errors.New("no unit at source")
	ErrNotOwner       = errors.New("source unit belongs to the opponent")
	ErrNotAdjacent    = errors.New("target is not orthogonally adjacent")
	ErrOccupied       = errors.New("destination is occupied")
	ErrEngaged        = errors.New("unit is engaged in combat and cannot move")
	ErrWrongDirection = errors.New("unit cannot move in that direction")
	ErrNoTarget       = errors.New("no unit at target")
	ErrFriendlyTarget = errors.New("cannot attack a friendly unit")
	ErrEnemyTarget    = errors.New("cannot repair an enemy unit")
	ErrFullHealth     = errors.New("target is already at full health")
	ErrNoRepair       = errors.New("unit cannot repair that target")
	ErrMalformed      = errors.New("malformed action")
)

// IllegalActionError is returned when an action fails a rules precondition.
// The state it was checked against is unchanged.
type IllegalActionError struct {
	Action Action
	Reason error
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal %v: %v", e.Action.Describe(), e.Reason)
}

func (e *IllegalActionError) Unwrap() error {
	return e.Reason
}

func illegal(a Action, reason error) error {
	return &IllegalActionError{Action: a, Reason: reason}
}

// PreconditionError is the panic value raised when Play is handed an action
// that does not pass validation. It signals a programming error.
type PreconditionError struct {
	Action Action
	Err    error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition violated: resolving unvalidated action %v: %v", e.Action, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
