package searcher

import (
	"slices"

	"wargame/game"
)

// actionPriority puts forcing actions first so alpha-beta bounds tighten early.
var actionPriority = map[game.ActionType]int{
	game.AttackAction:       0,
	game.SelfDestructAction: 1,
	game.RepairAction:       2,
	game.MoveAction:         3,
}

// orderActions sorts in place by priority. The sort is stable so generation
// order breaks ties, which keeps the tie-break rule deterministic.
func orderActions(actions []game.Action) []game.Action {
	slices.SortStableFunc(actions, func(a, b game.Action) int {
		return actionPriority[a.Type] - actionPriority[b.Type]
	})
	return actions
}
