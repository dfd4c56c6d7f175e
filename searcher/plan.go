package searcher

import (
	"outbreak/game"
	"outbreak/sim"
)

// Plan is the action list chosen for each sub-phase of the acting side's
// current turn. Zombies never get abilities.
type Plan struct {
	Moves     []game.MoveAction
	Attacks   []game.AttackAction
	Abilities []game.AbilityAction
}

func (p Plan) Len() int {
	return len(p.Moves) + len(p.Attacks) + len(p.Abilities)
}

// extractPlan follows the best child by mean reward from the root until the
// turn passes to the other side or the tree runs out.
func extractPlan(root *node) Plan {
	var plan Plan
	for node := root; node.state.Turn() == root.state.Turn(); {
		child := node.bestChild()
		if child == nil {
			break
		}
		switch node.state.Phase() {
		case sim.MovePhase:
			plan.Moves = child.actions.Moves
		case sim.AttackPhase:
			plan.Attacks = child.actions.Attacks
		case sim.AbilityPhase:
			plan.Abilities = child.actions.Abilities
		}
		node = child
	}
	return plan
}
