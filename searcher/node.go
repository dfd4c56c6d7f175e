package searcher

import (
	"math"

	"outbreak/game"
	"outbreak/sim"
)

// node owns one simulation state. Rewards are accumulated from the
// perspective of the side acting at this node.
type node struct {
	parent    *node
	state     *sim.State
	faction   game.Faction
	actions   sim.Actions // Batch applied to the parent's state to reach this node
	depth     int
	rewards   float64
	visits    int
	pending   []sim.Actions // Batches not yet expanded, in expansion order
	children  []*node
	exhausted bool // Every leaf below is terminal and already expanded
}

func newNode(parent *node, actions sim.Actions, state *sim.State, batcher sim.Batcher) *node {
	n := &node{
		parent:  parent,
		state:   state,
		faction: state.ActingFaction(),
		actions: actions,
		pending: sim.ActionSet(state, batcher),
	}
	if parent != nil {
		n.depth = parent.depth + 1
	}
	n.exhausted = n.isTerminal()
	return n
}

func (n *node) isTerminal() bool {
	return n.state.IsFinished()
}

func (n *node) isFullyExpanded() bool {
	return len(n.pending) == 0
}

// SelectOrExpand returns the child to descend into and whether the descent
// should continue from it. A node with pending batches expands one of them
// and stops the descent at the new child. A terminal node returns itself.
func (n *node) SelectOrExpand(c float64, batcher sim.Batcher) (*node, bool, error) {
	if n.isTerminal() {
		return n, false, nil
	}

	if !n.isFullyExpanded() { // Expandable node
		child, err := n.expand(batcher)
		return child, false, err
	}

	// Fully expanded node
	return n.children[n.pickChild(c)], true, nil
}

func (n *node) expand(batcher sim.Batcher) (*node, error) {
	actions := n.pending[0]
	n.pending = n.pending[1:]

	state, err := n.state.Advance(actions)
	if err != nil {
		return nil, err
	}
	child := newNode(n, actions, state, batcher)
	n.children = append(n.children, child)
	if child.exhausted {
		child.propagateExhausted()
	}
	return child, nil
}

func (n *node) propagateExhausted() {
	for ancestor := n.parent; ancestor != nil; ancestor = ancestor.parent {
		if !ancestor.isFullyExpanded() {
			return
		}
		for _, child := range ancestor.children {
			if !child.exhausted {
				return
			}
		}
		ancestor.exhausted = true
	}
}

// pickChild returns the index of the child maximising UCB1. Ties go to the
// first child found.
func (n *node) pickChild(c float64) int {
	if n.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(c, float64(n.visits))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range n.children {
		score := policy.evaluate(n.relative(child), float64(child.visits))
		if score == math.Inf(1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// bestChild returns the visited child with the highest mean reward, or nil
// when nothing has been visited.
func (n *node) bestChild() *node {
	var best *node
	bestMean := math.Inf(-1)
	for _, child := range n.children {
		if child.visits == 0 {
			continue
		}
		mean := n.relative(child) / float64(child.visits)
		if best == nil || mean > bestMean {
			best = child
			bestMean = mean
		}
	}
	return best
}

// relative returns a child's total reward as seen by this node's side,
// which minimizes opponent rewards.
func (n *node) relative(child *node) float64 {
	if child.faction != n.faction {
		return -child.rewards
	}
	return child.rewards
}

// Backup propagates a reward, scored for the given side, from this node up
// to the root. The reward shrinks by decay at every step.
func (n *node) Backup(faction game.Faction, reward float64, decay float64) {
	for node := n; node != nil; node = node.parent {
		if node.faction == faction {
			node.rewards += reward
		} else {
			node.rewards -= reward
		}
		node.visits++
		reward *= decay
	}
}

func selectThenExpand(root *node, c float64, batcher sim.Batcher) (*node, error) {
	child, selected, err := root.SelectOrExpand(c, batcher)
	for err == nil && selected {
		child, selected, err = child.SelectOrExpand(c, batcher)
	}
	return child, err
}
