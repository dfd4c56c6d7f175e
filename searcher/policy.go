package searcher

import "math"

// Hyperparameters for MCTS

const DefaultExploration = 0.1 // Exploration constant C
const DefaultDecay = 0.9       // Reward discount per level of back-propagation

type uct struct {
	numerator float64
}

// newUCT prepares UCB1 for a parent with N visits. The exploration term is
// C*sqrt(2*ln(N)/n), folded into sqrt(2*C^2*ln(N)/n).
func newUCT(c float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: 2 * c * c * math.Log(N)}
}

// evaluate returns the UCB1 value of a child with total reward q over n
// visits. Unvisited children are always preferred.
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	// UCB1 = q/n + sqrt(2*C^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}
