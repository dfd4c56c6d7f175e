package searcher

import (
	"time"

	"outbreak/experiments/metrics"
	"outbreak/sim"

	"github.com/rs/zerolog/log"
)

const DefaultDuration = 2 * time.Second

type Option func(mcts *MCTS)

type MCTS struct {
	duration    time.Duration
	episodes    int
	exploration float64
	decay       float64
	batcher     sim.Batcher
	evaluate    sim.Evaluate
	metrics     metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithEpisodes bounds the search by a number of rounds instead of time.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithDecay(eps float64) Option {
	return func(m *MCTS) {
		if eps > 0 && eps <= 1 {
			m.decay = eps
		}
	}
}

func WithBatcher(batcher sim.Batcher) Option {
	return func(m *MCTS) {
		if batcher != nil {
			m.batcher = batcher
		}
	}
}

func WithEvaluationFn(evaluate sim.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		duration:    DefaultDuration,
		exploration: DefaultExploration,
		decay:       DefaultDecay,
		batcher:     sim.ChunkBatcher{Size: sim.DefaultBatchSize},
		evaluate:    sim.EvaluateScoreMargin,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Simulate searches from the given state and returns the plan for the
// acting side's current turn. The tree is discarded afterwards. An error
// means a transition broke an invariant; no plan is returned then.
func (m *MCTS) Simulate(state *sim.State) (Plan, metrics.SearchMetric, error) {
	m.metrics.Start()
	root := newNode(nil, sim.Actions{}, state, m.batcher)
	m.metrics.AddNode(root.depth)

	var err error
	if m.episodes > 0 {
		err = m.iterate(root)
	} else {
		err = m.countdown(root)
	}
	m.metrics.SetExhausted(root.exhausted)
	metric := m.metrics.Complete()
	if err != nil {
		return Plan{}, metric, err
	}

	plan := extractPlan(root)
	log.Debug().Msgf("searched %d rounds for %s on turn %d, exhausted=%t, plan has %d actions",
		root.visits, root.faction, state.Turn(), root.exhausted, plan.Len())
	return plan, metric, nil
}

func (m *MCTS) iterate(root *node) error {
	for i := 0; i < m.episodes && !root.exhausted; i++ {
		if err := m.simulate(root); err != nil {
			return err
		}
	}
	return nil
}

// countdown runs rounds until the time budget elapses. The deadline is only
// checked between rounds.
func (m *MCTS) countdown(root *node) error {
	done := time.After(m.duration)
	for !root.exhausted {
		select {
		case <-done:
			return nil
		default:
			if err := m.simulate(root); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MCTS) simulate(root *node) error {
	leaf, err := selectThenExpand(root, m.exploration, m.batcher)
	if err != nil {
		return err
	}
	if leaf != root && leaf.visits == 0 { // Newly expanded
		m.metrics.AddNode(leaf.depth)
	}
	if leaf.isTerminal() {
		m.metrics.AddTerminal()
	}

	leaf.Backup(leaf.faction, m.evaluate(leaf.state), m.decay)
	m.metrics.AddEpisode()
	return nil
}
