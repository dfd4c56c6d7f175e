package strategy

import (
	"outbreak/experiments/metrics"
	"outbreak/game"
	"outbreak/searcher"
	"outbreak/sim"

	"github.com/rs/zerolog/log"
)

type tracked struct {
	sim.Cooldowns
	zombie bool
}

// Context is what one side remembers between decision calls: the cooldown
// table across turns, and the plan of the current turn. The turn-loop
// driver owns one Context per side and passes it to every call.
type Context struct {
	cooldowns map[string]tracked
	turn      int
	plan      *searcher.Plan
	pending   *sim.State // Search root replayed with the actions handed out so far
	metrics   []metrics.MoveMetric
}

func NewContext() *Context {
	return &Context{cooldowns: make(map[string]tracked)}
}

// Cooldowns returns the tracked cooldowns of the characters in gs. A
// character seen for the first time, or since it turned, starts at zero.
func (c *Context) Cooldowns(gs *game.GameState) map[string]sim.Cooldowns {
	cooldowns := make(map[string]sim.Cooldowns, len(gs.Characters))
	for id, character := range gs.Characters {
		t, ok := c.cooldowns[id]
		if !ok || t.zombie != character.IsZombie {
			cooldowns[id] = sim.Cooldowns{}
			continue
		}
		cooldowns[id] = t.Cooldowns
	}
	return cooldowns
}

// MoveMetrics returns one record per search run with this context.
func (c *Context) MoveMetrics() []metrics.MoveMetric {
	return c.metrics
}

// Plan returns the cached plan if it was made for the given turn.
func (c *Context) Plan(turn int) (searcher.Plan, bool) {
	if c.plan == nil || c.turn != turn {
		return searcher.Plan{}, false
	}
	return *c.plan, true
}

func (c *Context) start(root *sim.State, plan searcher.Plan, metric metrics.SearchMetric) {
	c.turn = root.Turn()
	c.plan = &plan
	c.pending = root
	c.metrics = append(c.metrics, metrics.MoveMetric{
		Turn:         root.Turn(),
		Faction:      root.ActingFaction().String(),
		SearchMetric: metric,
	})
}

// advance replays the actions handed out for the current sub-phase. Once
// the side's turn is over the resulting cooldowns become the tracked ones.
func (c *Context) advance(actions sim.Actions) {
	if c.pending == nil {
		return
	}
	next, err := c.pending.Advance(actions)
	if err != nil {
		log.Warn().Err(err).Msgf("stopped tracking cooldowns on turn %d", c.turn)
		c.pending = nil
		return
	}
	if next.Turn() == c.turn {
		c.pending = next
		return
	}

	for _, character := range next.Characters() {
		c.cooldowns[character.ID] = tracked{
			Cooldowns: sim.Cooldowns{Attack: character.AttackCooldownLeft, Ability: character.AbilityCooldownLeft},
			zombie:    character.IsZombie,
		}
	}
	c.pending = nil
}

// rewind forgets the cooldown table when the turn goes back, which means a
// new match started with the same context.
func (c *Context) rewind(turn int) {
	if turn < c.turn {
		c.cooldowns = make(map[string]tracked)
		c.turn = turn
	}
}

// reset drops the plan of the current turn.
func (c *Context) reset() {
	c.plan = nil
	c.pending = nil
}
