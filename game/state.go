package game

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
)

// ErrInvalidState marks malformed authoritative input.
var ErrInvalidState = errors.New("invalid game state")

// GameState is the canonical state presented by the authoritative game at
// the start of each decision call.
type GameState struct {
	Turn       int                  `json:"turn"`
	Characters map[string]Character `json:"characters"`
	Terrains   map[string]Terrain   `json:"terrains"`
}

// NewGameState returns an empty state at the given turn.
func NewGameState(turn int) *GameState {
	return &GameState{
		Turn:       turn,
		Characters: make(map[string]Character),
		Terrains:   make(map[string]Terrain),
	}
}

// Copy of the GameState. Characters and terrain are values so copying the maps is enough.
func (gs *GameState) Copy() *GameState {
	return &GameState{
		Turn:       gs.Turn,
		Characters: maps.Clone(gs.Characters),
		Terrains:   maps.Clone(gs.Terrains),
	}
}

// Validate checks the invariants every derived structure relies on.
func (gs *GameState) Validate() error {
	if gs.Turn < 0 {
		return fmt.Errorf("%w: negative turn %d", ErrInvalidState, gs.Turn)
	}
	for id, c := range gs.Characters {
		if err := c.validate(id); err != nil {
			return err
		}
	}
	for id, t := range gs.Terrains {
		if err := t.validate(id); err != nil {
			return err
		}
	}
	return nil
}

func (c Character) validate(key string) error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: character with empty id", ErrInvalidState)
	case c.ID != key:
		return fmt.Errorf("%w: character %q stored under %q", ErrInvalidState, c.ID, key)
	case !c.Class.Valid():
		return fmt.Errorf("%w: character %q has unknown class %q", ErrInvalidState, c.ID, c.Class)
	case c.Health < 0 || c.Health > MaxHealth:
		return fmt.Errorf("%w: character %q health %d outside [0, %d]", ErrInvalidState, c.ID, c.Health, MaxHealth)
	case !c.Position.InBounds():
		return fmt.Errorf("%w: character %q at %v is off the board", ErrInvalidState, c.ID, c.Position)
	}
	return nil
}

func (t Terrain) validate(key string) error {
	switch {
	case t.ID == "":
		return fmt.Errorf("%w: terrain with empty id", ErrInvalidState)
	case t.ID != key:
		return fmt.Errorf("%w: terrain %q stored under %q", ErrInvalidState, t.ID, key)
	case !t.Type.Valid():
		return fmt.Errorf("%w: terrain %q has unknown type %q", ErrInvalidState, t.ID, t.Type)
	case t.Health < 0:
		return fmt.Errorf("%w: terrain %q has negative health %d", ErrInvalidState, t.ID, t.Health)
	case !t.Position.InBounds():
		return fmt.Errorf("%w: terrain %q at %v is off the board", ErrInvalidState, t.ID, t.Position)
	}
	return nil
}

// Counts returns the number of humans and zombies.
func (gs *GameState) Counts() (humans, zombies int) {
	for _, c := range gs.Characters {
		if c.IsZombie {
			zombies++
		} else {
			humans++
		}
	}
	return humans, zombies
}
