package game

import (
	"encoding/json"
	"fmt"
)

// Wire shapes use pointers so that a missing field can be told apart from
// its zero value.

type positionBlob struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type characterBlob struct {
	ID        *string       `json:"id"`
	Position  *positionBlob `json:"position"`
	IsZombie  *bool         `json:"isZombie"`
	Class     *string       `json:"class"`
	Health    *int          `json:"health"`
	IsStunned *bool         `json:"isStunned"`
}

type terrainBlob struct {
	ID               *string       `json:"id"`
	Position         *positionBlob `json:"position"`
	Health           *int          `json:"health"`
	CanAttackThrough *bool         `json:"canAttackThrough"`
	Type             *string       `json:"type"`
}

type gameStateBlob struct {
	Turn       *int                     `json:"turn"`
	Characters map[string]characterBlob `json:"characters"`
	Terrains   map[string]terrainBlob   `json:"terrains"`
}

// DecodeGameState parses and validates a game state sent by the
// authoritative game. It never returns a partially built state.
func DecodeGameState(data []byte) (*GameState, error) {
	var blob gameStateBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if blob.Turn == nil {
		return nil, missing("game state", "turn")
	}

	gs := NewGameState(*blob.Turn)
	for key, cb := range blob.Characters {
		c, err := cb.decode()
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", key, err)
		}
		gs.Characters[key] = c
	}
	for key, tb := range blob.Terrains {
		t, err := tb.decode()
		if err != nil {
			return nil, fmt.Errorf("terrain %q: %w", key, err)
		}
		gs.Terrains[key] = t
	}

	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return gs, nil
}

func (cb characterBlob) decode() (Character, error) {
	switch {
	case cb.ID == nil:
		return Character{}, missing("character", "id")
	case cb.IsZombie == nil:
		return Character{}, missing("character", "isZombie")
	case cb.Class == nil:
		return Character{}, missing("character", "class")
	case cb.Health == nil:
		return Character{}, missing("character", "health")
	case cb.IsStunned == nil:
		return Character{}, missing("character", "isStunned")
	}
	position, err := cb.Position.decode()
	if err != nil {
		return Character{}, err
	}
	return Character{
		ID:        *cb.ID,
		Position:  position,
		IsZombie:  *cb.IsZombie,
		Class:     CharacterClassType(*cb.Class),
		Health:    *cb.Health,
		IsStunned: *cb.IsStunned,
	}, nil
}

func (tb terrainBlob) decode() (Terrain, error) {
	switch {
	case tb.ID == nil:
		return Terrain{}, missing("terrain", "id")
	case tb.Health == nil:
		return Terrain{}, missing("terrain", "health")
	case tb.CanAttackThrough == nil:
		return Terrain{}, missing("terrain", "canAttackThrough")
	case tb.Type == nil:
		return Terrain{}, missing("terrain", "type")
	}
	position, err := tb.Position.decode()
	if err != nil {
		return Terrain{}, err
	}
	return Terrain{
		ID:               *tb.ID,
		Position:         position,
		Health:           *tb.Health,
		CanAttackThrough: *tb.CanAttackThrough,
		Type:             TerrainType(*tb.Type),
	}, nil
}

func (pb *positionBlob) decode() (Position, error) {
	if pb == nil {
		return Position{}, missing("entity", "position")
	}
	if pb.X == nil || pb.Y == nil {
		return Position{}, missing("position", "x/y")
	}
	return Position{X: *pb.X, Y: *pb.Y}, nil
}

func missing(entity, field string) error {
	return fmt.Errorf("%w: %s is missing %q", ErrInvalidState, entity, field)
}
