package communication

import (
	"encoding/json"

	"outbreak/game"
)

// Routes served by an agent. Every route takes a POST with a JSON body.
const (
	ClassesRoute   = "/classes"
	MovesRoute     = "/moves"
	AttacksRoute   = "/attacks"
	AbilitiesRoute = "/abilities"
)

type ClassesRequest struct {
	Possible    []game.CharacterClassType `json:"possible"`
	NumToPick   int                       `json:"numToPick"`
	MaxPerClass int                       `json:"maxPerClass"`
}

// DecisionRequest carries one decision call. The game state is kept raw so
// the agent can validate it before building anything from it.
type DecisionRequest[T any] struct {
	Possible  map[string][]T  `json:"possible"`
	GameState json.RawMessage `json:"gameState"`
}
