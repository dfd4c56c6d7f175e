package game

type AttackActionType string

const (
	AttackCharacter AttackActionType = "CHARACTER"
	AttackTerrain   AttackActionType = "TERRAIN"
)

type AbilityActionType string

const (
	Heal           AbilityActionType = "HEAL"
	BuildBarricade AbilityActionType = "BUILD_BARRICADE"
)

// MoveAction moves a character to a destination tile.
type MoveAction struct {
	CharacterID string   `json:"characterId"`
	Destination Position `json:"destination"`
}

// AttackAction attacks a character or a terrain by its id.
type AttackAction struct {
	CharacterID string           `json:"characterId"`
	TargetID    string           `json:"targetId"`
	Type        AttackActionType `json:"type"`
}

// AbilityAction uses an active ability. Heal targets CharacterTarget,
// BuildBarricade targets PositionalTarget.
type AbilityAction struct {
	CharacterID      string            `json:"characterId"`
	CharacterTarget  string            `json:"characterTarget,omitempty"`
	PositionalTarget Position          `json:"positionalTarget"`
	Type             AbilityActionType `json:"type"`
}
