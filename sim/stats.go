package sim

import "outbreak/game"

const (
	AbilityCooldown = 6
	StunnedDuration = 1
	// Cooldown resets store one more than the nominal value because the
	// decay of the acting side runs in the same attack step.
	resetSlack = 1
)

// AbilityType is the special ability granted by a character class.
type AbilityType int

const (
	NoAbility AbilityType = iota
	BuildBarricade
	Heal
	MoveOverBarricades
	OneshotTerrain
)

func (a AbilityType) String() string {
	switch a {
	case BuildBarricade:
		return "BUILD_BARRICADE"
	case Heal:
		return "HEAL"
	case MoveOverBarricades:
		return "MOVE_OVER_BARRICADES"
	case OneshotTerrain:
		return "ONESHOT_TERRAIN"
	}
	return "NONE"
}

// ClassStats are the static attributes of a character class.
type ClassStats struct {
	Health         int
	MoveSpeed      int
	AttackRange    int
	AttackCooldown int
	Ability        AbilityType
}

var classStats = map[game.CharacterClassType]ClassStats{
	game.Normal:        {Health: 1, MoveSpeed: 3, AttackRange: 4, AttackCooldown: 8},
	game.Zombie:        {Health: 1, MoveSpeed: 5, AttackRange: 1, AttackCooldown: 0},
	game.Marksman:      {Health: 1, MoveSpeed: 3, AttackRange: 4, AttackCooldown: 8},
	game.Traceur:       {Health: 1, MoveSpeed: 4, AttackRange: 2, AttackCooldown: 4, Ability: MoveOverBarricades},
	game.Medic:         {Health: 2, MoveSpeed: 3, AttackRange: 3, AttackCooldown: 6, Ability: Heal},
	game.Builder:       {Health: 1, MoveSpeed: 3, AttackRange: 4, AttackCooldown: 6, Ability: BuildBarricade},
	game.Demolitionist: {Health: 1, MoveSpeed: 3, AttackRange: 2, AttackCooldown: 6, Ability: OneshotTerrain},
}

// Stats returns the static attributes of a class. Unknown classes yield
// the zero value and false.
func Stats(class game.CharacterClassType) (ClassStats, bool) {
	stats, ok := classStats[class]
	return stats, ok
}
