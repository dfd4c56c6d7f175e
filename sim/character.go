package sim

import "outbreak/game"

// Character is the simulation's mutable projection of a game.Character.
// States hold characters by value, so copying a map of them is a deep copy.
type Character struct {
	ID          string
	Position    game.Position
	IsZombie    bool
	Class       game.CharacterClassType
	Health      int
	MoveSpeed   int
	AttackRange int
	Ability     AbilityType

	attackCooldown      int
	StunLeft            int
	AttackCooldownLeft  int
	AbilityCooldownLeft int
}

// Cooldowns is the externally tracked part of a character: turns left
// before it may attack or use its ability again.
type Cooldowns struct {
	Attack  int
	Ability int
}

func newCharacter(c game.Character, cooldowns Cooldowns) Character {
	stats := classStats[c.Class]
	character := Character{
		ID:                  c.ID,
		Position:            c.Position,
		IsZombie:            c.IsZombie,
		Class:               c.Class,
		Health:              c.Health,
		MoveSpeed:           stats.MoveSpeed,
		AttackRange:         stats.AttackRange,
		Ability:             stats.Ability,
		attackCooldown:      stats.AttackCooldown,
		AttackCooldownLeft:  max(cooldowns.Attack, 0),
		AbilityCooldownLeft: max(cooldowns.Ability, 0),
	}
	if c.IsStunned {
		character.StunLeft = StunnedDuration
	}
	return character
}

func (c Character) Faction() game.Faction {
	return game.FactionOf(c.IsZombie)
}

func (c Character) IsDestroyed() bool {
	return c.Health == 0
}

func (c Character) IsStunned() bool {
	return c.StunLeft > 0
}

func (c Character) CanMove() bool {
	return !c.IsStunned()
}

func (c Character) CanAttack() bool {
	return c.AttackCooldownLeft == 0 && !c.IsStunned()
}

func (c Character) CanUseAbility() bool {
	return c.AbilityCooldownLeft == 0 && !c.IsStunned()
}

// damage removes one health point. A human reduced to zero turns into a
// zombie on the spot.
func (c *Character) damage() {
	if c.Health > 0 {
		c.Health--
	}
	if c.IsDestroyed() && !c.IsZombie {
		c.makeZombie()
	}
}

func (c *Character) heal() {
	c.Health = min(c.Health+1, game.MaxHealth)
}

// stun lands on the other side, whose timers do not decay in this attack
// step, so it needs no slack.
func (c *Character) stun() {
	c.StunLeft = StunnedDuration
}

func (c *Character) resetAttackCooldown() {
	c.AttackCooldownLeft = c.attackCooldown + resetSlack
}

func (c *Character) resetAbilityCooldown() {
	c.AbilityCooldownLeft = AbilityCooldown + resetSlack
}

func (c *Character) decay() {
	c.AttackCooldownLeft = max(c.AttackCooldownLeft-1, 0)
	c.AbilityCooldownLeft = max(c.AbilityCooldownLeft-1, 0)
	c.StunLeft = max(c.StunLeft-1, 0)
}

func (c *Character) makeZombie() {
	stats := classStats[game.Zombie]
	c.IsZombie = true
	c.Class = game.Zombie
	c.MoveSpeed = stats.MoveSpeed
	c.AttackRange = stats.AttackRange
	c.Ability = NoAbility
	c.attackCooldown = stats.AttackCooldown
}

func (c Character) toGame() game.Character {
	return game.Character{
		ID:        c.ID,
		Position:  c.Position,
		IsZombie:  c.IsZombie,
		Class:     c.Class,
		Health:    c.Health,
		IsStunned: c.IsStunned(),
	}
}

// Terrain is the simulation's projection of a game.Terrain. Destroyed
// terrain stays in the state but no longer blocks.
type Terrain struct {
	ID               string
	Position         game.Position
	Health           int
	CanAttackThrough bool
	Type             game.TerrainType
}

func newTerrain(t game.Terrain) Terrain {
	return Terrain{
		ID:               t.ID,
		Position:         t.Position,
		Health:           t.Health,
		CanAttackThrough: t.CanAttackThrough,
		Type:             t.Type,
	}
}

func newBarricade(p game.Position) Terrain {
	return Terrain{
		ID:               p.String(),
		Position:         p,
		Health:           1,
		CanAttackThrough: true,
		Type:             game.Barricade,
	}
}

func (t *Terrain) IsDestroyed() bool {
	return t.Health == 0
}

// IsDamageable reports whether an attack can still lower the terrain's health.
func (t *Terrain) IsDamageable() bool {
	return t.Type != game.River && t.Health > 0
}

func (t *Terrain) damage() {
	if t.Health > 0 {
		t.Health--
	}
}

func (t *Terrain) toGame() game.Terrain {
	return game.Terrain{
		ID:               t.ID,
		Position:         t.Position,
		Health:           t.Health,
		CanAttackThrough: t.CanAttackThrough,
		Type:             t.Type,
	}
}
