package sim

import "outbreak/game"

// Actions holds one sub-phase worth of actions. Only the slice matching the
// sub-phase they are applied in is read.
type Actions struct {
	Moves     []game.MoveAction
	Attacks   []game.AttackAction
	Abilities []game.AbilityAction
}

func (a Actions) Len() int {
	return len(a.Moves) + len(a.Attacks) + len(a.Abilities)
}

// Enumerate lists the actions available to the acting side in the current
// sub-phase. Characters are visited in id order so the result is
// deterministic.
func (s *State) Enumerate() Actions {
	faction := s.ActingFaction()
	switch s.phase {
	case MovePhase:
		return Actions{Moves: s.moveActions(faction)}
	case AttackPhase:
		return Actions{Attacks: s.attackActions(faction)}
	case AbilityPhase:
		return Actions{Abilities: s.abilityActions(faction)}
	}
	return Actions{}
}

func (s *State) moveActions(faction game.Faction) []game.MoveAction {
	var moves []game.MoveAction
	for _, id := range s.order {
		c := s.characters[id]
		if c.Faction() != faction || !c.CanMove() {
			continue
		}
		for _, tile := range s.tilesInRange(c.Position, c.MoveSpeed, false, false, c.Ability == MoveOverBarricades) {
			moves = append(moves, game.MoveAction{CharacterID: id, Destination: tile})
		}
	}
	return moves
}

func (s *State) attackActions(faction game.Faction) []game.AttackAction {
	var attacks []game.AttackAction
	occupants := s.occupants()
	for _, id := range s.order {
		c := s.characters[id]
		if c.Faction() != faction || !c.CanAttack() {
			continue
		}
		for _, tile := range s.tilesInRange(c.Position, c.AttackRange, true, true, false) {
			for _, targetID := range occupants[tile.Key()] {
				if target := s.characters[targetID]; target.Faction() != faction {
					attacks = append(attacks, game.AttackAction{CharacterID: id, TargetID: targetID, Type: game.AttackCharacter})
				}
			}
			if terrain, ok := s.terrain[tile.Key()]; ok && terrain.IsDamageable() {
				attacks = append(attacks, game.AttackAction{CharacterID: id, TargetID: terrain.ID, Type: game.AttackTerrain})
			}
		}
	}
	return attacks
}

func (s *State) abilityActions(faction game.Faction) []game.AbilityAction {
	var abilities []game.AbilityAction
	occupants := s.occupants()
	for _, id := range s.order {
		c := s.characters[id]
		if c.Faction() != faction || !c.CanUseAbility() {
			continue
		}

		switch c.Ability {
		case Heal:
			for _, tile := range s.tilesInRange(c.Position, c.AttackRange, false, false, false) {
				for _, targetID := range occupants[tile.Key()] {
					if !s.characters[targetID].IsZombie {
						abilities = append(abilities, game.AbilityAction{CharacterID: id, CharacterTarget: targetID, Type: game.Heal})
					}
				}
			}
		case BuildBarricade:
			for _, tile := range s.tilesInRange(c.Position, c.AttackRange, false, false, false) {
				if t, ok := s.terrain[tile.Key()]; (ok && !t.IsDestroyed()) || len(occupants[tile.Key()]) > 0 {
					continue
				}
				abilities = append(abilities, game.AbilityAction{CharacterID: id, PositionalTarget: tile, Type: game.BuildBarricade})
			}
		}
	}
	return abilities
}

// occupants indexes character ids by tile, in id order.
func (s *State) occupants() map[game.Key][]string {
	occupants := make(map[game.Key][]string, len(s.order))
	for _, id := range s.order {
		key := s.characters[id].Position.Key()
		occupants[key] = append(occupants[key], id)
	}
	return occupants
}
