package sim

import (
	"errors"
	"fmt"

	"outbreak/game"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrInvariant marks a transition that would break a state invariant.
	ErrInvariant = errors.New("simulation invariant violated")
	// ErrUnknownCharacter marks an action naming a character or target not in the state.
	ErrUnknownCharacter = errors.New("unknown character")
)

const scoreScale = 5

type Phase int

const (
	MovePhase Phase = iota
	AttackPhase
	AbilityPhase
)

func (p Phase) String() string {
	switch p {
	case MovePhase:
		return "MOVE"
	case AttackPhase:
		return "ATTACK"
	case AbilityPhase:
		return "ABILITY"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is a snapshot of the game used for search. Every transition
// returns a new State and leaves its receiver untouched, so siblings in a
// search tree never alias each other.
type State struct {
	turn       int
	phase      Phase
	characters map[string]Character
	order      []string // Sorted character ids, shared between clones
	terrain    map[game.Key]Terrain
	terrainIDs map[string]game.Key
}

// New builds a State from the authoritative game state and the tracked
// cooldown table. Characters missing from the table start with no cooldown.
func New(gs *game.GameState, cooldowns map[string]Cooldowns, phase Phase) (*State, error) {
	if gs == nil {
		return nil, fmt.Errorf("%w: nil game state", game.ErrInvalidState)
	}
	if err := gs.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		turn:       gs.Turn,
		phase:      phase,
		characters: make(map[string]Character, len(gs.Characters)),
		order:      make([]string, 0, len(gs.Characters)),
		terrain:    make(map[game.Key]Terrain, len(gs.Terrains)),
		terrainIDs: make(map[string]game.Key, len(gs.Terrains)),
	}
	for id, c := range gs.Characters {
		s.characters[id] = newCharacter(c, cooldowns[id])
		s.order = append(s.order, id)
	}
	slices.Sort(s.order)

	for id, t := range gs.Terrains {
		key := t.Position.Key()
		if other, ok := s.terrain[key]; ok {
			return nil, fmt.Errorf("%w: terrains %q and %q share tile %v", game.ErrInvalidState, other.ID, id, t.Position)
		}
		s.terrain[key] = newTerrain(t)
		s.terrainIDs[id] = key
	}
	return s, nil
}

// Clone returns a structural copy of the state.
func (s *State) Clone() *State {
	return &State{
		turn:       s.turn,
		phase:      s.phase,
		characters: maps.Clone(s.characters),
		order:      s.order,
		terrain:    maps.Clone(s.terrain),
		terrainIDs: maps.Clone(s.terrainIDs),
	}
}

func (s *State) Turn() int {
	return s.turn
}

func (s *State) Phase() Phase {
	return s.phase
}

// ActingFaction returns the side due to act in the current sub-phase.
func (s *State) ActingFaction() game.Faction {
	return game.ActingFaction(s.turn)
}

func (s *State) Character(id string) (Character, bool) {
	c, ok := s.characters[id]
	return c, ok
}

// Characters returns every character ordered by id.
func (s *State) Characters() []Character {
	characters := make([]Character, 0, len(s.order))
	for _, id := range s.order {
		characters = append(characters, s.characters[id])
	}
	return characters
}

// TerrainAt returns the terrain standing on a tile, destroyed or not.
func (s *State) TerrainAt(p game.Position) (Terrain, bool) {
	t, ok := s.terrain[p.Key()]
	return t, ok
}

func (s *State) Terrain(id string) (Terrain, bool) {
	key, ok := s.terrainIDs[id]
	if !ok {
		return Terrain{}, false
	}
	return s.terrain[key], true
}

// Cooldowns exports the tracked cooldowns of every character.
func (s *State) Cooldowns() map[string]Cooldowns {
	cooldowns := make(map[string]Cooldowns, len(s.characters))
	for id, c := range s.characters {
		cooldowns[id] = Cooldowns{Attack: c.AttackCooldownLeft, Ability: c.AbilityCooldownLeft}
	}
	return cooldowns
}

// Counts returns the number of humans and zombies.
func (s *State) Counts() (humans, zombies int) {
	for _, c := range s.characters {
		if c.IsZombie {
			zombies++
		} else {
			humans++
		}
	}
	return humans, zombies
}

// Stats returns the turn with the head counts of both sides.
func (s *State) Stats() (turn, humans, zombies int) {
	humans, zombies = s.Counts()
	return s.turn, humans, zombies
}

// IsFinished reports whether every human is gone or the turn limit is reached.
func (s *State) IsFinished() bool {
	humans, _ := s.Counts()
	return humans == 0 || s.turn >= game.Turns
}

// Scores returns the scores both sides would receive if the game ended now.
func (s *State) Scores() (humanScore, zombieScore int) {
	humans, zombies := s.Counts()
	infected := zombies - game.StartingZombies
	humanScore = s.turn + humans*scoreScale
	zombieScore = game.Turns - s.turn + infected*scoreScale
	return humanScore, zombieScore
}

// Score returns the score of one side if the game ended now.
func (s *State) Score(f game.Faction) int {
	humanScore, zombieScore := s.Scores()
	if f == game.Zombies {
		return zombieScore
	}
	return humanScore
}

// ToGameState converts the state back to the authoritative representation.
func (s *State) ToGameState() *game.GameState {
	gs := game.NewGameState(s.turn)
	for id, c := range s.characters {
		gs.Characters[id] = c.toGame()
	}
	for _, t := range s.terrain {
		gs.Terrains[t.ID] = t.toGame()
	}
	return gs
}

// Verify compares the state with an authoritative one and reports the first
// disagreement on turn, faction, class, health, or terrain.
func (s *State) Verify(gs *game.GameState) error {
	if gs.Turn != s.turn {
		return fmt.Errorf("turn %d, authoritative turn %d", s.turn, gs.Turn)
	}
	for id, want := range gs.Characters {
		got, ok := s.characters[id]
		if !ok {
			return fmt.Errorf("character %q: %w", id, ErrUnknownCharacter)
		}
		if got.IsZombie != want.IsZombie || got.Class != want.Class || got.Health != want.Health {
			return fmt.Errorf("character %q is %s/%s/%d, authoritative %s/%s/%d", id,
				got.Faction(), got.Class, got.Health, game.FactionOf(want.IsZombie), want.Class, want.Health)
		}
	}
	for id, want := range gs.Terrains {
		got, ok := s.Terrain(id)
		if !ok {
			return fmt.Errorf("terrain %q is missing", id)
		}
		if got.Health != want.Health || got.CanAttackThrough != want.CanAttackThrough {
			return fmt.Errorf("terrain %q has health %d, authoritative %d", id, got.Health, want.Health)
		}
	}
	return nil
}

// Advance applies one sub-phase worth of actions for the acting side and
// moves on to the next sub-phase: MOVE -> ATTACK -> ABILITY -> next turn,
// where zombies go from ATTACK straight to the next turn.
func (s *State) Advance(actions Actions) (*State, error) {
	next := s.Clone()
	var err error
	switch s.phase {
	case MovePhase:
		err = next.applyMove(actions.Moves)
	case AttackPhase:
		err = next.applyAttack(actions.Attacks)
	case AbilityPhase:
		err = next.applyAbility(actions.Abilities)
	default:
		err = fmt.Errorf("%w: unknown phase %v", ErrInvariant, s.phase)
	}
	if err != nil {
		return nil, err
	}
	next.phase, next.turn = nextPhase(s.phase, s.ActingFaction(), s.turn)
	return next, nil
}

func nextPhase(phase Phase, acting game.Faction, turn int) (Phase, int) {
	switch phase {
	case MovePhase:
		return AttackPhase, turn
	case AttackPhase:
		if acting == game.Zombies {
			return MovePhase, turn + 1
		}
		return AbilityPhase, turn
	default:
		return MovePhase, turn + 1
	}
}

// ApplyMove returns a copy of the state with the moves applied. The
// sub-phase does not change.
func (s *State) ApplyMove(moves []game.MoveAction) (*State, error) {
	return s.applyCopy(MovePhase, func(next *State) error { return next.applyMove(moves) })
}

// ApplyAttack returns a copy of the state with the attacks applied and the
// acting side's cooldowns decayed. The sub-phase does not change.
func (s *State) ApplyAttack(attacks []game.AttackAction) (*State, error) {
	return s.applyCopy(AttackPhase, func(next *State) error { return next.applyAttack(attacks) })
}

// ApplyAbility returns a copy of the state with the abilities applied. The
// sub-phase does not change.
func (s *State) ApplyAbility(abilities []game.AbilityAction) (*State, error) {
	return s.applyCopy(AbilityPhase, func(next *State) error { return next.applyAbility(abilities) })
}

func (s *State) applyCopy(phase Phase, apply func(*State) error) (*State, error) {
	if s.phase != phase {
		return nil, fmt.Errorf("%w: %v actions during the %v sub-phase", ErrInvariant, phase, s.phase)
	}
	next := s.Clone()
	if err := apply(next); err != nil {
		return nil, err
	}
	return next, nil
}

// actor looks up the character behind an action and checks it belongs to
// the acting side.
func (s *State) actor(id string) (Character, error) {
	c, ok := s.characters[id]
	if !ok {
		return Character{}, fmt.Errorf("actor %q: %w", id, ErrUnknownCharacter)
	}
	if c.Faction() != s.ActingFaction() {
		return Character{}, fmt.Errorf("%w: %s character %q acting on a %s turn", ErrInvariant, c.Faction(), id, s.ActingFaction())
	}
	return c, nil
}

// Characters act at most once per sub-phase; repeated actions are ignored,
// as are actions of characters that are stunned or cooling down.

func (s *State) applyMove(moves []game.MoveAction) error {
	acted := make(map[string]bool, len(moves))
	for _, move := range moves {
		c, err := s.actor(move.CharacterID)
		if err != nil {
			return err
		}
		if !move.Destination.InBounds() {
			return fmt.Errorf("%w: %q moving off the board to %v", ErrInvariant, c.ID, move.Destination)
		}
		if acted[c.ID] || !c.CanMove() {
			continue
		}
		acted[c.ID] = true
		c.Position = move.Destination
		s.characters[c.ID] = c
	}
	return nil
}

func (s *State) applyAttack(attacks []game.AttackAction) error {
	acted := make(map[string]bool, len(attacks))
	for _, attack := range attacks {
		attacker, err := s.actor(attack.CharacterID)
		if err != nil {
			return err
		}
		if acted[attacker.ID] || !attacker.CanAttack() {
			continue
		}
		acted[attacker.ID] = true

		switch attack.Type {
		case game.AttackCharacter:
			err = s.attackCharacter(attacker, attack.TargetID)
		case game.AttackTerrain:
			err = s.attackTerrain(attacker, attack.TargetID)
		default:
			err = fmt.Errorf("%w: unknown attack type %q", ErrInvariant, attack.Type)
		}
		if err != nil {
			return err
		}

		attacker = s.characters[attacker.ID]
		attacker.resetAttackCooldown()
		s.characters[attacker.ID] = attacker
	}

	s.decay()
	return nil
}

func (s *State) attackCharacter(attacker Character, targetID string) error {
	target, ok := s.characters[targetID]
	if !ok {
		return fmt.Errorf("target %q: %w", targetID, ErrUnknownCharacter)
	}
	if target.IsZombie == attacker.IsZombie {
		return fmt.Errorf("%w: %q attacking ally %q", ErrInvariant, attacker.ID, targetID)
	}
	if target.IsZombie {
		target.stun()
	} else {
		target.damage()
	}
	s.characters[targetID] = target
	return nil
}

func (s *State) attackTerrain(attacker Character, targetID string) error {
	key, ok := s.terrainIDs[targetID]
	if !ok {
		return fmt.Errorf("%w: unknown terrain %q", ErrInvariant, targetID)
	}
	terrain := s.terrain[key]
	if terrain.Type == game.River {
		return nil
	}
	if attacker.Ability == OneshotTerrain {
		terrain.Health = 0
	} else {
		terrain.damage()
	}
	s.terrain[key] = terrain
	return nil
}

// decay ticks down cooldowns and stun of the side whose timers run this
// turn. It runs at the end of the attack sub-phase.
func (s *State) decay() {
	for id, c := range s.characters {
		if !decaysOn(s.turn, c.Faction()) {
			continue
		}
		c.decay()
		s.characters[id] = c
	}
}

// decaysOn reports whether a side's timers tick on the given turn: only on
// that side's own turns.
func decaysOn(turn int, faction game.Faction) bool {
	return game.ActingFaction(turn) == faction
}

func (s *State) applyAbility(abilities []game.AbilityAction) error {
	acted := make(map[string]bool, len(abilities))
	for _, ability := range abilities {
		c, err := s.actor(ability.CharacterID)
		if err != nil {
			return err
		}
		if acted[c.ID] || !c.CanUseAbility() {
			continue
		}
		acted[c.ID] = true

		switch ability.Type {
		case game.Heal:
			err = s.heal(c, ability.CharacterTarget)
		case game.BuildBarricade:
			err = s.build(c, ability.PositionalTarget)
		default:
			err = fmt.Errorf("%w: unknown ability %q", ErrInvariant, ability.Type)
		}
		if err != nil {
			return err
		}

		c = s.characters[c.ID]
		c.resetAbilityCooldown()
		s.characters[c.ID] = c
	}
	return nil
}

func (s *State) heal(healer Character, targetID string) error {
	if healer.Ability != Heal {
		return fmt.Errorf("%w: %s %q cannot heal", ErrInvariant, healer.Class, healer.ID)
	}
	target, ok := s.characters[targetID]
	if !ok {
		return fmt.Errorf("heal target %q: %w", targetID, ErrUnknownCharacter)
	}
	if target.IsZombie {
		return fmt.Errorf("%w: %q healing zombie %q", ErrInvariant, healer.ID, targetID)
	}
	target.heal()
	s.characters[targetID] = target
	return nil
}

func (s *State) build(builder Character, p game.Position) error {
	if builder.Ability != BuildBarricade {
		return fmt.Errorf("%w: %s %q cannot build", ErrInvariant, builder.Class, builder.ID)
	}
	if !p.InBounds() {
		return fmt.Errorf("%w: barricade off the board at %v", ErrInvariant, p)
	}
	key := p.Key()
	if existing, ok := s.terrain[key]; ok {
		if !existing.IsDestroyed() {
			return fmt.Errorf("%w: barricade on standing terrain %q", ErrInvariant, existing.ID)
		}
		delete(s.terrainIDs, existing.ID)
	}
	barricade := newBarricade(p)
	s.terrain[key] = barricade
	s.terrainIDs[barricade.ID] = key
	return nil
}
