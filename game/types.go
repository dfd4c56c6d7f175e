package game

// Rules of the authoritative game that the simulation relies on
const (
	MaxHealth       = 10
	Turns           = 200
	StartingZombies = 5
)

type CharacterClassType string

const (
	Normal        CharacterClassType = "NORMAL"
	Zombie        CharacterClassType = "ZOMBIE"
	Marksman      CharacterClassType = "MARKSMAN"
	Traceur       CharacterClassType = "TRACEUR"
	Medic         CharacterClassType = "MEDIC"
	Builder       CharacterClassType = "BUILDER"
	Demolitionist CharacterClassType = "DEMOLITIONIST"
)

// CharacterClasses lists every class in declaration order.
var CharacterClasses = []CharacterClassType{Normal, Zombie, Marksman, Traceur, Medic, Builder, Demolitionist}

func (c CharacterClassType) Valid() bool {
	for _, class := range CharacterClasses {
		if c == class {
			return true
		}
	}
	return false
}

type TerrainType string

const (
	Wall      TerrainType = "WALL"
	Barricade TerrainType = "BARRICADE"
	Tree      TerrainType = "TREE"
	River     TerrainType = "RIVER"
)

func (t TerrainType) Valid() bool {
	switch t {
	case Wall, Barricade, Tree, River:
		return true
	}
	return false
}

// Faction is the side a character fights for.
type Faction int

const (
	Humans Faction = iota
	Zombies
)

func FactionOf(isZombie bool) Faction {
	if isZombie {
		return Zombies
	}
	return Humans
}

// ActingFaction returns the side due to act on the given turn. Zombies act
// on odd turns.
func ActingFaction(turn int) Faction {
	if turn%2 == 1 {
		return Zombies
	}
	return Humans
}

func (f Faction) Opponent() Faction {
	if f == Zombies {
		return Humans
	}
	return Zombies
}

func (f Faction) String() string {
	if f == Zombies {
		return "zombies"
	}
	return "humans"
}

// Character is the authoritative view of a character.
type Character struct {
	ID        string             `json:"id"`
	Position  Position           `json:"position"`
	IsZombie  bool               `json:"isZombie"`
	Class     CharacterClassType `json:"class"`
	Health    int                `json:"health"`
	IsStunned bool               `json:"isStunned"`
}

// Terrain is the authoritative view of a piece of terrain.
type Terrain struct {
	ID               string      `json:"id"`
	Position         Position    `json:"position"`
	Health           int         `json:"health"`
	CanAttackThrough bool        `json:"canAttackThrough"`
	Type             TerrainType `json:"type"`
}
