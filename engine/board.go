package engine

import (
	"errors"
	"fmt"

	"outbreak/game"
	"outbreak/sim"

	"golang.org/x/exp/rand"
)

// Humans spawn on the left edge of the board and zombies on the right.
// Terrain fills the columns in between.
const (
	spawnWidth   = 20
	spawnTiles   = spawnWidth * game.BoardSize
	terrainTiles = (game.BoardSize - 2*spawnWidth) * game.BoardSize
)

var ErrBoardFull = errors.New("board does not fit")

type Board struct {
	Humans  int
	Zombies int
	Walls   int
	Trees   int
	Rivers  int
}

var terrainTemplates = map[game.TerrainType]game.Terrain{
	game.Wall:  {Type: game.Wall, Health: 5, CanAttackThrough: false},
	game.Tree:  {Type: game.Tree, Health: 3, CanAttackThrough: true},
	game.River: {Type: game.River, Health: 1, CanAttackThrough: true},
}

// Validate checks every count is non-negative and fits its strip.
func (b Board) Validate() error {
	switch {
	case b.Humans < 0 || b.Zombies < 0 || b.Walls < 0 || b.Trees < 0 || b.Rivers < 0:
		return fmt.Errorf("%w: negative count in %+v", ErrBoardFull, b)
	case b.Humans > spawnTiles:
		return fmt.Errorf("%w: %d humans on %d spawn tiles", ErrBoardFull, b.Humans, spawnTiles)
	case b.Zombies > spawnTiles:
		return fmt.Errorf("%w: %d zombies on %d spawn tiles", ErrBoardFull, b.Zombies, spawnTiles)
	case b.Walls+b.Trees+b.Rivers > terrainTiles:
		return fmt.Errorf("%w: %d terrain on %d tiles", ErrBoardFull, b.Walls+b.Trees+b.Rivers, terrainTiles)
	}
	return nil
}

// CreateBoard lays out a starting state from a seed. classes is how many
// humans of each special class to field; the remaining humans are NORMAL.
func CreateBoard(b Board, classes map[game.CharacterClassType]int, seed uint64) (*game.GameState, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	gs := game.NewGameState(0)
	taken := make(map[game.Key]bool)

	// Counts are validated, so a free tile always exists
	place := func(minX, maxX int) game.Position {
		for {
			p := game.Position{X: minX + rng.Intn(maxX-minX), Y: rng.Intn(game.BoardSize)}
			if !taken[p.Key()] {
				taken[p.Key()] = true
				return p
			}
		}
	}

	for i, class := range humanClasses(b.Humans, classes) {
		id := fmt.Sprintf("h%d", i)
		gs.Characters[id] = game.Character{ID: id, Position: place(0, spawnWidth), Class: class, Health: classHealth(class)}
	}
	for i := 0; i < b.Zombies; i++ {
		id := fmt.Sprintf("z%d", i)
		gs.Characters[id] = game.Character{ID: id, Position: place(game.BoardSize-spawnWidth, game.BoardSize), IsZombie: true, Class: game.Zombie, Health: classHealth(game.Zombie)}
	}

	for _, kind := range []struct {
		terrain game.TerrainType
		count   int
	}{{game.Wall, b.Walls}, {game.Tree, b.Trees}, {game.River, b.Rivers}} {
		for i := 0; i < kind.count; i++ {
			t := terrainTemplates[kind.terrain]
			t.Position = place(spawnWidth, game.BoardSize-spawnWidth)
			t.ID = fmt.Sprintf("%s-%d", kind.terrain, i)
			gs.Terrains[t.ID] = t
		}
	}
	return gs, nil
}

// humanClasses expands the class counts in game.CharacterClasses order and
// pads with NORMAL humans.
func humanClasses(n int, classes map[game.CharacterClassType]int) []game.CharacterClassType {
	picked := make([]game.CharacterClassType, 0, n)
	for _, class := range game.CharacterClasses {
		if class == game.Zombie {
			continue
		}
		for i := 0; i < classes[class] && len(picked) < n; i++ {
			picked = append(picked, class)
		}
	}
	for len(picked) < n {
		picked = append(picked, game.Normal)
	}
	return picked
}

func classHealth(class game.CharacterClassType) int {
	stats, _ := sim.Stats(class)
	return stats.Health
}
