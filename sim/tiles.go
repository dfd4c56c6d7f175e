package sim

import "outbreak/game"

// canTraverseThrough reports whether movement or an attack may pass a tile.
// Off-board tiles never pass. Standing terrain blocks unless it is a
// barricade being ignored, or the query is an attack and the terrain can
// be attacked through.
func (s *State) canTraverseThrough(p game.Position, isAttack, ignoreBarricades bool) bool {
	if !p.InBounds() {
		return false
	}

	blocking, ok := s.terrain[p.Key()]
	if !ok || blocking.IsDestroyed() {
		return true
	}
	if ignoreBarricades && blocking.Type == game.Barricade {
		return true
	}
	return isAttack && blocking.CanAttackThrough
}

// tilesInRange flood fills from start up to radius steps, in breadth-first
// order so every tile is reached by a shortest path. For movement every
// tile on the path must be traversable. For attacks a blocking tile is
// still reached, as a target, but the fill does not continue past it.
func (s *State) tilesInRange(start game.Position, radius int, diagonal, isAttack, ignoreBarricades bool) []game.Position {
	if radius < 0 {
		return nil
	}

	directions := game.Directions
	if diagonal {
		directions = append(append([]game.Position{}, game.DiagonalDirections...), game.Directions...)
	}

	visited := map[game.Key]bool{start.Key(): true}
	tiles := []game.Position{start}
	frontier := []game.Position{start}
	for depth := 0; depth < radius && len(frontier) > 0; depth++ {
		var next []game.Position
		for _, p := range frontier {
			if !s.canTraverseThrough(p, isAttack, ignoreBarricades) {
				continue
			}
			for _, d := range directions {
				q := p.Add(d)
				if !q.InBounds() || visited[q.Key()] {
					continue
				}
				if !isAttack && !s.canTraverseThrough(q, false, ignoreBarricades) {
					continue
				}
				visited[q.Key()] = true
				tiles = append(tiles, q)
				next = append(next, q)
			}
		}
		frontier = next
	}
	return tiles
}
