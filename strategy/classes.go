package strategy

import "outbreak/game"

var DefaultClasses = map[game.CharacterClassType]int{
	game.Marksman:      5,
	game.Medic:         5,
	game.Traceur:       5,
	game.Demolitionist: 1,
}

// pickClasses clips the preferred counts to the offered classes, the per
// class cap and the total to pick. Classes are considered in
// game.CharacterClasses order.
func pickClasses(preferred map[game.CharacterClassType]int, possible []game.CharacterClassType, numToPick, maxPerClass int) map[game.CharacterClassType]int {
	offered := make(map[game.CharacterClassType]bool, len(possible))
	for _, class := range possible {
		offered[class] = true
	}

	picked := make(map[game.CharacterClassType]int)
	remaining := numToPick
	for _, class := range game.CharacterClasses {
		if remaining <= 0 {
			break
		}
		if !offered[class] {
			continue
		}
		n := min(preferred[class], maxPerClass, remaining)
		if n <= 0 {
			continue
		}
		picked[class] = n
		remaining -= n
	}
	return picked
}
