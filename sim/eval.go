package sim

import (
	"outbreak/game"

	"golang.org/x/exp/rand"
)

// DefaultBatchSize is the number of actions grouped into one search branch.
const DefaultBatchSize = 3

// Evaluate scores a state from the perspective of the side due to act.
type Evaluate func(*State) float64

// EvaluateScoreMargin returns the acting side's score minus its opponent's.
func EvaluateScoreMargin(s *State) float64 {
	acting := s.ActingFaction()
	return float64(s.Score(acting) - s.Score(acting.Opponent()))
}

// Batcher partitions the enumerated actions of a sub-phase into the
// batches a search node explores. Every action lands in exactly one batch.
type Batcher interface {
	Batches(actions Actions) []Actions
}

// ChunkBatcher deals the actions into batches of at most Size actions with
// at most one action per character, in enumeration order. A character's
// n-th action goes into a batch of the n-th round, so every action can be
// reached by applying its batch.
type ChunkBatcher struct {
	Size int
}

func (b ChunkBatcher) Batches(actions Actions) []Actions {
	size := b.Size
	if size < 1 {
		size = DefaultBatchSize
	}

	var batches []Actions
	for _, moves := range deal(actions.Moves, size, func(m game.MoveAction) string { return m.CharacterID }) {
		batches = append(batches, Actions{Moves: moves})
	}
	for _, attacks := range deal(actions.Attacks, size, func(a game.AttackAction) string { return a.CharacterID }) {
		batches = append(batches, Actions{Attacks: attacks})
	}
	for _, abilities := range deal(actions.Abilities, size, func(a game.AbilityAction) string { return a.CharacterID }) {
		batches = append(batches, Actions{Abilities: abilities})
	}
	return batches
}

// ShuffledBatcher shuffles the actions with a seeded generator before
// dealing them, so batches mix destinations while staying reproducible.
type ShuffledBatcher struct {
	size int
	rng  *rand.Rand
}

func NewShuffledBatcher(size int, seed uint64) *ShuffledBatcher {
	return &ShuffledBatcher{size: size, rng: rand.New(rand.NewSource(seed))}
}

func (b *ShuffledBatcher) Batches(actions Actions) []Actions {
	shuffled := Actions{
		Moves:     shuffle(b.rng, actions.Moves),
		Attacks:   shuffle(b.rng, actions.Attacks),
		Abilities: shuffle(b.rng, actions.Abilities),
	}
	return ChunkBatcher{Size: b.size}.Batches(shuffled)
}

// ActionSet enumerates the current sub-phase and batches it. A finished
// state has no batches. A live state with nothing to do gets a single
// empty batch, so the search can still pass to the next sub-phase.
func ActionSet(s *State, batcher Batcher) []Actions {
	if s.IsFinished() {
		return nil
	}
	batches := batcher.Batches(s.Enumerate())
	if len(batches) == 0 {
		return []Actions{{}}
	}
	return batches
}

// deal groups items into rounds holding each character's n-th item, then
// cuts every round into chunks of size.
func deal[T any](items []T, size int, character func(T) string) [][]T {
	var rounds [][]T
	seen := make(map[string]int)
	for _, item := range items {
		id := character(item)
		round := seen[id]
		seen[id]++
		if round == len(rounds) {
			rounds = append(rounds, nil)
		}
		rounds[round] = append(rounds[round], item)
	}

	var chunks [][]T
	for _, round := range rounds {
		chunks = append(chunks, chunk(round, size)...)
	}
	return chunks
}

func chunk[T any](items []T, size int) [][]T {
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

func shuffle[T any](rng *rand.Rand, items []T) []T {
	shuffled := append([]T(nil), items...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
