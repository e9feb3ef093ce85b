package drill

import "math/rand"

// Shuffler permutes item IDs in place
type Shuffler func(ids []string)

// defaultShuffler uses the global math/rand source, which is seeded randomly
func defaultShuffler(ids []string) {
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// shuffled returns a shuffled copy of ids
func (sh Shuffler) shuffled(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sh(out)
	return out
}
