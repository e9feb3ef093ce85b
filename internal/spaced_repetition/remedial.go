package spaced_repetition

import "github.com/example/flashdrill/pkg/models"

// NeedsPractice reports whether an item belongs in the remedial set: it was
// never attempted, it is not mastered yet, or its last answer was incorrect.
func NeedsPractice(store models.ProgressStore, itemID string) bool {
	p, ok := store.Lookup(itemID)
	if !ok {
		return true
	}
	return !p.Mastered() || p.LastAttemptCorrect == models.OutcomeIncorrect
}

// BuildRemedialSet returns the IDs of catalog items that need practice, in
// catalog order. Shuffling is left to the caller.
func BuildRemedialSet(items []models.Item, store models.ProgressStore) []string {
	return ShrinkRemedialSet(models.ItemIDs(items), store)
}

// ShrinkRemedialSet re-applies NeedsPractice to the current candidates after
// an update. An empty result means the practice session is complete.
func ShrinkRemedialSet(candidates []string, store models.ProgressStore) []string {
	remaining := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if NeedsPractice(store, id) {
			remaining = append(remaining, id)
		}
	}
	return remaining
}
