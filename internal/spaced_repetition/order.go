package spaced_repetition

import (
	"sort"
	"time"

	"github.com/example/flashdrill/pkg/models"
)

// OrderForSession returns item IDs in the order a standard drill session
// presents them. Priority:
//  1. Items whose last answer was incorrect
//  2. Items that are due (next review at or before now)
//  3. Among due items, the most overdue
//  4. Items with the lower ease factor (harder items)
//
// Remaining ties keep the catalog order.
func OrderForSession(items []models.Item, store models.ProgressStore, now time.Time) []string {
	nowMillis := now.UnixMilli()

	type candidate struct {
		id         string
		missed     bool
		nextReview int64
		due        bool
		ease       float64
	}

	candidates := make([]candidate, len(items))
	for i, item := range items {
		p := store.Get(item.ID)
		next := NextReview(p)
		candidates[i] = candidate{
			id:         item.ID,
			missed:     p.LastAttemptCorrect == models.OutcomeIncorrect,
			nextReview: next,
			due:        next <= nowMillis,
			ease:       p.EaseFactor,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		// First priority: items answered incorrectly last time
		if a.missed != b.missed {
			return a.missed
		}

		// Second priority: items that are due
		if a.due != b.due {
			return a.due
		}

		// Third priority: items that are more overdue
		if a.due && a.nextReview != b.nextReview {
			return a.nextReview < b.nextReview
		}

		// Fourth priority: harder items
		return a.ease < b.ease
	})

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}
	return ids
}
