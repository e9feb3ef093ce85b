package spaced_repetition

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/example/flashdrill/pkg/models"
)

// Report computes catalog statistics from the store. It does not modify the
// store and returns the same summary for the same inputs.
func Report(items []models.Item, store models.ProgressStore) models.Summary {
	summary := models.Summary{
		TotalWords: len(items),
		Items:      make([]models.ItemReport, 0, len(items)),
	}

	for _, item := range items {
		p := store.Get(item.ID)

		if p.Attempted() {
			summary.AttemptedWords++
		}
		if p.Mastered() {
			summary.MasteredWords++
		}

		detail := models.ItemReport{
			Item:              item,
			CorrectAttempts:   p.CorrectAttempts,
			IncorrectAttempts: p.IncorrectAttempts,
			Repetitions:       p.Repetitions,
			Mastered:          p.Mastered(),
		}

		if total := p.CorrectAttempts + p.IncorrectAttempts; total > 0 {
			pct := math.Round(100 * float64(p.CorrectAttempts) / float64(total))
			detail.CorrectnessPercentage = sql.NullInt64{Int64: int64(pct), Valid: true}
		}

		if p.LastReviewed > 0 && p.Interval > 0 {
			detail.NextReviewDate = sql.NullTime{Time: time.UnixMilli(NextReview(p)), Valid: true}
		}

		summary.Items = append(summary.Items, detail)
	}

	for _, detail := range summary.Items {
		if detail.IncorrectAttempts > 0 && !detail.Mastered {
			summary.ConsistentlyWrong = append(summary.ConsistentlyWrong, detail)
		}
	}
	sort.SliceStable(summary.ConsistentlyWrong, func(i, j int) bool {
		return summary.ConsistentlyWrong[i].IncorrectAttempts > summary.ConsistentlyWrong[j].IncorrectAttempts
	})

	return summary
}
