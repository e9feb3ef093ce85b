package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/flashdrill/pkg/models"
)

// Constants for the simplified SM-2 schedule
const (
	// Ease factor lost on every incorrect answer
	EaseFactorPenalty = 0.2
	// Interval after the first correct answer in a streak
	FirstInterval = 1
	// Interval after the second correct answer in a streak
	SecondInterval = 6
	// Interval after an incorrect answer
	RelearnInterval = 1
	// Milliseconds in one interval day
	DayInMillis int64 = 24 * 60 * 60 * 1000
)

// InitRecord returns the record of an item that was never attempted
func InitRecord() models.ProgressRecord {
	return models.NewProgressRecord()
}

// Apply returns the record that results from answering an item.
// The input record is not modified.
func Apply(progress models.ProgressRecord, isCorrect bool, now time.Time) models.ProgressRecord {
	next := progress
	next.LastReviewed = now.UnixMilli()
	next.LastAttemptCorrect = models.OutcomeOf(isCorrect)

	if isCorrect {
		next.CorrectAttempts++
		next.Repetitions++

		switch next.Repetitions {
		case 1:
			next.Interval = FirstInterval
		case 2:
			next.Interval = SecondInterval
		default:
			next.Interval = math.Round(progress.Interval * progress.EaseFactor)
		}
	} else {
		next.IncorrectAttempts++
		next.Repetitions = 0
		next.Interval = RelearnInterval
		next.EaseFactor = progress.EaseFactor - EaseFactorPenalty
	}

	next.EaseFactor = clampEase(next.EaseFactor)
	return next
}

// ApplyAttempt records an answer for itemID in the store and returns it.
// Only the answered item's record changes; a nil store is allocated.
func ApplyAttempt(store models.ProgressStore, itemID string, isCorrect bool, now time.Time) models.ProgressStore {
	if store == nil {
		store = make(models.ProgressStore)
	}
	store[itemID] = Apply(store.Get(itemID), isCorrect, now)
	return store
}

// NextReview returns the epoch milliseconds at which the record becomes due
func NextReview(progress models.ProgressRecord) int64 {
	return progress.LastReviewed + int64(math.Round(progress.Interval*float64(DayInMillis)))
}

// IsDue reports whether the record is due for review at now
func IsDue(progress models.ProgressRecord, now time.Time) bool {
	return NextReview(progress) <= now.UnixMilli()
}

// DueCount returns how many catalog items are due for review at now
func DueCount(items []models.Item, store models.ProgressStore, now time.Time) int {
	count := 0
	for _, item := range items {
		if IsDue(store.Get(item.ID), now) {
			count++
		}
	}
	return count
}

// ReviewsDue counts catalog items that were reviewed before and are due
// again at now. Items that were never attempted are not counted.
func ReviewsDue(items []models.Item, store models.ProgressStore, now time.Time) int {
	count := 0
	for _, item := range items {
		p, ok := store.Lookup(item.ID)
		if ok && p.LastReviewed > 0 && IsDue(p, now) {
			count++
		}
	}
	return count
}

func clampEase(ef float64) float64 {
	if ef < models.MinEaseFactor {
		return models.MinEaseFactor
	}
	if ef > models.MaxEaseFactor {
		return models.MaxEaseFactor
	}
	return ef
}
