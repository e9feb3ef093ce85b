package models

import "database/sql"

// ItemReport is the per-item detail of a progress summary
type ItemReport struct {
	Item                  Item
	CorrectAttempts       int
	IncorrectAttempts     int
	Repetitions           int
	CorrectnessPercentage sql.NullInt64 // Invalid when the item was never attempted
	Mastered              bool
	NextReviewDate        sql.NullTime // Invalid when the item was not yet reviewed
}

// Summary holds aggregate statistics over the catalog
type Summary struct {
	TotalWords        int
	AttemptedWords    int
	MasteredWords     int
	Items             []ItemReport
	ConsistentlyWrong []ItemReport
}
