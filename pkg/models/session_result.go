package models

import "time"

// SessionMode distinguishes the ways a drill session picks its items
type SessionMode string

const (
	// ModeQuiz presents the catalog in due/priority order
	ModeQuiz SessionMode = "quiz"
	// ModePractice presents the needs-practice set in shuffled order
	ModePractice SessionMode = "practice"
)

// SessionResult records a finished drill session
type SessionResult struct {
	ID         int64       `json:"id" db:"id"`
	Mode       SessionMode `json:"mode" db:"mode"`
	TotalItems int         `json:"total_items" db:"total_items"`
	Answered   int         `json:"answered" db:"answered"`
	Correct    int         `json:"correct" db:"correct"`
	StartedAt  time.Time   `json:"started_at" db:"started_at"`
	FinishedAt time.Time   `json:"finished_at" db:"finished_at"`
}
