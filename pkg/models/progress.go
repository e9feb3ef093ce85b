package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

// Ease factor bounds for a progress record
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
)

// MasteryRepetitions is the number of consecutive correct answers after which
// an item counts as mastered
const MasteryRepetitions = 3

// Outcome is the result of the most recent attempt on an item
type Outcome int8

const (
	// OutcomeUnknown means the item has never been attempted
	OutcomeUnknown Outcome = iota
	// OutcomeCorrect means the last answer matched the canonical answer
	OutcomeCorrect
	// OutcomeIncorrect means the last answer did not match
	OutcomeIncorrect
)

// OutcomeOf converts an answer check into an Outcome
func OutcomeOf(correct bool) Outcome {
	if correct {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the outcome as true, false or null
func (o Outcome) MarshalJSON() ([]byte, error) {
	switch o {
	case OutcomeCorrect:
		return []byte("true"), nil
	case OutcomeIncorrect:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes true, false or null
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid outcome %s: %w", data, err)
	}
	switch {
	case v == nil:
		*o = OutcomeUnknown
	case *v:
		*o = OutcomeCorrect
	default:
		*o = OutcomeIncorrect
	}
	return nil
}

// Value stores the outcome as a nullable boolean column
func (o Outcome) Value() (driver.Value, error) {
	switch o {
	case OutcomeCorrect:
		return true, nil
	case OutcomeIncorrect:
		return false, nil
	default:
		return nil, nil
	}
}

// Scan reads a nullable boolean column. SQLite hands booleans back as integers.
func (o *Outcome) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*o = OutcomeUnknown
	case bool:
		*o = OutcomeOf(v)
	case int64:
		*o = OutcomeOf(v != 0)
	case []byte:
		return o.scanText(string(v))
	case string:
		return o.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into Outcome", src)
	}
	return nil
}

func (o *Outcome) scanText(s string) error {
	switch s {
	case "1", "t", "true", "TRUE":
		*o = OutcomeCorrect
	case "0", "f", "false", "FALSE":
		*o = OutcomeIncorrect
	default:
		return fmt.Errorf("cannot scan %q into Outcome", s)
	}
	return nil
}

// ProgressRecord tracks the learner's progress with a single drill item
type ProgressRecord struct {
	CorrectAttempts    int     `json:"correctAttempts" db:"correct_attempts"`
	IncorrectAttempts  int     `json:"incorrectAttempts" db:"incorrect_attempts"`
	LastAttemptCorrect Outcome `json:"lastAttemptCorrect" db:"last_attempt_correct"`
	Repetitions        int     `json:"repetitions" db:"repetitions"`    // Consecutive correct answers
	Interval           float64 `json:"interval" db:"interval_days"`     // Days until the item is due again
	EaseFactor         float64 `json:"easeFactor" db:"ease_factor"`     // SM-2 ease factor
	LastReviewed       int64   `json:"lastReviewed" db:"last_reviewed"` // Epoch milliseconds, 0 if never reviewed
}

// NewProgressRecord returns the record of an item that was never attempted
func NewProgressRecord() ProgressRecord {
	return ProgressRecord{EaseFactor: DefaultEaseFactor}
}

// Attempted reports whether the item was answered at least once
func (p ProgressRecord) Attempted() bool {
	return p.CorrectAttempts > 0 || p.IncorrectAttempts > 0
}

// Mastered reports whether the item reached the mastery streak
func (p ProgressRecord) Mastered() bool {
	return p.Repetitions >= MasteryRepetitions
}

// Validate checks the ranges a loaded record must satisfy
func (p ProgressRecord) Validate() error {
	switch {
	case p.CorrectAttempts < 0:
		return fmt.Errorf("negative correctAttempts %d", p.CorrectAttempts)
	case p.IncorrectAttempts < 0:
		return fmt.Errorf("negative incorrectAttempts %d", p.IncorrectAttempts)
	case p.Repetitions < 0:
		return fmt.Errorf("negative repetitions %d", p.Repetitions)
	case math.IsNaN(p.Interval) || math.IsInf(p.Interval, 0):
		return fmt.Errorf("interval %v is not a finite number", p.Interval)
	case math.IsNaN(p.EaseFactor):
		return fmt.Errorf("easeFactor is not a number")
	case p.Interval < 0:
		return fmt.Errorf("negative interval %v", p.Interval)
	case p.LastReviewed < 0:
		return fmt.Errorf("negative lastReviewed %d", p.LastReviewed)
	case p.EaseFactor < MinEaseFactor || p.EaseFactor > MaxEaseFactor:
		return fmt.Errorf("easeFactor %v outside [%v, %v]", p.EaseFactor, MinEaseFactor, MaxEaseFactor)
	case p.LastAttemptCorrect < OutcomeUnknown || p.LastAttemptCorrect > OutcomeIncorrect:
		return fmt.Errorf("unknown outcome %d", p.LastAttemptCorrect)
	}
	return nil
}

// ProgressStore maps item IDs to progress records. Items without an entry
// have never been attempted.
type ProgressStore map[string]ProgressRecord

// Get returns the record for an item, or a fresh one if it is absent
func (s ProgressStore) Get(itemID string) ProgressRecord {
	if p, ok := s[itemID]; ok {
		return p
	}
	return NewProgressRecord()
}

// Lookup returns the record for an item and whether it is present
func (s ProgressStore) Lookup(itemID string) (ProgressRecord, bool) {
	p, ok := s[itemID]
	return p, ok
}

// Clone returns a shallow copy that can be read while the original is updated
func (s ProgressStore) Clone() ProgressStore {
	c := make(ProgressStore, len(s))
	for id, p := range s {
		c[id] = p
	}
	return c
}
