package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// persistedFields lists the keys every persisted record must carry
var persistedFields = []string{
	"correctAttempts",
	"incorrectAttempts",
	"lastAttemptCorrect",
	"repetitions",
	"interval",
	"easeFactor",
	"lastReviewed",
}

func decodeRecord(msg json.RawMessage) (ProgressRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return ProgressRecord{}, err
	}
	var missing []string
	for _, name := range persistedFields {
		v, ok := fields[name]
		// Only the outcome may be null
		if !ok || (name != "lastAttemptCorrect" && string(v) == "null") {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ProgressRecord{}, fmt.Errorf("missing fields %v", missing)
	}

	var p ProgressRecord
	if err := json.Unmarshal(msg, &p); err != nil {
		return ProgressRecord{}, err
	}
	if err := p.Validate(); err != nil {
		return ProgressRecord{}, err
	}
	return p, nil
}

// ParseProgressStore decodes the flat JSON layout of a progress store.
// Records that fail validation are left out of the returned store and
// reported through the error, which matches ErrCorruptProgressState.
// A document that is not a JSON object fails as a whole.
func ParseProgressStore(data []byte) (ProgressStore, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode progress store: %w", err)
	}

	store := make(ProgressStore, len(raw))
	var corrupt []error
	for id, msg := range raw {
		p, err := decodeRecord(msg)
		if err != nil {
			corrupt = append(corrupt, &CorruptRecordError{ItemID: id, Reason: err})
			continue
		}
		store[id] = p
	}
	return store, errors.Join(corrupt...)
}

// MarshalProgressStore encodes the store as a flat JSON object keyed by item ID
func MarshalProgressStore(store ProgressStore) ([]byte, error) {
	if store == nil {
		store = ProgressStore{}
	}
	return json.MarshalIndent(store, "", "  ")
}
