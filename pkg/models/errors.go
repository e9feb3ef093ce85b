package models

import (
	"errors"
	"fmt"
)

// ErrCorruptProgressState marks a persisted progress record that cannot be
// trusted. The item is treated as never attempted.
var ErrCorruptProgressState = errors.New("corrupt progress state")

// CorruptRecordError names the item whose persisted record was rejected
type CorruptRecordError struct {
	ItemID string
	Reason error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("%v for item %q: %v", ErrCorruptProgressState, e.ItemID, e.Reason)
}

// Is lets errors.Is match ErrCorruptProgressState
func (e *CorruptRecordError) Is(target error) bool {
	return target == ErrCorruptProgressState
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Reason
}
