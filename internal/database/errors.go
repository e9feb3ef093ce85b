package database

import "errors"

// ErrItemNotFound is returned when no catalog item has the requested ID
var ErrItemNotFound = errors.New("item not found")
