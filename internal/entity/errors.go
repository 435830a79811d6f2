package entity

import "errors"

// Domain errors
var (
	ErrSessionNotFound = errors.New("session not found")
)
