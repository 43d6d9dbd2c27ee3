// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")
	ErrNotFound      = errors.New("participant not found")
	ErrUnknownAudio  = errors.New("audio item is not in the participant catalog")
	ErrNoRater       = errors.New("rater id is required")
)

// ValidationError rejects input before any collaborator is called
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps any failed collaborator call. Op names the call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
