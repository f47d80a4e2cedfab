package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a game session is not registered.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrEmptyBank indicates the question bank has no questions to play.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrInvalidQuestion indicates a bank item is malformed.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrEmptyPlayerName rejects a session start without a name.
	ErrEmptyPlayerName = errors.New("player name is required")
	// ErrPlayerNameTaken rejects a session start with a name already in use.
	ErrPlayerNameTaken = errors.New("player name already taken")
	// ErrNotAccepting is returned for an answer arriving while no question is open.
	// Callers ignore it.
	ErrNotAccepting = errors.New("session is not accepting answers")
	// ErrNotSettling is returned when advance is requested before an outcome.
	ErrNotSettling = errors.New("session has no outcome to advance from")
	// ErrSessionEnded is returned for moves attempted after lives ran out.
	ErrSessionEnded = errors.New("session has ended")
	// ErrQuestionIndex indicates an index outside the current order.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrStoreUnavailable matches every score store failure.
	ErrStoreUnavailable = errors.New("score store unavailable")
)

// ValidationError is surfaced to the player and blocks the session start.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failed round trip to the score store. Gameplay recovers from it.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("score store %s: unavailable", e.Op)
	}
	return fmt.Sprintf("score store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
