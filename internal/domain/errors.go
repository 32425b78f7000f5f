package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no game session exists for an id.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionFinished is returned when a finished session is asked to advance.
	ErrSessionFinished = errors.New("game session already finished")
	// ErrSessionClosed is returned after the session has been torn down.
	ErrSessionClosed = errors.New("game session closed")
	// ErrInvalidConfiguration rejects a session with a non-positive round count.
	ErrInvalidConfiguration = errors.New("invalid session configuration")
	// ErrUnknownDifficulty rejects a difficulty outside the closed tier set.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrProviderUnavailable is returned when a question could not be fetched.
	ErrProviderUnavailable = errors.New("question provider unavailable")
	// ErrRoundNotResolved rejects advancing before the current round is resolved.
	ErrRoundNotResolved = errors.New("round not resolved")
	// ErrRoundInProgress rejects reloading a round that already has a question.
	ErrRoundInProgress = errors.New("round already in progress")
	// ErrLoadInProgress rejects a second concurrent question load.
	ErrLoadInProgress = errors.New("question load already in progress")
	// ErrInvalidQuestion indicates a question that breaks the option invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrNotEnoughItems indicates the catalog cannot fill a question.
	ErrNotEnoughItems = errors.New("not enough items in catalog")
	// ErrItemNotFound indicates an unknown catalog item id.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItem indicates a catalog item failed validation.
	ErrInvalidItem = errors.New("invalid item")
)
