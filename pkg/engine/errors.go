package engine

import (
	"errors"
	"piratepoker-server/pkg/store"
)

// Kind classifies why an operation was rejected
type Kind int

// Kind constants
const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindNotFound
	KindPreconditionFailed
	KindForbidden
	KindInvalidArgument
	KindResourceExhausted
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not-found"
	case KindPreconditionFailed:
		return "precondition-failed"
	case KindForbidden:
		return "forbidden"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindResourceExhausted:
		return "resource-exhausted"
	case KindConflict:
		return "conflict"
	}

	return ""
}

// Error is an error that is safe to return to the caller
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// errors returned by the engine
var (
	ErrUnauthenticated = newError(KindUnauthenticated, "not authenticated")

	ErrTableNotFound  = newError(KindNotFound, "table not found")
	ErrPlayerNotFound = newError(KindNotFound, "player not found")
	ErrNotSeated      = newError(KindNotFound, "not seated at this table")

	ErrTableNotWaiting     = newError(KindPreconditionFailed, "game already started")
	ErrGameNotPlaying      = newError(KindPreconditionFailed, "game not in progress")
	ErrInsufficientPlayers = newError(KindPreconditionFailed, "need at least 2 players")
	ErrNotAllReady         = newError(KindPreconditionFailed, "not all players are ready")
	ErrCannotAct           = newError(KindPreconditionFailed, "seat cannot act")
	ErrMustCallOrFold      = newError(KindPreconditionFailed, "cannot check, must call or fold")
	ErrAlreadySeated       = newError(KindPreconditionFailed, "already seated at this table")

	ErrNotHost     = newError(KindForbidden, "only the host can start the game")
	ErrNotYourTurn = newError(KindForbidden, "not your turn")

	ErrInvalidName   = newError(KindInvalidArgument, "name must be 1-40 characters")
	ErrInvalidAmount = newError(KindInvalidArgument, "amount is not valid")
	ErrNothingToCall = newError(KindInvalidArgument, "nothing to call, check or raise instead")

	ErrInsufficientFunds = newError(KindResourceExhausted, "not enough doubloons")
	ErrTableFull         = newError(KindResourceExhausted, "table is full")
	ErrDeckExhausted     = newError(KindResourceExhausted, "deck exhausted")

	ErrConflict = newError(KindConflict, "the table was changed by someone else, try again")
)

// KindOf classifies err
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrDuplicateKey):
		return KindConflict
	}

	return KindInternal
}

// translateStoreError turns storage contention into the caller-facing conflict error
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrDuplicateKey) {
		return ErrConflict
	}

	return err
}
