// Package store defines the transactional persistence the game engine runs against.
//
// A table and its seats form a single consistency boundary. Every mutation of a table
// happens inside Store.Update after Tx.LockTable, so concurrent actions on the same table
// are serialized while different tables proceed independently.
package store

import (
	"context"
	"errors"
	"piratepoker-server/pkg/model"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when an insert violates a uniqueness constraint
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// ErrConflict is returned when the transaction lost a race with a concurrent transaction
var ErrConflict = errors.New("concurrent transaction conflict")

// ErrReadOnly is returned when a write is attempted inside View
var ErrReadOnly = errors.New("write attempted in a read-only transaction")

// Store runs transactions
type Store interface {
	// Update runs fn in a read-write transaction
	// Nothing fn writes is visible to anyone unless fn returns nil
	Update(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn in a read-only transaction
	View(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}

// Tx is a single transaction
// Records returned by a Tx are copies. Changes must be written back with the Update/Insert methods
type Tx interface {
	// LockTable returns the table and its seats ordered by seat index
	// Inside Update the table stays locked until the transaction ends
	LockTable(ctx context.Context, id string) (*model.Table, []*model.Seat, error)

	// ListTables returns the most recently created tables first
	ListTables(ctx context.Context, limit int) ([]*model.Table, error)

	InsertTable(ctx context.Context, table *model.Table) error
	UpdateTable(ctx context.Context, table *model.Table) error

	// DeleteTable removes the table and any seats left at it
	DeleteTable(ctx context.Context, id string) error

	// Seat returns the seat held by identity at the table
	Seat(ctx context.Context, tableID string, identity model.Identity) (*model.Seat, error)

	// SeatsByIdentity returns every seat held by identity across all tables
	SeatsByIdentity(ctx context.Context, identity model.Identity) ([]*model.Seat, error)

	InsertSeat(ctx context.Context, seat *model.Seat) error
	UpdateSeat(ctx context.Context, seat *model.Seat) error
	DeleteSeat(ctx context.Context, tableID string, identity model.Identity) error

	Player(ctx context.Context, identity model.Identity) (*model.Player, error)
	InsertPlayer(ctx context.Context, player *model.Player) error
	UpdatePlayer(ctx context.Context, player *model.Player) error
}
