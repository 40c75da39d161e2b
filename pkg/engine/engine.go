// Package engine is the table poker game engine.
//
// Every operation runs as one store transaction: the table and its seats are locked, validated,
// mutated in memory, and written back together. A rejected operation writes nothing.
package engine

import (
	"context"
	"errors"
	"piratepoker-server/internal/rng"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/store"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier is told about every committed change to a table
type Notifier interface {
	TableChanged(ctx context.Context, tableID string)
}

// Options configures the engine
type Options struct {
	// StartingDoubloons is the balance of a newly created player profile
	StartingDoubloons int

	// ListLimit is how many tables ListTables returns
	ListLimit int

	Generator rng.Generator
	Winners   WinnerStrategy
	Notifier  Notifier
	Clock     func() time.Time
}

// DefaultOptions returns the default engine options
func DefaultOptions() Options {
	return Options{
		StartingDoubloons: 1000,
		ListLimit:         20,
		Generator:         rng.Crypto{},
		Winners:           SplitAmongActive{},
		Clock:             time.Now,
	}
}

// Engine runs poker tables
type Engine struct {
	store  store.Store
	logger logrus.FieldLogger
	opts   Options
}

// New returns a new engine
// Zero-valued options fall back to DefaultOptions()
func New(logger logrus.FieldLogger, s store.Store, opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.StartingDoubloons <= 0 {
		opts.StartingDoubloons = defaults.StartingDoubloons
	}

	if opts.ListLimit <= 0 {
		opts.ListLimit = defaults.ListLimit
	}

	if opts.Generator == nil {
		opts.Generator = defaults.Generator
	}

	if opts.Winners == nil {
		opts.Winners = defaults.Winners
	}

	if opts.Clock == nil {
		opts.Clock = defaults.Clock
	}

	return &Engine{
		store:  s,
		logger: logger,
		opts:   opts,
	}
}

func (e *Engine) now() time.Time {
	return e.opts.Clock().UTC()
}

func (e *Engine) notify(ctx context.Context, tableID string) {
	if e.opts.Notifier != nil {
		e.opts.Notifier.TableChanged(ctx, tableID)
	}
}

// update locks the table, runs fn, and writes the hand back if fn succeeds
func (e *Engine) update(ctx context.Context, tableID string, fn func(h *hand) error) error {
	err := e.store.Update(ctx, func(tx store.Tx) error {
		h, err := loadHand(ctx, tx, tableID)
		if err != nil {
			return err
		}

		if err := fn(h); err != nil {
			return err
		}

		return h.save()
	})

	if err != nil {
		return translateStoreError(err)
	}

	e.notify(ctx, tableID)
	return nil
}

// hand is a table and its seats loaded inside a transaction
type hand struct {
	ctx   context.Context
	tx    store.Tx
	table *model.Table

	// seats are ordered by seat index
	seats []*model.Seat

	// players holds the profiles that were loaded for modification
	players map[model.Identity]*model.Player

	deleted bool
}

func loadHand(ctx context.Context, tx store.Tx, tableID string) (*hand, error) {
	tbl, seats, err := tx.LockTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTableNotFound
		}

		return nil, err
	}

	return &hand{
		ctx:     ctx,
		tx:      tx,
		table:   tbl,
		seats:   seats,
		players: make(map[model.Identity]*model.Player),
	}, nil
}

func (h *hand) save() error {
	if h.deleted {
		return nil
	}

	if err := h.tx.UpdateTable(h.ctx, h.table); err != nil {
		return err
	}

	for _, seat := range h.seats {
		if err := h.tx.UpdateSeat(h.ctx, seat); err != nil {
			return err
		}
	}

	for _, player := range h.players {
		if err := h.tx.UpdatePlayer(h.ctx, player); err != nil {
			return err
		}
	}

	return nil
}

// player returns the profile for identity. Changes to it are saved with the hand
func (h *hand) player(identity model.Identity) (*model.Player, error) {
	if p, ok := h.players[identity]; ok {
		return p, nil
	}

	p, err := h.tx.Player(h.ctx, identity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}

		return nil, err
	}

	h.players[identity] = p
	return p, nil
}

// seat returns the seat held by identity, or nil
func (h *hand) seat(identity model.Identity) *model.Seat {
	for _, s := range h.seats {
		if s.Identity == identity {
			return s
		}
	}

	return nil
}

func (h *hand) removeSeat(seat *model.Seat) {
	for i, s := range h.seats {
		if s == seat {
			h.seats = append(h.seats[:i], h.seats[i+1:]...)
			return
		}
	}
}

// position returns the position of the seat index within the ordered seats, or -1
func (h *hand) position(seatIndex int) int {
	for i, s := range h.seats {
		if s.Index == seatIndex {
			return i
		}
	}

	return -1
}

// at returns the seat at the position, wrapping around the table
func (h *hand) at(pos int) *model.Seat {
	n := len(h.seats)
	return h.seats[((pos%n)+n)%n]
}

// turn returns the seat whose turn it is
func (h *hand) turn() *model.Seat {
	if pos := h.position(h.table.CurrentSeat); pos >= 0 {
		return h.seats[pos]
	}

	return nil
}

func (h *hand) active() []*model.Seat {
	active := make([]*model.Seat, 0, len(h.seats))
	for _, s := range h.seats {
		if s.Status == model.SeatStatusActive {
			active = append(active, s)
		}
	}

	return active
}

// nextActive scans forward from pos (inclusive) for an active seat
// Returns nil if no seat is active
func (h *hand) nextActive(pos int) *model.Seat {
	for i := 0; i < len(h.seats); i++ {
		if s := h.at(pos + i); s.Status == model.SeatStatusActive {
			return s
		}
	}

	return nil
}

// nextSeatIndex is one past the highest index in use
// Indexes of seats that left are not handed out again while higher ones remain
func (h *hand) nextSeatIndex() int {
	next := 0
	for _, s := range h.seats {
		if s.Index >= next {
			next = s.Index + 1
		}
	}

	return next
}
