package engine

import (
	"context"
	"piratepoker-server/pkg/deck"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/store"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxNameLength = 40

func validName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", false
	}

	return name, true
}

// CreateTable creates a new table hosted by the caller, who is seated at index 0
// maxPlayers is clamped into [2, 6]
func (e *Engine) CreateTable(ctx context.Context, name string, minBet, maxPlayers int) (*TableSummary, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	name, ok := validName(name)
	if !ok {
		return nil, ErrInvalidName
	}

	if minBet < 1 {
		return nil, ErrInvalidAmount
	}

	now := e.now()
	tbl := &model.Table{
		ID:         uuid.New().String(),
		Name:       name,
		Status:     model.TableStatusWaiting,
		Host:       identity,
		MaxPlayers: model.ClampSeats(maxPlayers),
		MinBet:     minBet,
		Community:  []deck.Card{},
		Deck:       deck.Deck{},
		Street:     model.StreetPreFlop,
		Created:    now,
		LastAction: now,
	}

	err = e.store.Update(ctx, func(tx store.Tx) error {
		player, err := e.profile(ctx, tx, identity)
		if err != nil {
			return err
		}

		if player.Doubloons < minBet {
			return ErrInsufficientFunds
		}

		if err := tx.InsertTable(ctx, tbl); err != nil {
			return err
		}

		return tx.InsertSeat(ctx, &model.Seat{
			TableID:  tbl.ID,
			Identity: identity,
			Index:    0,
			Cards:    []deck.Card{},
			Status:   model.SeatStatusWaiting,
		})
	})

	if err != nil {
		return nil, translateStoreError(err)
	}

	e.logger.WithFields(logrus.Fields{
		"table":    tbl.ID,
		"identity": identity,
		"minBet":   minBet,
	}).Info("table created")

	e.notify(ctx, tbl.ID)
	return summarize(tbl), nil
}

// Join seats the caller at the table
func (e *Engine) Join(ctx context.Context, tableID string) (*model.Seat, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var seat *model.Seat
	err = e.update(ctx, tableID, func(h *hand) error {
		if h.table.Status != model.TableStatusWaiting {
			return ErrTableNotWaiting
		}

		if len(h.seats) >= h.table.MaxPlayers {
			return ErrTableFull
		}

		if h.seat(identity) != nil {
			return ErrAlreadySeated
		}

		player, err := e.profile(ctx, h.tx, identity)
		if err != nil {
			return err
		}

		if player.Doubloons < h.table.MinBet {
			return ErrInsufficientFunds
		}

		seat = &model.Seat{
			TableID:  tableID,
			Identity: identity,
			Index:    h.nextSeatIndex(),
			Cards:    []deck.Card{},
			Status:   model.SeatStatusWaiting,
		}

		return h.tx.InsertSeat(ctx, seat)
	})

	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{"table": tableID, "identity": identity, "seat": seat.Index}).Debug("player joined")
	return seat, nil
}

// Leave removes the caller from the table
// While a hand is being played the seat is folded instead, so the pot and seat indexes stay intact
func (e *Engine) Leave(ctx context.Context, tableID string) error {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return err
	}

	return e.update(ctx, tableID, func(h *hand) error {
		seat := h.seat(identity)
		if seat == nil {
			return ErrNotSeated
		}

		if h.table.Status == model.TableStatusPlaying {
			wasTurn := h.table.CurrentSeat == seat.Index
			seat.Status = model.SeatStatusFolded
			h.table.LastAction = e.now()

			if wasTurn || len(h.active()) <= 1 {
				return e.advance(h)
			}

			return nil
		}

		if err := h.tx.DeleteSeat(ctx, tableID, identity); err != nil {
			return err
		}
		h.removeSeat(seat)

		if len(h.seats) == 0 {
			h.deleted = true
			e.logger.WithField("table", tableID).Info("deleting empty table")
			return h.tx.DeleteTable(ctx, tableID)
		}

		if h.table.Host == identity && h.table.Status == model.TableStatusWaiting {
			h.table.Host = h.seats[0].Identity
		}

		return nil
	})
}

// SetReady marks the caller as ready (or not) to start
func (e *Engine) SetReady(ctx context.Context, tableID string, ready bool) error {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return err
	}

	return e.update(ctx, tableID, func(h *hand) error {
		seat := h.seat(identity)
		if seat == nil {
			return ErrNotSeated
		}

		if h.table.Status != model.TableStatusWaiting {
			return ErrTableNotWaiting
		}

		seat.Ready = ready
		return nil
	})
}

// Start deals the hand. Only the host can start, and every other seat must be ready
func (e *Engine) Start(ctx context.Context, tableID string) error {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return err
	}

	return e.update(ctx, tableID, func(h *hand) error {
		if h.table.Host != identity {
			return ErrNotHost
		}

		if h.table.Status != model.TableStatusWaiting {
			return ErrTableNotWaiting
		}

		if len(h.seats) < model.MinSeats {
			return ErrInsufficientPlayers
		}

		for _, seat := range h.seats {
			if !seat.Ready && seat.Identity != h.table.Host {
				return ErrNotAllReady
			}
		}

		if err := e.startHand(h); err != nil {
			return err
		}

		e.logger.WithFields(logrus.Fields{
			"table":   tableID,
			"players": len(h.seats),
			"pot":     h.table.Pot,
		}).Info("hand started")

		return nil
	})
}
