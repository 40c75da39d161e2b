package engine

import (
	"context"
	"errors"
	"piratepoker-server/pkg/deck"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/store"
	"time"
)

// HiddenCard stands in for a hole card the viewer is not allowed to see
const HiddenCard = "hidden"

const unknownAlias = "Unknown Pirate"

// TableSummary is the public state of a table
// It has no deck and no hole cards, so neither can leak through it
type TableSummary struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Status      model.TableStatus `json:"status"`
	Host        model.Identity    `json:"hostId"`
	MaxPlayers  int               `json:"maxPlayers"`
	MinBet      int               `json:"minBet"`
	Pot         int               `json:"pot"`
	CurrentBet  int               `json:"currentBet"`
	CurrentSeat int               `json:"currentPlayerIndex"`
	DealerSeat  int               `json:"dealerIndex"`
	Community   []string          `json:"communityCards"`
	Street      model.Street      `json:"round"`
	Winners     []model.Identity  `json:"winners"`
	Prize       int               `json:"prize"`
	Created     time.Time         `json:"created"`
	LastAction  time.Time         `json:"lastAction"`
}

func summarize(tbl *model.Table) *TableSummary {
	winners := tbl.Winners
	if winners == nil {
		winners = []model.Identity{}
	}

	return &TableSummary{
		ID:          tbl.ID,
		Name:        tbl.Name,
		Status:      tbl.Status,
		Host:        tbl.Host,
		MaxPlayers:  tbl.MaxPlayers,
		MinBet:      tbl.MinBet,
		Pot:         tbl.Pot,
		CurrentBet:  tbl.CurrentBet,
		CurrentSeat: tbl.CurrentSeat,
		DealerSeat:  tbl.DealerSeat,
		Community:   deck.CardsToStrings(tbl.Community),
		Street:      tbl.Street,
		Winners:     append([]model.Identity{}, winners...),
		Prize:       tbl.Prize,
		Created:     tbl.Created,
		LastAction:  tbl.LastAction,
	}
}

// SeatView is a seat as seen by a particular viewer
type SeatView struct {
	Identity  model.Identity   `json:"userId"`
	Alias     string           `json:"pirateAlias"`
	Doubloons int              `json:"doubloons"`
	Index     int              `json:"seatIndex"`
	Cards     []string         `json:"cards"`
	Bet       int              `json:"bet"`
	RoundBet  int              `json:"totalBetThisRound"`
	Status    model.SeatStatus `json:"status"`
	Ready     bool             `json:"isReady"`
}

// TableView is a table as seen by a particular viewer
type TableView struct {
	*TableSummary
	Players []*SeatView `json:"players"`

	// Actions are what the viewer may do right now
	Actions []Action `json:"actions"`
}

func (h *hand) view(viewer model.Identity) *TableView {
	players := make([]*SeatView, len(h.seats))
	for i, seat := range h.seats {
		sv := &SeatView{
			Identity: seat.Identity,
			Alias:    unknownAlias,
			Index:    seat.Index,
			Bet:      seat.Bet,
			RoundBet: seat.RoundBet,
			Status:   seat.Status,
			Ready:    seat.Ready,
		}

		if p, err := h.tx.Player(h.ctx, seat.Identity); err == nil {
			sv.Alias = p.Alias
			sv.Doubloons = p.Doubloons
		}

		if seat.Identity == viewer {
			sv.Cards = deck.CardsToStrings(seat.Cards)
		} else {
			sv.Cards = make([]string, len(seat.Cards))
			for j := range sv.Cards {
				sv.Cards[j] = HiddenCard
			}
		}

		players[i] = sv
	}

	return &TableView{
		TableSummary: summarize(h.table),
		Players:      players,
		Actions:      h.legalActions(h.seat(viewer)),
	}
}

// GetTable returns the table as the caller is allowed to see it
// Anonymous callers see every hole card hidden
func (e *Engine) GetTable(ctx context.Context, tableID string) (*TableView, error) {
	viewer, _ := CurrentIdentity(ctx)

	var view *TableView
	err := e.store.View(ctx, func(tx store.Tx) error {
		h, err := loadHand(ctx, tx, tableID)
		if err != nil {
			return err
		}

		view = h.view(viewer)
		return nil
	})

	if err != nil {
		return nil, translateStoreError(err)
	}

	return view, nil
}

// ListTables returns the most recently created tables
func (e *Engine) ListTables(ctx context.Context) ([]*TableSummary, error) {
	var summaries []*TableSummary
	err := e.store.View(ctx, func(tx store.Tx) error {
		tables, err := tx.ListTables(ctx, e.opts.ListLimit)
		if err != nil {
			return err
		}

		summaries = make([]*TableSummary, len(tables))
		for i, tbl := range tables {
			summaries[i] = summarize(tbl)
		}

		return nil
	})

	if err != nil {
		return nil, translateStoreError(err)
	}

	return summaries, nil
}

// CurrentTable returns the caller's most recent table that has not finished, or nil
func (e *Engine) CurrentTable(ctx context.Context) (*TableSummary, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var current *model.Table
	err = e.store.View(ctx, func(tx store.Tx) error {
		seats, err := tx.SeatsByIdentity(ctx, identity)
		if err != nil {
			return err
		}

		for _, seat := range seats {
			tbl, _, err := tx.LockTable(ctx, seat.TableID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}

				return err
			}

			if tbl.Status == model.TableStatusFinished {
				continue
			}

			if current == nil || tbl.Created.After(current.Created) {
				current = tbl
			}
		}

		return nil
	})

	if err != nil {
		return nil, translateStoreError(err)
	}

	if current == nil {
		return nil, nil
	}

	return summarize(current), nil
}
