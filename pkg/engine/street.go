package engine

import (
	"errors"
	"fmt"
	"piratepoker-server/pkg/deck"
	"piratepoker-server/pkg/model"

	"github.com/sirupsen/logrus"
)

// draw takes n cards off the top of the table's deck
func (h *hand) draw(n int) ([]deck.Card, error) {
	cards, err := h.table.Deck.DrawN(n)
	if err != nil {
		if errors.Is(err, deck.ErrEndOfDeck) {
			return nil, ErrDeckExhausted
		}

		return nil, err
	}

	return cards, nil
}

func (h *hand) burn() error {
	if err := h.table.Deck.Burn(); err != nil {
		if errors.Is(err, deck.ErrEndOfDeck) {
			return ErrDeckExhausted
		}

		return err
	}

	return nil
}

// post puts a blind in the pot on behalf of the seat. It does not count as acting
func (h *hand) post(seat *model.Seat, amount int) {
	seat.Bet += amount
	seat.RoundBet += amount
	h.table.Pot += amount
}

// startHand shuffles, collects the buy-ins, deals hole cards, and posts the blinds
func (e *Engine) startHand(h *hand) error {
	tbl := h.table
	tbl.Deck = deck.NewShuffled(e.opts.Generator)
	e.logger.WithFields(logrus.Fields{
		"table":    tbl.ID,
		"deckHash": tbl.Deck.HashCode(),
	}).Debug("deck shuffled")

	tbl.Community = []deck.Card{}
	tbl.Pot = 0
	tbl.Winners = nil
	tbl.Prize = 0

	for _, seat := range h.seats {
		player, err := h.player(seat.Identity)
		if err != nil {
			return err
		}

		if player.Doubloons < tbl.MinBet {
			return ErrInsufficientFunds
		}

		cards, err := h.draw(2)
		if err != nil {
			return err
		}

		seat.Cards = cards
		seat.Status = model.SeatStatusActive
		seat.Bet = 0
		seat.RoundBet = 0
		seat.Acted = false

		player.Doubloons -= tbl.MinBet
		player.GamesPlayed++
	}

	dealer := h.position(tbl.DealerSeat)
	if dealer < 0 {
		dealer = 0
		tbl.DealerSeat = h.seats[0].Index
	}

	h.post(h.at(dealer+1), tbl.MinBet/2)
	h.post(h.at(dealer+2), tbl.MinBet)

	tbl.CurrentBet = tbl.MinBet
	tbl.CurrentSeat = h.at(dealer + 3).Index
	tbl.Street = model.StreetPreFlop
	tbl.Status = model.TableStatusPlaying
	tbl.LastAction = e.now()

	return nil
}

// roundComplete is true when every active seat has acted since the last raise and matched the bet
func (h *hand) roundComplete() bool {
	for _, seat := range h.active() {
		if !seat.Acted || seat.RoundBet != h.table.CurrentBet {
			return false
		}
	}

	return true
}

// advance moves play along after an action: it ends the hand, closes the street, or passes the turn
func (e *Engine) advance(h *hand) error {
	active := h.active()
	if len(active) <= 1 {
		return e.settle(h, active)
	}

	if h.roundComplete() {
		return e.nextStreet(h)
	}

	pos := h.position(h.table.CurrentSeat)
	h.table.CurrentSeat = h.nextActive(pos + 1).Index
	return nil
}

// nextStreet deals the next community cards, or settles the hand after the river
func (e *Engine) nextStreet(h *hand) error {
	tbl := h.table
	for _, seat := range h.seats {
		seat.RoundBet = 0
		seat.Acted = false
	}

	switch tbl.Street {
	case model.StreetPreFlop:
		if err := h.burn(); err != nil {
			return err
		}

		cards, err := h.draw(3)
		if err != nil {
			return err
		}

		tbl.Community = append(tbl.Community, cards...)
	case model.StreetFlop, model.StreetTurn:
		if err := h.burn(); err != nil {
			return err
		}

		cards, err := h.draw(1)
		if err != nil {
			return err
		}

		tbl.Community = append(tbl.Community, cards...)
	case model.StreetRiver:
		tbl.Street = model.StreetShowdown
		tbl.CurrentBet = 0
		return e.settle(h, e.opts.Winners.DetermineWinners(h.active(), tbl.Community))
	case model.StreetShowdown:
		return ErrGameNotPlaying
	}

	tbl.Street++
	if len(tbl.Community) != tbl.Street.CommunityCards() {
		return fmt.Errorf("table %s shows %d community cards on the %s", tbl.ID, len(tbl.Community), tbl.Street)
	}

	tbl.CurrentBet = 0
	tbl.CurrentSeat = h.nextActive(h.position(tbl.DealerSeat) + 1).Index
	return nil
}
