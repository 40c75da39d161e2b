package engine

import (
	"context"
	"math"
	"piratepoker-server/pkg/model"

	"github.com/sirupsen/logrus"
)

// act runs fn against the caller's seat if it is the caller's turn, then advances play
func (e *Engine) act(ctx context.Context, tableID string, fn func(h *hand, seat *model.Seat) (Action, int, error)) error {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return err
	}

	return e.update(ctx, tableID, func(h *hand) error {
		if h.table.Status != model.TableStatusPlaying {
			return ErrGameNotPlaying
		}

		seat := h.turn()
		if seat == nil || seat.Identity != identity {
			return ErrNotYourTurn
		}

		action, amount, err := fn(h, seat)
		if err != nil {
			return err
		}

		h.table.LastAction = e.now()

		e.logger.WithFields(logrus.Fields{
			"table":    tableID,
			"identity": identity,
			"street":   h.table.Street.String(),
			"pot":      h.table.Pot,
		}).Debug(action.LogMessage(amount))

		return e.advance(h)
	})
}

// Bet calls the outstanding amount and raises by raise on top of it
// A zero raise is a call, which needs something to call
func (e *Engine) Bet(ctx context.Context, tableID string, raise int) error {
	if raise < 0 {
		return ErrInvalidAmount
	}

	return e.act(ctx, tableID, func(h *hand, seat *model.Seat) (Action, int, error) {
		if seat.Status != model.SeatStatusActive {
			return "", 0, ErrCannotAct
		}

		toCall := h.table.CurrentBet - seat.RoundBet
		if toCall < 0 {
			toCall = 0
		}

		if toCall == 0 && raise == 0 {
			return "", 0, ErrNothingToCall
		}

		if raise > math.MaxInt-toCall {
			return "", 0, ErrInvalidAmount
		}

		contribution := toCall + raise
		if contribution > math.MaxInt-h.table.Pot || contribution > math.MaxInt-seat.Bet {
			return "", 0, ErrInvalidAmount
		}

		// a seat can't put more into one hand than its owner holds
		player, err := h.player(seat.Identity)
		if err != nil {
			return "", 0, err
		}

		if seat.Bet+contribution > player.Doubloons {
			return "", 0, ErrInsufficientFunds
		}

		seat.Bet += contribution
		seat.RoundBet += contribution
		seat.Acted = true
		h.table.Pot += contribution

		if raise == 0 {
			return ActionCall, contribution, nil
		}

		action := ActionRaise
		if h.table.CurrentBet == 0 {
			action = ActionBet
		}

		h.table.CurrentBet = seat.RoundBet

		// a raise reopens the action for everyone else
		for _, other := range h.active() {
			if other != seat {
				other.Acted = false
			}
		}

		return action, seat.RoundBet, nil
	})
}

// Check passes the action without betting
func (e *Engine) Check(ctx context.Context, tableID string) error {
	return e.act(ctx, tableID, func(h *hand, seat *model.Seat) (Action, int, error) {
		if seat.Status != model.SeatStatusActive {
			return "", 0, ErrCannotAct
		}

		if seat.RoundBet < h.table.CurrentBet {
			return "", 0, ErrMustCallOrFold
		}

		seat.Acted = true
		return ActionCheck, 0, nil
	})
}

// Fold gives up the hand. Folding is always allowed on your turn
func (e *Engine) Fold(ctx context.Context, tableID string) error {
	return e.act(ctx, tableID, func(h *hand, seat *model.Seat) (Action, int, error) {
		seat.Status = model.SeatStatusFolded
		seat.Acted = true
		return ActionFold, 0, nil
	})
}
