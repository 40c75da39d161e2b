package engine

import (
	"errors"
	"piratepoker-server/pkg/model"

	"github.com/sirupsen/logrus"
)

// settle splits the pot between the winners and finishes the table
// Each winner also gets the buy-in back. The remainder of an uneven split is not paid out
func (e *Engine) settle(h *hand, winners []*model.Seat) error {
	tbl := h.table

	prize := 0
	if len(winners) > 0 {
		prize = tbl.Pot / len(winners)
	}

	tbl.Winners = make([]model.Identity, 0, len(winners))
	for _, seat := range winners {
		player, err := h.player(seat.Identity)
		if err != nil {
			if errors.Is(err, ErrPlayerNotFound) {
				e.logger.WithField("identity", seat.Identity).Warn("winner has no profile, skipping payout")
				continue
			}

			return err
		}

		player.Doubloons += prize + tbl.MinBet
		player.GamesWon++
		tbl.Winners = append(tbl.Winners, seat.Identity)
	}

	tbl.Prize = prize
	tbl.Status = model.TableStatusFinished
	tbl.CurrentBet = 0
	tbl.LastAction = e.now()

	e.logger.WithFields(logrus.Fields{
		"table":   tbl.ID,
		"winners": tbl.Winners,
		"prize":   prize,
		"pot":     tbl.Pot,
	}).Info("hand settled")

	return nil
}
