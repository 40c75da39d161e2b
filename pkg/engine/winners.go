package engine

import (
	"piratepoker-server/pkg/deck"
	"piratepoker-server/pkg/model"
)

// WinnerStrategy picks the winning seats once the river betting closes
type WinnerStrategy interface {
	DetermineWinners(active []*model.Seat, community []deck.Card) []*model.Seat
}

// SplitAmongActive splits the pot between every seat still in the hand. Hands are not ranked
type SplitAmongActive struct{}

// DetermineWinners implements WinnerStrategy
func (SplitAmongActive) DetermineWinners(active []*model.Seat, _ []deck.Card) []*model.Seat {
	winners := make([]*model.Seat, len(active))
	copy(winners, active)
	return winners
}
