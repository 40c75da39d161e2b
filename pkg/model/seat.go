package model

import (
	"piratepoker-server/pkg/deck"
	"sort"
)

// Seat is a player sitting at a table
type Seat struct {
	TableID  string   `json:"tableId"`
	Identity Identity `json:"userId"`

	// Index is assigned at join time and is never renumbered
	Index int `json:"seatIndex"`

	// Cards are the private hole cards
	Cards []deck.Card `json:"-"`

	// Bet is everything the seat has put in the pot this hand
	Bet int `json:"bet"`

	// RoundBet is what the seat has put in the pot during the current street
	RoundBet int `json:"totalBetThisRound"`

	Status SeatStatus `json:"status"`
	Ready  bool       `json:"isReady"`

	// Acted is true once the seat has acted since the last raise on this street
	Acted bool `json:"acted"`
}

// Clone returns a deep copy of the seat
func (s *Seat) Clone() *Seat {
	cp := *s
	cp.Cards = append([]deck.Card(nil), s.Cards...)
	return &cp
}

// SortSeats orders the seats by their index
func SortSeats(seats []*Seat) {
	sort.Slice(seats, func(i, j int) bool {
		return seats[i].Index < seats[j].Index
	})
}
