package model

import (
	"piratepoker-server/pkg/deck"
	"time"
)

// MinSeats and MaxSeats bound the capacity of a table
const (
	MinSeats = 2
	MaxSeats = 6
)

// Table is the game aggregate. A table plays a single hand and is finished afterwards
type Table struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Status     TableStatus `json:"status"`
	Host       Identity    `json:"hostId"`
	MaxPlayers int         `json:"maxPlayers"`
	MinBet     int         `json:"minBet"`
	Pot        int         `json:"pot"`
	CurrentBet int         `json:"currentBet"`

	// CurrentSeat and DealerSeat are seat indexes, not positions
	CurrentSeat int `json:"currentPlayerIndex"`
	DealerSeat  int `json:"dealerIndex"`

	Community []deck.Card `json:"communityCards"`

	// Deck is never serialized
	Deck deck.Deck `json:"-"`

	Street Street `json:"round"`

	// Winners and Prize are set once the table is finished
	Winners []Identity `json:"winners"`
	Prize   int        `json:"prize"`

	Created    time.Time `json:"created"`
	LastAction time.Time `json:"lastAction"`
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	cp := *t
	cp.Community = append([]deck.Card(nil), t.Community...)
	cp.Deck = t.Deck.Clone()
	cp.Winners = append([]Identity(nil), t.Winners...)
	return &cp
}

// ClampSeats forces the requested capacity into [MinSeats, MaxSeats]
func ClampSeats(n int) int {
	if n < MinSeats {
		return MinSeats
	}

	if n > MaxSeats {
		return MaxSeats
	}

	return n
}
