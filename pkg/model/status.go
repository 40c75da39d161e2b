package model

import (
	"encoding/json"
	"fmt"
)

// TableStatus is the lifecycle status of a table
type TableStatus string

// TableStatus constants
const (
	TableStatusWaiting  TableStatus = "waiting"
	TableStatusPlaying  TableStatus = "playing"
	TableStatusFinished TableStatus = "finished"
)

// ParseTableStatus returns the status for the string
func ParseTableStatus(s string) (TableStatus, error) {
	switch st := TableStatus(s); st {
	case TableStatusWaiting, TableStatusPlaying, TableStatusFinished:
		return st, nil
	}

	return "", fmt.Errorf("unknown table status: %s", s)
}

// SeatStatus is the per-hand status of a seat
type SeatStatus string

// SeatStatus constants
const (
	SeatStatusWaiting SeatStatus = "waiting"
	SeatStatusActive  SeatStatus = "active"
	SeatStatusFolded  SeatStatus = "folded"
	SeatStatusAllIn   SeatStatus = "allin"
)

// ParseSeatStatus returns the status for the string
func ParseSeatStatus(s string) (SeatStatus, error) {
	switch st := SeatStatus(s); st {
	case SeatStatusWaiting, SeatStatusActive, SeatStatusFolded, SeatStatusAllIn:
		return st, nil
	}

	return "", fmt.Errorf("unknown seat status: %s", s)
}

// Street is the betting street of the hand
type Street int

// constants for Street
const (
	StreetPreFlop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
	StreetShowdown
)

// CommunityCards returns how many community cards are showing during the street
func (s Street) CommunityCards() int {
	switch s {
	case StreetPreFlop:
		return 0
	case StreetFlop:
		return 3
	case StreetTurn:
		return 4
	case StreetRiver, StreetShowdown:
		return 5
	}

	panic(fmt.Sprintf("unknown street: %d", s))
}

func (s Street) String() string {
	switch s {
	case StreetPreFlop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	case StreetShowdown:
		return "showdown"
	}

	return ""
}

// ParseStreet returns the street for the name
func ParseStreet(s string) (Street, error) {
	for st := StreetPreFlop; st <= StreetShowdown; st++ {
		if st.String() == s {
			return st, nil
		}
	}

	return 0, fmt.Errorf("unknown street: %s", s)
}

// MarshalJSON encodes JSON
func (s Street) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes JSON
func (s *Street) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}

	st, err := ParseStreet(name)
	if err != nil {
		return err
	}

	*s = st
	return nil
}
