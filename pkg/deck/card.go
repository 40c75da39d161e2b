package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits is every suit in deck-building order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Ranks is every rank from low to high
var Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Card is an opaque card token in the format of <rank>_<suit>, e.g., 10_hearts or A_spades
type Card string

// NewCard returns the token for the rank and suit
func NewCard(rank string, suit Suit) Card {
	return Card(fmt.Sprintf("%s_%s", rank, suit))
}

// Rank returns the rank portion of the token
func (c Card) Rank() string {
	rank, _, _ := strings.Cut(string(c), "_")
	return rank
}

// Suit returns the suit portion of the token
func (c Card) Suit() Suit {
	_, suit, _ := strings.Cut(string(c), "_")
	return Suit(suit)
}

// IsValid returns true if the token names one of the 52 cards
func (c Card) IsValid() bool {
	if !strings.Contains(string(c), "_") {
		return false
	}

	rank := c.Rank()
	validRank := false
	for _, r := range Ranks {
		if r == rank {
			validRank = true
			break
		}
	}

	if !validRank {
		return false
	}

	suit := c.Suit()
	for _, s := range Suits {
		if s == suit {
			return true
		}
	}

	return false
}

func (c Card) String() string {
	return string(c)
}

// CardsToStrings converts the cards into plain strings
func CardsToStrings(cards []Card) []string {
	s := make([]string, len(cards))
	for i, card := range cards {
		s[i] = string(card)
	}

	return s
}

// ParseCards converts plain strings into cards, rejecting any token that isn't a card
func ParseCards(s []string) ([]Card, error) {
	cards := make([]Card, len(s))
	for i, str := range s {
		card := Card(str)
		if !card.IsValid() {
			return nil, fmt.Errorf("invalid card: %q", str)
		}

		cards[i] = card
	}

	return cards, nil
}
