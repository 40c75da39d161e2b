package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"piratepoker-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck
// The top of the deck is the last card in the slice
type Deck []Card

// New returns a new deck of cards.
// Important! this deck is unshuffled. Use NewShuffled() for a deck that is ready to deal
func New() Deck {
	cards := make(Deck, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(rank, suit))
		}
	}

	return cards
}

// NewShuffled returns a fresh 52 card deck in a uniformly random order
func NewShuffled(gen rng.Generator) Deck {
	d := New()
	d.Shuffle(gen)
	return d
}

// Shuffle performs a Fisher-Yates shuffle in place
func (d Deck) Shuffle(gen rng.Generator) {
	for j := len(d) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)

		d[i], d[j] = d[j], d[i]
	}
}

// Draw removes and returns the top card
// If there are no more cards, an ErrEndOfDeck is returned
func (d *Deck) Draw() (Card, error) {
	n := len(*d)
	if n == 0 {
		return "", ErrEndOfDeck
	}

	card := (*d)[n-1]
	*d = (*d)[:n-1]

	return card, nil
}

// DrawN draws n cards from the top of the deck
func (d *Deck) DrawN(n int) ([]Card, error) {
	if !d.CanDraw(n) {
		return nil, ErrEndOfDeck
	}

	cards := make([]Card, n)
	for i := range cards {
		cards[i], _ = d.Draw()
	}

	return cards, nil
}

// Burn discards the top card
func (d *Deck) Burn() error {
	_, err := d.Draw()
	return err
}

// CanDraw returns true if there are {want} cards left in the deck
func (d Deck) CanDraw(want int) bool {
	return len(d) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d Deck) CardsLeft() int {
	return len(d)
}

// Clone returns a copy that shares no memory with the original
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}

	cp := make(Deck, len(d))
	copy(cp, d)
	return cp
}

// HashCode returns a SHA1 hash code of the deck.
func (d Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d {
		_, _ = hash.Write([]byte(card))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
