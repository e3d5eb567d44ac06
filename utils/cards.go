package utils

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

// ErrDeckExhausted is returned when a card is requested from an empty deck.
// A single round of blackjack can never realistically reach this, so hitting
// it means a programming error rather than bad luck.
var ErrDeckExhausted = errors.New("deck exhausted")

// Card represents a playing card
type Card struct {
	Rank string
	Suit string
}

// NewCard creates a new card
func NewCard(rank, suit string) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the short token for a card, e.g. "A♠️"
func (c Card) String() string {
	return c.Rank + c.Suit
}

// Value returns the blackjack value of the card, counting an Ace as 11
func (c Card) Value() int {
	if value, exists := CardRanks[c.Rank]; exists {
		return value
	}
	return 0
}

// IsAce checks if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == "A"
}

// Deck represents a single shuffled deck of 52 unique cards
type Deck struct {
	cards []Card
	dealt int
}

// NewDeck creates a freshly shuffled 52-card deck
func NewDeck() *Deck {
	ranks := []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

	deck := &Deck{cards: make([]Card, 0, 52)}
	for _, suit := range CardSuits {
		for _, rank := range ranks {
			deck.cards = append(deck.cards, NewCard(rank, suit))
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})
	return deck
}

// NewDeckFrom creates a deck that deals the given cards in order.
// Used to set up known table states.
func NewDeckFrom(cards ...Card) *Deck {
	return &Deck{cards: cards}
}

// Deal removes and returns the top card of the deck
func (d *Deck) Deal() (Card, error) {
	if d.dealt >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[d.dealt]
	d.dealt++
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.dealt
}

// Hand represents an ordered hand of cards
type Hand struct {
	Cards []Card
}

// NewHand creates an empty hand
func NewHand() *Hand {
	return &Hand{Cards: make([]Card, 0, 8)}
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	h.Cards = append(h.Cards, card)
}

// TotalValue calculates the hand value with soft-ace handling: every Ace
// starts at 11 and is downgraded to 1, one at a time, while the total busts.
func (h *Hand) TotalValue() int {
	total := 0
	aces := 0

	for _, card := range h.Cards {
		if card.IsAce() {
			aces++
		}
		total += card.Value()
	}

	for aces > 0 && total > 21 {
		total -= 10
		aces--
	}

	return total
}

// IsBlackjack checks if the hand is a natural blackjack (21 with 2 cards)
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.TotalValue() == 21
}

// IsBust checks if the hand is over 21
func (h *Hand) IsBust() bool {
	return h.TotalValue() > 21
}

// Count returns the number of cards in the hand
func (h *Hand) Count() int {
	return len(h.Cards)
}

// String renders every card in the hand
func (h *Hand) String() string {
	tokens := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		tokens[i] = card.String()
	}
	return strings.Join(tokens, " ")
}

// HiddenString renders the hand with everything but the first card masked,
// used for the dealer while the player is still acting
func (h *Hand) HiddenString() string {
	if len(h.Cards) == 0 {
		return ""
	}
	tokens := make([]string, len(h.Cards))
	tokens[0] = h.Cards[0].String()
	for i := 1; i < len(h.Cards); i++ {
		tokens[i] = "??"
	}
	return strings.Join(tokens, " ")
}
