// Package blackjack implements the blackjack round as a pure state machine.
// It deals cards and classifies outcomes; stakes, payouts, timeouts and
// rendering are the caller's concern.
package blackjack

import (
	"errors"
	"fmt"

	"pp-go/utils"
)

// State is the current phase of a blackjack round
type State int

const (
	StatePlayerBlackjack State = iota
	StateDealerBlackjack
	StatePush
	StatePlayerTurn
	StateDealerTurn
	StatePlayerBust
	StatePlayerWin
	StateDealerBust
	StateDealerWin
	StateTimeout
)

// String returns a readable name for the state
func (s State) String() string {
	switch s {
	case StatePlayerBlackjack:
		return "PLAYER_BLACKJACK"
	case StateDealerBlackjack:
		return "DEALER_BLACKJACK"
	case StatePush:
		return "PUSH"
	case StatePlayerTurn:
		return "PLAYER_TURN"
	case StateDealerTurn:
		return "DEALER_TURN"
	case StatePlayerBust:
		return "PLAYER_BUST"
	case StatePlayerWin:
		return "PLAYER_WIN"
	case StateDealerBust:
		return "DEALER_BUST"
	case StateDealerWin:
		return "DEALER_WIN"
	case StateTimeout:
		return "TIMEOUT"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the round is over
func (s State) Terminal() bool {
	return s != StatePlayerTurn && s != StateDealerTurn
}

// Action is a validated player decision
type Action int

const (
	ActionHit Action = iota
	ActionStand
)

// ErrUnknownAction is returned for identifiers that do not map to a player
// action. The game state is left untouched.
var ErrUnknownAction = errors.New("unknown blackjack action")

// ParseAction validates a component identifier at the boundary, before it
// can reach the state machine
func ParseAction(customID string) (Action, error) {
	switch customID {
	case utils.CustomIDHit:
		return ActionHit, nil
	case utils.CustomIDStand:
		return ActionStand, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, customID)
	}
}

// Game holds one round of blackjack. Created per round and discarded after
// resolution; nothing here is persisted.
type Game struct {
	Deck   *utils.Deck
	Player *utils.Hand
	Dealer *utils.Hand
	State  State
}

// NewGame deals two cards each to player and dealer (alternating, player
// first) and classifies naturals immediately
func NewGame(deck *utils.Deck) (*Game, error) {
	game := &Game{
		Deck:   deck,
		Player: utils.NewHand(),
		Dealer: utils.NewHand(),
	}

	for i := 0; i < 2; i++ {
		if err := game.dealTo(game.Player); err != nil {
			return nil, err
		}
		if err := game.dealTo(game.Dealer); err != nil {
			return nil, err
		}
	}

	playerNatural := game.Player.IsBlackjack()
	dealerNatural := game.Dealer.IsBlackjack()
	switch {
	case playerNatural && dealerNatural:
		game.State = StatePush
	case playerNatural:
		game.State = StatePlayerBlackjack
	case dealerNatural:
		game.State = StateDealerBlackjack
	default:
		game.State = StatePlayerTurn
	}
	return game, nil
}

func (g *Game) dealTo(hand *utils.Hand) error {
	card, err := g.Deck.Deal()
	if err != nil {
		return fmt.Errorf("failed to deal: %w", err)
	}
	hand.AddCard(card)
	return nil
}

// PlayerAction applies a player decision during the player's turn
func (g *Game) PlayerAction(action Action) error {
	if g.State != StatePlayerTurn {
		return fmt.Errorf("player cannot act in state %s", g.State)
	}

	switch action {
	case ActionHit:
		if err := g.dealTo(g.Player); err != nil {
			return err
		}
		if g.Player.IsBust() {
			g.State = StatePlayerBust
		}
		return nil
	case ActionStand:
		g.State = StateDealerTurn
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}
}

// DealerAction advances the dealer by at most one card. The dealer hits
// while under 17 and stands otherwise; once standing, totals are compared.
// The caller invokes this repeatedly while the state remains DEALER_TURN.
// Returns the card drawn, if any.
func (g *Game) DealerAction() (*utils.Card, error) {
	if g.State != StateDealerTurn {
		return nil, fmt.Errorf("dealer cannot act in state %s", g.State)
	}

	var drawn *utils.Card
	if g.Dealer.TotalValue() < utils.DealerStandValue {
		card, err := g.Deck.Deal()
		if err != nil {
			return nil, fmt.Errorf("failed to deal: %w", err)
		}
		g.Dealer.AddCard(card)
		drawn = &card
	}

	total := g.Dealer.TotalValue()
	switch {
	case total > 21:
		g.State = StateDealerBust
	case total >= utils.DealerStandValue:
		player := g.Player.TotalValue()
		switch {
		case total > player:
			g.State = StateDealerWin
		case total < player:
			g.State = StatePlayerWin
		default:
			// Tie after the dealer's turn returns the stake with no
			// profit, as its own terminal rather than a player win
			g.State = StatePush
		}
	}
	return drawn, nil
}

// Timeout forces the round into the TIMEOUT terminal. This is a
// caller-driven transition: the engine has no clock, the front-end decides
// when the player has been silent for too long.
func (g *Game) Timeout() error {
	if g.State != StatePlayerTurn {
		return fmt.Errorf("cannot time out in state %s", g.State)
	}
	g.State = StateTimeout
	return nil
}
