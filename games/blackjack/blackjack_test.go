package blackjack

import (
	"errors"
	"testing"

	"pp-go/utils"
)

// Deal order is player, dealer, player, dealer.
func riggedGame(t *testing.T, cards ...utils.Card) *Game {
	t.Helper()
	game, err := NewGame(utils.NewDeckFrom(cards...))
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	return game
}

func card(rank string) utils.Card {
	return utils.NewCard(rank, "♠️")
}

func TestNewGameNaturals(t *testing.T) {
	tests := []struct {
		name  string
		cards []utils.Card
		want  State
	}{
		{
			"player natural wins immediately",
			[]utils.Card{card("A"), card("5"), card("K"), card("9")},
			StatePlayerBlackjack,
		},
		{
			"dealer natural wins immediately",
			[]utils.Card{card("5"), card("A"), card("9"), card("K")},
			StateDealerBlackjack,
		},
		{
			"both naturals push",
			[]utils.Card{card("A"), card("A"), card("K"), card("Q")},
			StatePush,
		},
		{
			"no naturals starts player turn",
			[]utils.Card{card("5"), card("6"), card("9"), card("10")},
			StatePlayerTurn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := riggedGame(t, tt.cards...)
			if game.State != tt.want {
				t.Errorf("State = %s, want %s", game.State, tt.want)
			}
			if game.Player.Count() != 2 || game.Dealer.Count() != 2 {
				t.Errorf("hands have %d/%d cards, want 2/2", game.Player.Count(), game.Dealer.Count())
			}
		})
	}
}

func TestPlayerHitBust(t *testing.T) {
	// Player: 10 + 9, dealer: 5 + 6, hit deals a K
	game := riggedGame(t, card("10"), card("5"), card("9"), card("6"), card("K"))

	if err := game.PlayerAction(ActionHit); err != nil {
		t.Fatalf("PlayerAction(Hit) failed: %v", err)
	}
	if game.State != StatePlayerBust {
		t.Errorf("State = %s, want %s", game.State, StatePlayerBust)
	}
	if !game.State.Terminal() {
		t.Error("PLAYER_BUST should be terminal")
	}
}

func TestPlayerStandMovesToDealerTurn(t *testing.T) {
	game := riggedGame(t, card("10"), card("5"), card("9"), card("6"))

	if err := game.PlayerAction(ActionStand); err != nil {
		t.Fatalf("PlayerAction(Stand) failed: %v", err)
	}
	if game.State != StateDealerTurn {
		t.Errorf("State = %s, want %s", game.State, StateDealerTurn)
	}
}

func TestDealerStandsAtSeventeenWithoutDrawing(t *testing.T) {
	// Player: 10 + 9 = 19, dealer: 10 + 7 = 17
	game := riggedGame(t, card("10"), card("10"), card("9"), card("7"))
	if err := game.PlayerAction(ActionStand); err != nil {
		t.Fatalf("PlayerAction(Stand) failed: %v", err)
	}

	drawn, err := game.DealerAction()
	if err != nil {
		t.Fatalf("DealerAction() failed: %v", err)
	}
	if drawn != nil {
		t.Errorf("dealer drew %s at 17, want no draw", drawn)
	}
	if game.Dealer.Count() != 2 {
		t.Errorf("dealer has %d cards, want 2", game.Dealer.Count())
	}
	if game.State != StatePlayerWin {
		t.Errorf("State = %s, want %s", game.State, StatePlayerWin)
	}
}

func TestDealerHitsUnderSeventeen(t *testing.T) {
	// Player: 10 + 9 = 19, dealer: 10 + 6 = 16, draw deals a 5 for 21
	game := riggedGame(t, card("10"), card("10"), card("9"), card("6"), card("5"))
	if err := game.PlayerAction(ActionStand); err != nil {
		t.Fatalf("PlayerAction(Stand) failed: %v", err)
	}

	drawn, err := game.DealerAction()
	if err != nil {
		t.Fatalf("DealerAction() failed: %v", err)
	}
	if drawn == nil {
		t.Fatal("dealer did not draw at 16")
	}
	if game.State != StateDealerWin {
		t.Errorf("State = %s, want %s", game.State, StateDealerWin)
	}
}

func TestDealerBust(t *testing.T) {
	// Player: 10 + 9 = 19, dealer: 10 + 6 = 16, draw deals a K for 26
	game := riggedGame(t, card("10"), card("10"), card("9"), card("6"), card("K"))
	if err := game.PlayerAction(ActionStand); err != nil {
		t.Fatalf("PlayerAction(Stand) failed: %v", err)
	}

	if _, err := game.DealerAction(); err != nil {
		t.Fatalf("DealerAction() failed: %v", err)
	}
	if game.State != StateDealerBust {
		t.Errorf("State = %s, want %s", game.State, StateDealerBust)
	}
}

func TestDealerTiePushes(t *testing.T) {
	// Player: 10 + 9 = 19, dealer: 10 + 9 = 19
	game := riggedGame(t, card("10"), card("10"), card("9"), card("9"))
	if err := game.PlayerAction(ActionStand); err != nil {
		t.Fatalf("PlayerAction(Stand) failed: %v", err)
	}

	if _, err := game.DealerAction(); err != nil {
		t.Fatalf("DealerAction() failed: %v", err)
	}
	if game.State != StatePush {
		t.Errorf("State = %s, want %s", game.State, StatePush)
	}
}

func TestDealerRunsMultipleDraws(t *testing.T) {
	// Dealer: 2 + 3 = 5, then draws 10 (15) and 6 (21)
	game := riggedGame(t, card("10"), card("2"), card("9"), card("3"), card("10"), card("6"))
	if err := game.PlayerAction(ActionStand); err != nil {
		t.Fatalf("PlayerAction(Stand) failed: %v", err)
	}

	draws := 0
	for game.State == StateDealerTurn {
		drawn, err := game.DealerAction()
		if err != nil {
			t.Fatalf("DealerAction() failed: %v", err)
		}
		if drawn != nil {
			draws++
		}
	}
	if draws != 2 {
		t.Errorf("dealer drew %d cards, want 2", draws)
	}
	if game.State != StateDealerWin {
		t.Errorf("State = %s, want %s", game.State, StateDealerWin)
	}
}

func TestParseAction(t *testing.T) {
	if action, err := ParseAction(utils.CustomIDHit); err != nil || action != ActionHit {
		t.Errorf("ParseAction(HIT) = %v, %v", action, err)
	}
	if action, err := ParseAction(utils.CustomIDStand); err != nil || action != ActionStand {
		t.Errorf("ParseAction(STAND) = %v, %v", action, err)
	}
	if _, err := ParseAction("DOUBLE"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("ParseAction(DOUBLE) error = %v, want ErrUnknownAction", err)
	}
}

func TestActionsRejectedOutsidePlayerTurn(t *testing.T) {
	game := riggedGame(t, card("A"), card("5"), card("K"), card("9"))
	if game.State != StatePlayerBlackjack {
		t.Fatalf("State = %s, want %s", game.State, StatePlayerBlackjack)
	}

	if err := game.PlayerAction(ActionHit); err == nil {
		t.Error("PlayerAction in terminal state should fail")
	}
	if _, err := game.DealerAction(); err == nil {
		t.Error("DealerAction outside dealer turn should fail")
	}
	if err := game.Timeout(); err == nil {
		t.Error("Timeout outside player turn should fail")
	}
}

func TestTimeoutDuringPlayerTurn(t *testing.T) {
	game := riggedGame(t, card("10"), card("5"), card("9"), card("6"))

	if err := game.Timeout(); err != nil {
		t.Fatalf("Timeout() failed: %v", err)
	}
	if game.State != StateTimeout {
		t.Errorf("State = %s, want %s", game.State, StateTimeout)
	}
	if !game.State.Terminal() {
		t.Error("TIMEOUT should be terminal")
	}
}
