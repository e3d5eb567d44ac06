package cogs

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"pp-go/games/blackjack"
	"pp-go/utils"
)

func sessionWithDeck(t *testing.T, userID, stake int64, cards ...utils.Card) *blackjackSession {
	t.Helper()
	game, err := blackjack.NewGame(utils.NewDeckFrom(cards...))
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	return &blackjackSession{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: "alice",
		Stake:    stake,
		Game:     game,
		User:     &utils.CachedUser{UserID: userID, Pp: utils.NewPp(userID)},
	}
}

func playerTurnSession(t *testing.T, userID, stake int64) *blackjackSession {
	t.Helper()
	return sessionWithDeck(t, userID, stake,
		utils.NewCard("5", "♠️"), utils.NewCard("6", "♥️"),
		utils.NewCard("9", "♦️"), utils.NewCard("10", "♣️"))
}

func naturalSession(t *testing.T, userID, stake int64) *blackjackSession {
	t.Helper()
	return sessionWithDeck(t, userID, stake,
		utils.NewCard("A", "♠️"), utils.NewCard("5", "♥️"),
		utils.NewCard("K", "♦️"), utils.NewCard("9", "♣️"))
}

func TestReserveGameOnePerUser(t *testing.T) {
	b := New(nil, nil, nil, nil, nil, nil)

	first := playerTurnSession(t, 42, 100)
	if !b.reserveGame(first) {
		t.Fatal("first reservation failed")
	}
	if b.reserveGame(playerTurnSession(t, 42, 100)) {
		t.Error("second game reserved while the first is still running")
	}
	if !b.reserveGame(playerTurnSession(t, 7, 100)) {
		t.Error("another user's reservation was blocked")
	}
}

func TestReleaseGameIgnoresStaleSession(t *testing.T) {
	b := New(nil, nil, nil, nil, nil, nil)

	first := playerTurnSession(t, 42, 100)
	if !b.reserveGame(first) {
		t.Fatal("first reservation failed")
	}
	b.releaseGame(first)

	second := playerTurnSession(t, 42, 100)
	if !b.reserveGame(second) {
		t.Fatal("reservation after release failed")
	}

	// A late settle of the finished round must not evict the live one
	b.releaseGame(first)
	b.gamesMu.RLock()
	live := b.games[42]
	b.gamesMu.RUnlock()
	if live != second {
		t.Error("stale release evicted the live session")
	}
}

func TestTimerArmedBeforePublication(t *testing.T) {
	b := New(nil, nil, nil, nil, nil, nil)

	session := playerTurnSession(t, 42, 100)
	b.armBlackjackTimer(nil, session)
	defer session.timer.Stop()

	if session.timer == nil {
		t.Fatal("session about to be published has no timer")
	}
	if !b.reserveGame(session) {
		t.Fatal("reservation failed")
	}
	// The component path resets the clock after every accepted action
	session.timer.Reset(utils.BlackjackTimeout * time.Second)
}

func TestSettlePaysNaturalAndReleases(t *testing.T) {
	b := New(nil, nil, nil, nil, nil, nil)

	session := naturalSession(t, 42, 100)
	if session.Game.State != blackjack.StatePlayerBlackjack {
		t.Fatalf("State = %s, want %s", session.Game.State, blackjack.StatePlayerBlackjack)
	}
	if !b.reserveGame(session) {
		t.Fatal("reservation failed")
	}
	session.User.GrowPp(-session.Stake)

	b.settle(session)

	// Escrowed 100, paid 250: net +150
	if size := session.User.Pp.Size; size != 150 {
		t.Errorf("size after natural = %d, want 150", size)
	}
	if !session.done {
		t.Error("settled session not marked done")
	}
	b.gamesMu.RLock()
	_, running := b.games[42]
	b.gamesMu.RUnlock()
	if running {
		t.Error("settled session still published")
	}
}

func TestFormattedActions(t *testing.T) {
	if got := formattedActions(nil); got != "" {
		t.Errorf("formattedActions(nil) = %q, want empty", got)
	}

	two := formattedActions([]string{
		"+ alice hits and received a 5♠️.",
		"! alice stands.",
	})
	if !strings.Contains(two, "! alice stands.\n+ alice hits and received a 5♠️.") {
		t.Errorf("two actions not rendered newest first: %q", two)
	}
	if strings.Contains(two, "previous") {
		t.Errorf("two actions should not be truncated: %q", two)
	}

	three := formattedActions([]string{"a", "b", "c"})
	if !strings.Contains(three, "1 previous action...") {
		t.Errorf("three actions should hide exactly one: %q", three)
	}
	if strings.Contains(three, "\na") {
		t.Errorf("oldest action should be hidden: %q", three)
	}

	five := formattedActions([]string{"a", "b", "c", "d", "e"})
	if !strings.Contains(five, "3 previous actions...") {
		t.Errorf("five actions should hide three: %q", five)
	}
	if !strings.HasPrefix(five, "```diff\ne\nd\n") {
		t.Errorf("newest two actions should lead: %q", five)
	}
}

func TestCooldowns(t *testing.T) {
	b := New(nil, nil, nil, nil, nil, nil)

	// Checking never consumes the cooldown
	if remaining := b.cooldownRemaining("daily", 42, 1000); remaining != 0 {
		t.Errorf("unused remaining = %d, want 0", remaining)
	}
	if remaining := b.cooldownRemaining("daily", 42, 1000); remaining != 0 {
		t.Errorf("repeated check remaining = %d, want 0", remaining)
	}

	b.armCooldown("daily", 42, 60, 1000)
	if remaining := b.cooldownRemaining("daily", 42, 1030); remaining != 30 {
		t.Errorf("mid-cooldown remaining = %d, want 30", remaining)
	}
	// Different command and different user are independent
	if remaining := b.cooldownRemaining("grow", 42, 1030); remaining != 0 {
		t.Errorf("other command remaining = %d, want 0", remaining)
	}
	if remaining := b.cooldownRemaining("daily", 7, 1030); remaining != 0 {
		t.Errorf("other user remaining = %d, want 0", remaining)
	}
	// Expired cooldown opens up again
	if remaining := b.cooldownRemaining("daily", 42, 1060); remaining != 0 {
		t.Errorf("expired remaining = %d, want 0", remaining)
	}
}
