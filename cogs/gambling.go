package cogs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"pp-go/games/blackjack"
	"pp-go/utils"
)

// blackjackSession is one user's in-flight blackjack round together with
// the Discord plumbing needed to keep editing its message
type blackjackSession struct {
	ID        string
	UserID    int64
	Username  string
	AvatarURL string
	Stake     int64
	Game      *blackjack.Game
	User      *utils.CachedUser

	origInteraction *discordgo.InteractionCreate
	messageID       string
	actions         []string
	timer           *time.Timer

	mu   sync.Mutex
	done bool
}

// HandleBlackjackCommand starts a blackjack round for the invoking user
func (b *Bot) HandleBlackjackCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := interactionUserID(i)
	if err != nil {
		respondWithError(s, i, "Failed to parse user ID")
		return
	}
	user := interactionUser(i)
	amount := i.ApplicationCommandData().Options[0].IntValue()

	cached, err := b.Cache.Get(context.Background(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load user cache")
		respondWithError(s, i, "Failed to get user data")
		return
	}

	if amount < utils.MinBlackjackBet {
		_ = utils.SendEphemeralText(s, i,
			fmt.Sprintf("No can do, you need to gamble atleast %s", utils.FormatInches(utils.MinBlackjackBet)))
		return
	}
	if amount > cached.Pp.Size {
		_ = utils.SendInteractionResponse(s, i, utils.InsufficientInchesEmbed(amount, cached.Pp.Size), nil, true)
		return
	}

	game, err := blackjack.NewGame(utils.NewDeck())
	if err != nil {
		log.WithError(err).Error("Failed to start blackjack game")
		respondWithError(s, i, "Failed to start game")
		return
	}

	session := &blackjackSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		Username:        user.Username,
		AvatarURL:       user.AvatarURL(""),
		Stake:           amount,
		Game:            game,
		User:            cached,
		origInteraction: i,
	}
	// The timer exists before the session can ever be seen by the
	// component router
	if !game.State.Terminal() {
		b.armBlackjackTimer(s, session)
	}

	// Reserving before the escrow and the Discord round-trips closes the
	// window where two rapid invocations both pass the one-game check
	if !b.reserveGame(session) {
		if session.timer != nil {
			session.timer.Stop()
		}
		_ = utils.SendEphemeralText(s, i, "You already have a game of Blackjack running")
		return
	}

	// Stake is escrowed up front; terminal payouts hand it back
	cached.GrowPp(-amount)

	// Naturals resolve before the interactive phase begins
	if game.State.Terminal() {
		b.settle(session)
		embed := session.embed(true)
		if err := utils.SendInteractionResponse(s, i, embed, utils.BlackjackButtons(true), false); err != nil {
			log.WithError(err).Error("Failed to send blackjack response")
		}
		return
	}

	embed := session.embed(false)
	if err := utils.SendInteractionResponse(s, i, embed, utils.BlackjackButtons(false), false); err != nil {
		log.WithError(err).Error("Failed to send blackjack response")
		b.abortGame(session)
		return
	}
	if msg, err := s.InteractionResponse(i.Interaction); err == nil {
		b.gamesMu.Lock()
		session.messageID = msg.ID
		b.gamesMu.Unlock()
	}

	log.WithFields(log.Fields{
		"game_id": session.ID,
		"user_id": userID,
		"stake":   amount,
	}).Info("Started blackjack game")
}

// HandleBlackjackComponent applies a Hit/Stand button press to the presser's
// active game
func (b *Bot) HandleBlackjackComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session, verdict := b.filterBlackjackInteraction(s, i)
	if verdict != VerdictAccepted {
		return
	}

	action, err := blackjack.ParseAction(i.MessageComponentData().CustomID)
	if err != nil {
		// Unrecognized identifier: reject at the boundary, the engine
		// never sees it
		_ = utils.SendEphemeralText(s, i, "Something went wrong lmao try using this command again with different button")
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.done || session.Game.State != blackjack.StatePlayerTurn {
		return
	}

	if err := session.Game.PlayerAction(action); err != nil {
		log.WithError(err).WithField("game_id", session.ID).Error("Blackjack action failed")
		return
	}

	switch action {
	case blackjack.ActionHit:
		card := session.Game.Player.Cards[len(session.Game.Player.Cards)-1]
		session.actions = append(session.actions, fmt.Sprintf("+ %s hits and received a %s.", session.Username, card))
	case blackjack.ActionStand:
		session.actions = append(session.actions, fmt.Sprintf("! %s stands.", session.Username))
	}

	switch session.Game.State {
	case blackjack.StatePlayerTurn:
		session.timer.Reset(utils.BlackjackTimeout * time.Second)
		embed := session.embed(false)
		if err := utils.UpdateComponentInteraction(s, i, embed, utils.BlackjackButtons(false)); err != nil {
			log.WithError(err).Warn("Failed to update blackjack message")
		}
	case blackjack.StatePlayerBust:
		session.timer.Stop()
		session.actions = append(session.actions, fmt.Sprintf("- %s busts.", session.Username))
		b.settle(session)
		embed := session.embed(true)
		if err := utils.UpdateComponentInteraction(s, i, embed, utils.BlackjackButtons(true)); err != nil {
			log.WithError(err).Warn("Failed to update blackjack message")
		}
	case blackjack.StateDealerTurn:
		session.timer.Stop()
		// Acknowledge with the dealer's hand revealed, then play the
		// dealer out with paced edits
		embed := session.embed(true)
		if err := utils.UpdateComponentInteraction(s, i, embed, utils.BlackjackButtons(true)); err != nil {
			log.WithError(err).Warn("Failed to update blackjack message")
		}
		b.playDealer(s, session)
	}
}

// armBlackjackTimer starts the decision clock. Always called before the
// session is published, so the component router never sees a nil timer.
func (b *Bot) armBlackjackTimer(s *discordgo.Session, session *blackjackSession) {
	session.timer = time.AfterFunc(utils.BlackjackTimeout*time.Second, func() {
		b.timeoutSession(s, session)
	})
}

// reserveGame publishes the session unless the user already has one running
func (b *Bot) reserveGame(session *blackjackSession) bool {
	b.gamesMu.Lock()
	defer b.gamesMu.Unlock()
	if _, running := b.games[session.UserID]; running {
		return false
	}
	b.games[session.UserID] = session
	return true
}

// releaseGame removes the session only while it is still the published one,
// so a stale settle can never evict a newer round
func (b *Bot) releaseGame(session *blackjackSession) {
	b.gamesMu.Lock()
	defer b.gamesMu.Unlock()
	if b.games[session.UserID] == session {
		delete(b.games, session.UserID)
	}
}

// abortGame retires a reserved round whose message never reached Discord
// and hands the stake back
func (b *Bot) abortGame(session *blackjackSession) {
	session.mu.Lock()
	session.done = true
	session.mu.Unlock()
	if session.timer != nil {
		session.timer.Stop()
	}
	b.releaseGame(session)
	session.User.GrowPp(session.Stake)
}

// filterBlackjackInteraction decides whether a component event belongs to
// this cog: accepted for the game owner pressing buttons on the game
// message, ignored when there is nothing to act on, rejected with feedback
// when someone else presses the buttons.
func (b *Bot) filterBlackjackInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) (*blackjackSession, Verdict) {
	userID, err := interactionUserID(i)
	if err != nil {
		return nil, VerdictIgnored
	}

	// messageID is written under gamesMu, so it is read here too
	b.gamesMu.RLock()
	session := b.games[userID]
	stale := session != nil && session.messageID != "" &&
		i.Message != nil && i.Message.ID != session.messageID
	b.gamesMu.RUnlock()

	if session == nil {
		// Pressing another player's buttons gets feedback, a stale
		// message from a finished round is silently ignored
		if i.Message != nil && b.isGameMessage(i.Message.ID) {
			_ = utils.SendEphemeralText(s, i, "Bro this is not meant for you LMAO")
			return nil, VerdictRejected
		}
		return nil, VerdictIgnored
	}
	if stale {
		return nil, VerdictIgnored
	}
	return session, VerdictAccepted
}

func (b *Bot) isGameMessage(messageID string) bool {
	b.gamesMu.RLock()
	defer b.gamesMu.RUnlock()
	for _, session := range b.games {
		if session.messageID == messageID {
			return true
		}
	}
	return false
}

// playDealer runs the dealer's turn to completion with paced message edits.
// Caller holds the session lock.
func (b *Bot) playDealer(s *discordgo.Session, session *blackjackSession) {
	for session.Game.State == blackjack.StateDealerTurn {
		time.Sleep(time.Second)

		card, err := session.Game.DealerAction()
		if err != nil {
			log.WithError(err).WithField("game_id", session.ID).Error("Dealer action failed")
			break
		}
		if card != nil {
			session.actions = append(session.actions, fmt.Sprintf("+ pp bot hits and received a %s.", card))
		}

		if session.Game.State == blackjack.StateDealerTurn {
			embed := session.embed(true)
			if err := utils.UpdateInteractionResponse(s, session.origInteraction, embed, utils.BlackjackButtons(true)); err != nil {
				log.WithError(err).Warn("Failed to update blackjack message")
			}
		}
	}

	switch session.Game.State {
	case blackjack.StateDealerBust:
		session.actions = append(session.actions, "- pp bot busts.")
	case blackjack.StateDealerWin:
		session.actions = append(session.actions, "+ pp bot wins.")
	case blackjack.StatePlayerWin:
		session.actions = append(session.actions, fmt.Sprintf("+ %s wins.", session.Username))
	case blackjack.StatePush:
		session.actions = append(session.actions, fmt.Sprintf("+ %s and pp bot push.", session.Username))
	}

	b.settle(session)
	embed := session.embed(true)
	if err := utils.UpdateInteractionResponse(s, session.origInteraction, embed, utils.BlackjackButtons(true)); err != nil {
		log.WithError(err).Warn("Failed to update blackjack message")
	}
}

// timeoutSession forces an unresponsive round into its terminal state.
// The engine has no clock; this is the front-end's transition.
func (b *Bot) timeoutSession(s *discordgo.Session, session *blackjackSession) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.done {
		return
	}
	if err := session.Game.Timeout(); err != nil {
		return
	}

	session.actions = append(session.actions, fmt.Sprintf("- %s doesn't respond.", session.Username))
	b.settle(session)
	embed := session.embed(true)
	if err := utils.UpdateInteractionResponse(s, session.origInteraction, embed, utils.BlackjackButtons(true)); err != nil {
		log.WithError(err).Warn("Failed to update timed out blackjack message")
	}
}

// settle pays out the terminal state and retires the session. The engine
// only classifies; every inch moved lives here.
func (b *Bot) settle(session *blackjackSession) {
	var payout int64
	switch session.Game.State {
	case blackjack.StatePlayerBlackjack:
		payout = int64(float64(session.Stake) * utils.BlackjackPayout)
	case blackjack.StatePlayerWin, blackjack.StateDealerBust:
		payout = int64(float64(session.Stake) * utils.WinPayout)
	case blackjack.StatePush:
		// Stake returned, no profit
		payout = session.Stake
	}
	if payout > 0 {
		session.User.GrowPp(payout)
	}
	session.done = true

	if session.timer != nil {
		session.timer.Stop()
	}
	b.releaseGame(session)

	log.WithFields(log.Fields{
		"game_id": session.ID,
		"user_id": session.UserID,
		"state":   session.Game.State.String(),
		"stake":   session.Stake,
		"payout":  payout,
	}).Info("Blackjack game settled")
}

// embed renders the current table, the action log and, when the round is
// over, the outcome banner
func (session *blackjackSession) embed(reveal bool) *discordgo.MessageEmbed {
	embed := utils.BlackjackEmbed(session.Username, session.AvatarURL, session.Game.Player, session.Game.Dealer, reveal)
	embed.Description = formattedActions(session.actions)

	if !session.Game.State.Terminal() {
		return embed
	}

	banner, color := session.resultBanner()
	embed.Color = color
	if banner != "" {
		embed.Description = banner + embed.Description
	}
	return embed
}

func (session *blackjackSession) resultBanner() (string, int) {
	name := session.Username
	stake := session.Stake
	switch session.Game.State {
	case blackjack.StatePlayerBlackjack:
		reward := int64(float64(stake) * utils.BlackjackPayout)
		return fmt.Sprintf("**BLACKJACK!**\n%s walks away with %s (50%% bonus)", name, utils.FormatInches(reward)), utils.Green
	case blackjack.StateDealerBlackjack:
		return fmt.Sprintf("**DEALER BLACKJACK!**\n%s loses %s", name, utils.FormatInches(-stake)), utils.Red
	case blackjack.StatePush:
		if session.Game.Player.IsBlackjack() && session.Game.Dealer.IsBlackjack() {
			return "**PUSH!**\nSomehow you both got a blackjack LMAO, it's a tie", utils.Yellow
		}
		return fmt.Sprintf("**PUSH!**\n%s and pp bot ended up in a tie. You win %s", name, utils.FormatInches(0)), utils.Yellow
	case blackjack.StatePlayerBust:
		return fmt.Sprintf("**BUST!**\n%s got a bit to greedy, and busted. You lose %s", name, utils.FormatInches(-stake)), utils.Red
	case blackjack.StateDealerBust:
		reward := int64(float64(stake) * utils.WinPayout)
		return fmt.Sprintf("**DEALER BUST!**\npp bot got absolutely destroyed by %s. You win %s", name, utils.FormatInches(reward)), utils.Green
	case blackjack.StateDealerWin:
		return fmt.Sprintf("**DEALER WIN!**\n%s got dunked on by pp bot. You lose %s", name, utils.FormatInches(-stake)), utils.Red
	case blackjack.StatePlayerWin:
		reward := int64(float64(stake) * utils.WinPayout)
		return fmt.Sprintf("**YOU WIN!**\n%s has proved their extreme gambling skill against pp bot. You win %s", name, utils.FormatInches(reward)), utils.Green
	case blackjack.StateTimeout:
		return fmt.Sprintf("**TIMED OUT!**\nWhile %s was AFK, the dealer ran away with his %s", name, utils.FormatInches(-stake)), utils.Yellow
	default:
		return "", utils.BotColor
	}
}

// formattedActions renders the most recent two actions in a diff block,
// with a count of the ones scrolled out
func formattedActions(actions []string) string {
	if len(actions) == 0 {
		return ""
	}

	reversed := make([]string, len(actions))
	for i, action := range actions {
		reversed[len(actions)-1-i] = action
	}

	if len(reversed) > 2 {
		hidden := len(reversed) - 2
		noun := "actions"
		if hidden == 1 {
			noun = "action"
		}
		return fmt.Sprintf("```diff\n%s\n%d previous %s...```", strings.Join(reversed[:2], "\n"), hidden, noun)
	}
	return fmt.Sprintf("```diff\n%s```", strings.Join(reversed, "\n"))
}
