package cogs

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pp-go/begging"
	"pp-go/utils"
)

// begSession is one user's pending location pick
type begSession struct {
	UserID    int64
	Username  string
	Locations *begging.BeggingLocations
	User      *utils.CachedUser

	origInteraction *discordgo.InteractionCreate
	messageID       string
	content         string
	timer           *time.Timer

	mu   sync.Mutex
	done bool
}

// HandleBegCommand presents the location menu for the user's begging level
func (b *Bot) HandleBegCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := interactionUserID(i)
	if err != nil {
		respondWithError(s, i, "Failed to parse user ID")
		return
	}
	user := interactionUser(i)

	cached, err := b.Cache.Get(context.Background(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load user cache")
		respondWithError(s, i, "Failed to get user data")
		return
	}

	level := cached.GetSkill(utils.BeggingSkill).Level()
	holder := begging.NewBeggingLocations(level, b.Locations...)
	if len(holder.Locations) == 0 {
		respondWithError(s, i, "There is nowhere for you to beg at")
		return
	}

	content := fmt.Sprintf("%s **Where are you begging?**\nCurrent begging level: **%s**",
		utils.ThonkEmoji, utils.IntToRoman(level))
	components := []discordgo.MessageComponent{utils.CreateActionRow(holder.SelectMenu())}
	if err := utils.SendTextResponse(s, i, content, components); err != nil {
		log.WithError(err).Error("Failed to send begging menu")
		return
	}

	session := &begSession{
		UserID:          userID,
		Username:        user.Username,
		Locations:       holder,
		User:            cached,
		origInteraction: i,
		content:         content,
	}
	if msg, err := s.InteractionResponse(i.Interaction); err == nil {
		session.messageID = msg.ID
	}
	// The timer exists before the session can ever be seen by the
	// component router
	session.timer = time.AfterFunc(utils.BeggingMenuTimeout*time.Second, func() {
		b.expireBegSession(s, session)
	})
	b.publishBegSession(session)
}

// publishBegSession makes the session visible to the component router.
// A fresh menu supersedes any pending one.
func (b *Bot) publishBegSession(session *begSession) {
	b.begMu.Lock()
	defer b.begMu.Unlock()
	if old := b.begSessions[session.UserID]; old != nil {
		old.timer.Stop()
	}
	b.begSessions[session.UserID] = session
}

// releaseBegSession removes the session only while it is still the
// published one, so an expiry firing late cannot evict a newer menu
func (b *Bot) releaseBegSession(session *begSession) {
	b.begMu.Lock()
	defer b.begMu.Unlock()
	if b.begSessions[session.UserID] == session {
		delete(b.begSessions, session.UserID)
	}
}

// HandleBegComponent resolves a location pick into a begging reward
func (b *Bot) HandleBegComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session, verdict := b.filterBegInteraction(s, i)
	if verdict != VerdictAccepted {
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.done {
		return
	}

	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	location := session.Locations.Find(values[0])
	if location == nil {
		_ = utils.SendEphemeralText(s, i, "Something went wrong lmao try using this command again with different button")
		return
	}

	session.done = true
	session.timer.Stop()
	b.releaseBegSession(session)

	ctx := context.Background()
	voted, err := b.topGG().CheckUserVote(ctx, session.UserID)
	if err != nil {
		log.WithError(err).WithField("user_id", session.UserID).Warn("Top.gg vote check failed")
		voted = false
	}

	loot, err := location.LootTable.GetRandomLoot(b.Items, 0, voted)
	if err != nil {
		log.WithError(err).WithField("location", location.ID).Error("Loot roll failed")
		respondWithError(s, i, "Failed to roll loot")
		return
	}

	multiplier := session.User.Pp.Multiplier
	if voted {
		multiplier *= 2
	}
	inches := int64(float64(rand.Int63n(utils.BegInchesMax+1)) * multiplier)
	if inches > 0 {
		session.User.GrowPp(inches)
	}
	experience := rand.Int63n(utils.BegExperienceMax-utils.BegExperienceMin+1) + utils.BegExperienceMin
	session.User.AddExperience(utils.BeggingSkill, experience)

	rewards := utils.FormatRewards(inches, loot)
	embed := b.donatorEmbed(rewards, inches > 0 || len(loot) > 0)

	components := utils.DisableComponents(i.Message.Components)
	if err := utils.UpdateComponentInteraction(s, i, embed, components); err != nil {
		log.WithError(err).Warn("Failed to update begging message")
	}

	log.WithFields(log.Fields{
		"user_id":    session.UserID,
		"location":   location.ID,
		"inches":     inches,
		"loot":       len(loot),
		"experience": experience,
	}).Info("Begging resolved")
}

// filterBegInteraction decides whether a select event belongs to this cog:
// accepted for the menu owner, ignored when no session exists, rejected with
// feedback when someone else uses the menu.
func (b *Bot) filterBegInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) (*begSession, Verdict) {
	userID, err := interactionUserID(i)
	if err != nil {
		return nil, VerdictIgnored
	}

	b.begMu.Lock()
	session := b.begSessions[userID]
	b.begMu.Unlock()

	if session == nil {
		if i.Message != nil && b.isBegMessage(i.Message.ID) {
			_ = utils.SendEphemeralText(s, i, "Bro this is not meant for you LMAO")
			return nil, VerdictRejected
		}
		return nil, VerdictIgnored
	}
	if session.messageID != "" && i.Message != nil && i.Message.ID != session.messageID {
		return nil, VerdictIgnored
	}
	return session, VerdictAccepted
}

func (b *Bot) isBegMessage(messageID string) bool {
	b.begMu.Lock()
	defer b.begMu.Unlock()
	for _, session := range b.begSessions {
		if session.messageID == messageID {
			return true
		}
	}
	return false
}

// expireBegSession disables an unanswered menu
func (b *Bot) expireBegSession(s *discordgo.Session, session *begSession) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.done {
		return
	}
	session.done = true

	b.releaseBegSession(session)

	content := session.content + fmt.Sprintf("\n🟥 **You took too long to respond** 😔 `waited %.1fs`",
		float64(utils.BeggingMenuTimeout))
	components := utils.DisableComponents(
		[]discordgo.MessageComponent{utils.CreateActionRow(session.Locations.SelectMenu())})
	if _, err := s.InteractionResponseEdit(session.origInteraction.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	}); err != nil {
		log.WithError(err).Warn("Failed to disable expired begging menu")
	}
}

// donatorEmbed renders the reward through a random donator persona. With no
// donators configured the reward text stands on its own.
func (b *Bot) donatorEmbed(rewards string, success bool) *discordgo.MessageEmbed {
	donator := b.Donators.Random()
	if donator == nil {
		if success {
			return utils.CreateBrandedEmbed("", fmt.Sprintf("You got %s!", rewards), utils.Green)
		}
		return utils.CreateBrandedEmbed("", "You got nothing.", utils.Red)
	}

	var quote string
	color := utils.Green
	if success {
		quote = donator.SuccessQuote(rewards)
	} else {
		quote = donator.FailQuote()
		color = utils.Red
	}

	embed := utils.CreateBrandedEmbed("", quote, color)
	embed.Author = &discordgo.MessageEmbedAuthor{
		Name:    donator.Name,
		IconURL: donator.IconURL,
	}
	return embed
}
