package cogs

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pp-go/utils"
)

const dailyCooldownSeconds = 24 * 60 * 60

// HandleDailyCommand grants the once-a-day growth
func (b *Bot) HandleDailyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	now := time.Now().Unix()
	if remaining := b.cooldownRemaining("daily", userID, now); remaining > 0 {
		wait := (time.Duration(remaining) * time.Second).Round(time.Minute)
		_ = utils.SendEphemeralText(s, i,
			fmt.Sprintf("You already claimed your daily, try again in `%s`", wait))
		return
	}

	topgg := b.topGG()
	multiplier := cached.Pp.Multiplier
	if topgg != nil {
		multiplier = topgg.EffectiveMultiplier(context.Background(), cached.Pp)
	}
	growth := int64(float64(rand.Int63n(utils.DailyGrowthMax-utils.DailyGrowthMin)+utils.DailyGrowthMin) * multiplier)
	cached.GrowPp(growth)
	// Armed only once the growth is granted; a failure above leaves the
	// daily unclaimed
	b.armCooldown("daily", userID, dailyCooldownSeconds, now)

	embed := utils.CreateBrandedEmbed("",
		fmt.Sprintf("**%s** received their daily %s", user.Username, utils.FormatInches(growth)),
		utils.Green)
	if topgg != nil && multiplier == cached.Pp.Multiplier {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Vote for the bot to double your multiplier: %s", topgg.VoteURL()),
		}
	}

	if err := utils.SendInteractionResponse(s, i, embed, nil, false); err != nil {
		log.WithError(err).Warn("Failed to send daily response")
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"growth":  growth,
	}).Info("Daily claimed")
}
