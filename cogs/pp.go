package cogs

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"pp-go/utils"
)

const (
	growCooldownSeconds = 10
	maxPpNameLength     = 32
)

// HandleShowCommand shows the invoker's pp, or another user's when the
// optional user option is set
func (b *Bot) HandleShowCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := interactionUser(i)
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "user" {
			target = option.UserValue(s)
		}
	}

	targetID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		respondWithError(s, i, "Failed to parse user ID")
		return
	}

	cached, err := b.Cache.Get(context.Background(), targetID)
	if err != nil {
		log.WithError(err).WithField("user_id", targetID).Error("Failed to load user cache")
		respondWithError(s, i, "Failed to get user data")
		return
	}

	if err := utils.SendInteractionResponse(s, i, utils.PpEmbed(target.Username, cached.Pp), nil, false); err != nil {
		log.WithError(err).Warn("Failed to send show response")
	}
}

// HandleRenameCommand renames the invoker's pp, truncating names over the
// display limit
func (b *Bot) HandleRenameCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := interactionUserID(i)
	if err != nil {
		respondWithError(s, i, "Failed to parse user ID")
		return
	}

	cached, err := b.Cache.Get(context.Background(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load user cache")
		respondWithError(s, i, "Failed to get user data")
		return
	}

	name := i.ApplicationCommandData().Options[0].StringValue()
	if runes := []rune(name); len(runes) > maxPpNameLength {
		name = string(runes[:maxPpNameLength-2]) + ".."
	}
	cached.RenamePp(name)

	embed := utils.CreateBrandedEmbed("", fmt.Sprintf("You renamed your pp to **%s**", name), utils.Green)
	if err := utils.SendInteractionResponse(s, i, embed, nil, false); err != nil {
		log.WithError(err).Warn("Failed to send rename response")
	}
}

// HandleGrowCommand grows the invoker's pp by a small random amount
func (b *Bot) HandleGrowCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := interactionUserID(i)
	if err != nil {
		respondWithError(s, i, "Failed to parse user ID")
		return
	}

	cached, err := b.Cache.Get(context.Background(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load user cache")
		respondWithError(s, i, "Failed to get user data")
		return
	}

	now := time.Now().Unix()
	if remaining := b.cooldownRemaining("grow", userID, now); remaining > 0 {
		_ = utils.SendEphemeralText(s, i, fmt.Sprintf("Chill, try again in `%ds`", remaining))
		return
	}

	topgg := b.topGG()
	multiplier := cached.Pp.Multiplier
	if topgg != nil {
		multiplier = topgg.EffectiveMultiplier(context.Background(), cached.Pp)
	}
	growth := int64(float64(rand.Int63n(utils.GrowMax-utils.GrowMin+1)+utils.GrowMin) * multiplier)
	size := cached.GrowPp(growth)
	b.armCooldown("grow", userID, growCooldownSeconds, now)

	embed := utils.CreateBrandedEmbed("",
		fmt.Sprintf("Your pp grew %s!\nIt is now **%d inches** long.", utils.FormatInches(growth), size),
		utils.Green)
	if err := utils.SendInteractionResponse(s, i, embed, nil, false); err != nil {
		log.WithError(err).Warn("Failed to send grow response")
	}
}
