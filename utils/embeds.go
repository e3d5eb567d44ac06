package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// CreateBrandedEmbed creates a basic embed with bot styling
func CreateBrandedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
}

// ErrorEmbed creates a red error embed
func ErrorEmbed(message string) *discordgo.MessageEmbed {
	return CreateBrandedEmbed("❌ Error", message, Red)
}

// BlackjackEmbed renders the blackjack table: the player's full hand and
// the dealer's hand, masked until the reveal
func BlackjackEmbed(username, avatarURL string, player, dealer *Hand, reveal bool) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color: BotColor,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s's game of Blackjack", username),
			IconURL: avatarURL,
		},
	}

	dealerHand := dealer.HiddenString()
	dealerTotal := "`?`"
	if reveal {
		dealerHand = dealer.String()
		dealerTotal = fmt.Sprintf("`%d`", dealer.TotalValue())
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:  fmt.Sprintf("%s 🎮", username),
			Value: fmt.Sprintf("Hand - %s\nTotal - `%d`", player.String(), player.TotalValue()),
		},
		{
			Name:  fmt.Sprintf("%s %s", DealerName, DealerEmoji),
			Value: fmt.Sprintf("Hand - %s\nTotal - %s", dealerHand, dealerTotal),
		},
	}
	return embed
}

// InsufficientInchesEmbed tells the player their pp is too small for the bet
func InsufficientInchesEmbed(bet, size int64) *discordgo.MessageEmbed {
	return CreateBrandedEmbed(
		"Not Enough Inches",
		fmt.Sprintf("How you gamble that amount when you dont even have that many inches LMAO. You're missing %s",
			FormatInches(bet-size)),
		Red,
	)
}

// PpEmbed renders a user's pp stats
func PpEmbed(displayName string, pp *Pp) *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed("", fmt.Sprintf("size: %d inches\nmultiplier: %gx", pp.Size, pp.Multiplier), BotColor)
	embed.Author = &discordgo.MessageEmbedAuthor{
		Name: fmt.Sprintf("%s (%s's pp)", pp.Name, displayName),
	}
	return embed
}
