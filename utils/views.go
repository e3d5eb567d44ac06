package utils

import (
	"github.com/bwmarrin/discordgo"
)

// Blackjack button custom IDs. These are the only identifiers the component
// router will map to game actions; anything else is rejected at the boundary.
const (
	CustomIDHit   = "HIT"
	CustomIDStand = "STAND"

	// CustomIDBeggingLocations is the select menu id for the beg command
	CustomIDBeggingLocations = "BEGGING_LOCATIONS"
)

// CreateActionRow creates an action row with the given components
func CreateActionRow(components ...discordgo.MessageComponent) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: components}
}

// CreateButton creates a button component
func CreateButton(customID, label string, style discordgo.ButtonStyle, disabled bool) discordgo.MessageComponent {
	return discordgo.Button{
		CustomID: customID,
		Label:    label,
		Style:    style,
		Disabled: disabled,
	}
}

// BlackjackButtons builds the Hit/Stand row
func BlackjackButtons(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		CreateActionRow(
			CreateButton(CustomIDHit, "Hit", discordgo.PrimaryButton, disabled),
			CreateButton(CustomIDStand, "Stand", discordgo.PrimaryButton, disabled),
		),
	}
}

// DisableComponents returns a copy of the components with every button and
// select menu disabled, used once an interaction has finished or timed out
func DisableComponents(components []discordgo.MessageComponent) []discordgo.MessageComponent {
	disabled := make([]discordgo.MessageComponent, 0, len(components))
	for _, component := range components {
		row, ok := component.(discordgo.ActionsRow)
		if !ok {
			disabled = append(disabled, component)
			continue
		}
		newRow := discordgo.ActionsRow{Components: make([]discordgo.MessageComponent, 0, len(row.Components))}
		for _, inner := range row.Components {
			switch c := inner.(type) {
			case discordgo.Button:
				c.Disabled = true
				newRow.Components = append(newRow.Components, c)
			case discordgo.SelectMenu:
				c.Disabled = true
				newRow.Components = append(newRow.Components, c)
			default:
				newRow.Components = append(newRow.Components, inner)
			}
		}
		disabled = append(disabled, newRow)
	}
	return disabled
}

// SendInteractionResponse sends the initial response to an interaction
func SendInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// SendTextResponse sends a plain-text response with optional components
func SendTextResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
}

// SendEphemeralText sends an ephemeral plain-text response
func SendEphemeralText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// UpdateComponentInteraction acknowledges a component interaction by editing
// the message it came from
func UpdateComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// UpdateInteractionResponse edits the original response of an interaction
func UpdateInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	return err
}
