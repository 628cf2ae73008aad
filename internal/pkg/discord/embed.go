package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/flowglad/pr-relay/internal/domain"
	"time"
)

// toEmbed maps a notification onto a discord embed. Discord expects an
// ISO8601 timestamp string.
func toEmbed(n *domain.Notification) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	embed := &discordgo.MessageEmbed{
		Type:   discordgo.EmbedTypeRich,
		Title:  n.Title,
		URL:    n.URL,
		Color:  n.Color,
		Fields: fields,
	}
	if n.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: n.Footer}
	}
	if !n.Timestamp.IsZero() {
		embed.Timestamp = n.Timestamp.UTC().Format(time.RFC3339)
	}

	return embed
}
