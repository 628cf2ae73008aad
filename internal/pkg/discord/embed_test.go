package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/flowglad/pr-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEmbed(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.FixedZone("CET", 3600))
	n := &domain.Notification{
		Title: "✅ PR merged: Fix bug",
		URL:   "https://github.com/flowglad/flowglad/pull/1",
		Color: 0x00ff99,
		Fields: []domain.NotificationField{
			{Name: "Repo", Value: "`flowglad/flowglad`", Inline: true},
			{Name: "GitHub", Value: "[View PR](https://github.com/flowglad/flowglad/pull/1)"},
		},
		Footer:    "footer",
		Timestamp: ts,
	}

	embed := toEmbed(n)

	assert.Equal(t, discordgo.EmbedTypeRich, embed.Type)
	assert.Equal(t, n.Title, embed.Title)
	assert.Equal(t, n.URL, embed.URL)
	assert.Equal(t, 0x00ff99, embed.Color)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Repo", embed.Fields[0].Name)
	assert.True(t, embed.Fields[0].Inline)
	assert.False(t, embed.Fields[1].Inline)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "footer", embed.Footer.Text)
	assert.Equal(t, "2025-03-14T08:26:53Z", embed.Timestamp)
}

func TestToEmbed_OptionalParts(t *testing.T) {
	embed := toEmbed(&domain.Notification{Title: "t"})

	assert.Nil(t, embed.Footer)
	assert.Empty(t, embed.Timestamp)
	assert.Empty(t, embed.Fields)
}
