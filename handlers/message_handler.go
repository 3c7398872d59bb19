package handlers

import (
	"context"
	"log"

	"automod-bot/bot"
	"automod-bot/moderation"

	"github.com/bwmarrin/discordgo"
)

// HandleMessageCreate feeds an inbound guild message through the
// moderation pipeline.
func HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, b *bot.Bot) {
	if m.Author == nil || m.GuildID == "" {
		return
	}

	var roleIDs []string
	if m.Member != nil {
		roleIDs = m.Member.Roles
	}

	msg := moderation.Message{
		ID:             m.ID,
		AuthorID:       m.Author.ID,
		AuthorUsername: m.Author.Username,
		AuthorIsBot:    m.Author.Bot,
		Content:        m.Content,
		ChannelID:      m.ChannelID,
		GuildID:        m.GuildID,
		RoleIDs:        roleIDs,
		Timestamp:      m.Timestamp,
	}

	if b.Pipeline.Process(context.Background(), msg) {
		log.Printf("Filtered message %s from user %s in guild %s", m.ID, m.Author.ID, m.GuildID)
	}
}
