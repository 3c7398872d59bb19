package automod

import (
	"fmt"
	"log"
	"time"

	"automod-bot/model"
	"automod-bot/utils/database/ledger"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// BotProvider defines the methods this handler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetSession() *discordgo.Session
	GetDB() *sqlx.DB
	ReloadConfig() error
}

// HandleAutomodInteraction dispatches the automod slash command.
// Permission checks happen in the registration layer.
func HandleAutomodInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, b BotProvider) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "status":
		handleStatus(s, i, b)
	case "record":
		handleRecord(s, i, b, options[0].Options)
	case "reload":
		handleReload(s, i, b)
	}
}

func handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b BotProvider) {
	embed := buildStatusEmbed(b.GetDB(), i.GuildID)
	respondEmbed(s, i, embed)
}

func handleRecord(s *discordgo.Session, i *discordgo.InteractionCreate, b BotProvider, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(opts) == 0 {
		respondEphemeral(s, i, "No user specified.")
		return
	}
	targetUser := opts[0].UserValue(s)
	if targetUser == nil {
		respondEphemeral(s, i, "Could not resolve the user.")
		return
	}

	rec, err := ledger.GetInfractionRecord(b.GetDB(), i.GuildID, targetUser.ID)
	if err != nil {
		log.Printf("Failed to load infraction record for user %s: %v", targetUser.ID, err)
		respondEphemeral(s, i, "Failed to load the infraction record.")
		return
	}

	sanctions, err := ledger.GetSanctionsByUserID(b.GetDB(), i.GuildID, targetUser.ID)
	if err != nil {
		log.Printf("Failed to load sanctions for user %s: %v", targetUser.ID, err)
	}

	respondEmbed(s, i, buildRecordEmbed(targetUser, rec, sanctions))
}

func handleReload(s *discordgo.Session, i *discordgo.InteractionCreate, b BotProvider) {
	if err := b.ReloadConfig(); err != nil {
		respondEphemeral(s, i, fmt.Sprintf("Reload failed: %v", err))
		return
	}
	respondEphemeral(s, i, "Configuration reloaded.")
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to automod interaction: %v", err)
	}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to automod interaction: %v", err)
	}
}

func since(d time.Duration) time.Time {
	return time.Now().Add(-d)
}
