package handlers

import (
	"fmt"
	"time"

	"automod-bot/model"
	"automod-bot/moderation"
	"automod-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// DiscordEffects implements the pipeline's side-effect surface on the
// Discord session.
type DiscordEffects struct {
	bot model.Bot
}

func NewDiscordEffects(b model.Bot) *DiscordEffects {
	return &DiscordEffects{bot: b}
}

func (e *DiscordEffects) DeleteMessage(channelID, messageID string) error {
	return e.bot.GetSession().ChannelMessageDelete(channelID, messageID)
}

func (e *DiscordEffects) SendChannelNotice(channelID, authorID, reason string, tier model.Tier) error {
	embed := &discordgo.MessageEmbed{
		Title:       "Message removed",
		Description: fmt.Sprintf("A message from <@%s> was removed by automatic moderation.", authorID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reason", Value: noticeReason(reason)},
			{Name: "Severity", Value: string(tier)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     tierColor(tier),
	}
	_, err := e.bot.GetSession().ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (e *DiscordEffects) SendDirectNotice(authorID, reason string, tier model.Tier) error {
	embed := &discordgo.MessageEmbed{
		Title:       "Your message was removed",
		Description: "One of your messages was removed because it violates the community rules.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Reason", Value: noticeReason(reason)},
			{Name: "Severity", Value: string(tier)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     tierColor(tier),
	}
	return utils.SendPrivateEmbedMessage(e.bot.GetSession(), authorID, embed)
}

func (e *DiscordEffects) SendStaffAlert(msg moderation.Message, rec *model.InfractionRecord, decision model.PunishmentDecision, reason string) error {
	s := e.bot.GetSession()
	cfg := e.bot.GetConfig()

	guildCfg, ok := cfg.GuildConfigs[msg.GuildID]
	if !ok || guildCfg.StaffAlertChannelID == "" {
		utils.LogWarn(s, cfg.LogChannelID, "Automod", "StaffAlert",
			fmt.Sprintf("No staff alert channel configured for guild %s, skipping alert for user %s", msg.GuildID, msg.AuthorID))
		return nil
	}

	embed := buildStaffAlertEmbed(msg, rec, decision, reason)
	_, err := s.ChannelMessageSendEmbed(guildCfg.StaffAlertChannelID, embed)
	return err
}

func (e *DiscordEffects) ApplyMute(guildID, authorID string, duration time.Duration) error {
	until := time.Now().Add(duration)
	return e.bot.GetSession().GuildMemberTimeout(guildID, authorID, &until)
}

func buildStaffAlertEmbed(msg moderation.Message, rec *model.InfractionRecord, decision model.PunishmentDecision, reason string) *discordgo.MessageEmbed {
	title := "Staff review required"
	if decision.Kind == model.KindBanPending {
		title = "Ban pending staff review"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", msg.AuthorID)},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", msg.ChannelID)},
			{Name: "Decision", Value: decision.Details},
			{Name: "Reason", Value: noticeReason(reason)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     15158332, // Red
	}

	if decision.Kind == model.KindMute {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Mute duration",
			Value: decision.MuteDuration.String(),
		})
	}

	var counts string
	for _, tier := range model.AllTiers() {
		counts += fmt.Sprintf("%s: %d\n", tier, rec.Counts[tier])
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Infraction counts",
		Value: counts,
	})

	return embed
}

func noticeReason(reason string) string {
	if reason == "" {
		return "rule violation"
	}
	return reason
}

func tierColor(tier model.Tier) int {
	switch tier {
	case model.TierExtrema:
		return 10038562 // Dark red
	case model.TierGrave:
		return 15158332 // Red
	case model.TierMedia:
		return 15105570 // Orange
	default:
		return 15844367 // Yellow
	}
}
