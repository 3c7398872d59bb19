package tasks

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"automod-bot/utils/database/ledger"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// GenerateSanctionReportEmbed builds the periodic sanctions summary for a guild.
func GenerateSanctionReportEmbed(db *sqlx.DB, guildID string, duration time.Duration) (*discordgo.MessageEmbed, error) {
	since := time.Now().Add(-duration)
	stats, err := ledger.GetSanctionStats(db, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get sanction stats for guild %s: %w", guildID, err)
	}

	total, err := ledger.GetTotalSanctionCount(db, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get total sanction count for guild %s: %w", guildID, err)
	}

	var sortedKinds []string
	for kind := range stats {
		sortedKinds = append(sortedKinds, kind)
	}
	sort.Slice(sortedKinds, func(i, j int) bool {
		return stats[sortedKinds[i]] > stats[sortedKinds[j]]
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("### Sanctions over the past %s\n", duration.String()))
	builder.WriteString(fmt.Sprintf("**Total: %d**\n\n", total))
	for _, kind := range sortedKinds {
		builder.WriteString(fmt.Sprintf("- %s: %d\n", kind, stats[kind]))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Moderation report for guild %s", guildID),
		Description: builder.String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Color:       0x00ff00,
	}
	return embed, nil
}

// SendSanctionReport posts the sanctions summary for a guild to the log channel.
func SendSanctionReport(s *discordgo.Session, db *sqlx.DB, guildID, channelID string, duration time.Duration) {
	embed, err := GenerateSanctionReportEmbed(db, guildID, duration)
	if err != nil {
		log.Printf("Failed to generate sanction report embed: %v", err)
		return
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to send sanction report to channel %s: %v", channelID, err)
	}
}
