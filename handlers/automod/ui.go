package automod

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"automod-bot/model"
	"automod-bot/utils/database/ledger"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// buildStatusEmbed assembles host metrics and moderation counters for
// the status subcommand.
func buildStatusEmbed(db *sqlx.DB, guildID string) *discordgo.MessageEmbed {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	sanctions24h, err := ledger.GetTotalSanctionCount(db, guildID, since(24*time.Hour))
	if err != nil {
		log.Printf("Failed to get 24h sanction count for guild %s: %v", guildID, err)
	}
	sanctions7d, err := ledger.GetTotalSanctionCount(db, guildID, since(7*24*time.Hour))
	if err != nil {
		log.Printf("Failed to get 7d sanction count for guild %s: %v", guildID, err)
	}

	uptime := time.Duration(0)
	if hostInfo != nil {
		uptime = time.Duration(hostInfo.Uptime) * time.Second
	}

	return &discordgo.MessageEmbed{
		Title: "Automod status",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "CPU", Value: fmt.Sprintf("%d cores, %.1f%% used", cpuCount, cpuUsage), Inline: true},
			{Name: "Memory", Value: fmt.Sprintf("%.1f%% used", vm.UsedPercent), Inline: true},
			{Name: "Host uptime", Value: uptime.String(), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "Sanctions (24h)", Value: fmt.Sprintf("%d", sanctions24h), Inline: true},
			{Name: "Sanctions (7d)", Value: fmt.Sprintf("%d", sanctions7d), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     3447003, // Blue
	}
}

// buildRecordEmbed renders a user's infraction ledger for moderators.
func buildRecordEmbed(user *discordgo.User, rec *model.InfractionRecord, sanctions []model.SanctionRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Infraction record for %s", user.Username),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: user.AvatarURL(""),
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     3447003, // Blue
	}

	if rec == nil {
		embed.Description = "This user has no infractions on record."
		return embed
	}

	var counts string
	for _, tier := range model.AllTiers() {
		counts += fmt.Sprintf("%s: %d\n", tier, rec.Counts[tier])
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Counts", Value: counts, Inline: true},
		&discordgo.MessageEmbedField{Name: "Warnings", Value: fmt.Sprintf("%d", rec.Warnings), Inline: true},
		&discordgo.MessageEmbedField{Name: "Mutes", Value: fmt.Sprintf("%d", rec.Mutes), Inline: true},
	)

	if rec.LastInfraction != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Last infraction",
			Value: fmt.Sprintf("[%s] %s in <#%s> at <t:%d>",
				rec.LastInfraction.Tier, rec.LastInfraction.Reason,
				rec.LastInfraction.ChannelID, rec.LastInfraction.Timestamp),
		})
	}

	if len(sanctions) > 0 {
		var history string
		shown := sanctions
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, sanction := range shown {
			history += fmt.Sprintf("#%d %s (%s): %s\n", sanction.SanctionID, sanction.Kind, sanction.Tier, sanction.Reason)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Recent sanctions (%d total)", len(sanctions)),
			Value: history,
		})
	}

	return embed
}
