package defs

import "github.com/bwmarrin/discordgo"

// Automod defines the moderator-facing slash command.
func Automod() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "automod",
		Description: "Automatic moderation controls",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "Show system and moderation statistics",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "record",
				Description: "Show a user's infraction record",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "The user to look up",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reload",
				Description: "Reload the automod configuration",
			},
		},
	}
}
