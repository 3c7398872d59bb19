package commands

import (
	"automod-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands builds the slash command set registered per guild.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Automod(),
	}
}
