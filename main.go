package main

import (
	"log"
	"os"

	"automod-bot/bot"
	"automod-bot/config"
	"automod-bot/handlers"
	"automod-bot/moderation"
	"automod-bot/utils/database/ledger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := ledger.Init(cfg.LedgerDBPath)
	if err != nil {
		log.Fatalf("Error initializing ledger database: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	b.Pipeline = moderation.New(
		b.GuildAutomodConfig,
		moderation.NewLLMClassifier(cfg.Classifier),
		ledger.NewStore(db),
		handlers.NewDiscordEffects(b),
	)

	handlers.Register(b)

	b.Run()

	defer b.Close()
}
