package config

import (
	"fmt"
	"log"
	"os"

	"automod-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultLedgerDBPath = "data/ledger.db"

// Load loads the configuration from environment variables and the
// automod config file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	classifierURL := os.Getenv("CLASSIFIER_API_URL")
	if classifierURL == "" {
		log.Println("Warning: CLASSIFIER_API_URL not set, all messages will be allowed")
	}

	ledgerDBPath := os.Getenv("LEDGER_DB_PATH")
	if ledgerDBPath == "" {
		ledgerDBPath = defaultLedgerDBPath
	}

	cfg := &model.Config{
		BotToken:     token,
		AppID:        appID,
		LogChannelID: logChannelID,
		LedgerDBPath: ledgerDBPath,
		Classifier: model.ClassifierConfig{
			APIURL: classifierURL,
			APIKey: os.Getenv("CLASSIFIER_API_KEY"),
			Model:  os.Getenv("CLASSIFIER_MODEL"),
		},
		GuildConfigs: make(map[string]model.AutomodConfig),
	}

	if err := loadGuildConfigs(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadGuildConfigs reads the per-guild automod settings from
// data/automod_config.yaml.
func loadGuildConfigs(cfg *model.Config) error {
	v := viper.New()
	v.SetConfigName("automod_config")
	v.SetConfigType("yaml")
	v.AddConfigPath("data")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: automod_config.yaml not found, moderation disabled for all guilds")
			return nil
		}
		return fmt.Errorf("failed to read automod config: %w", err)
	}

	guilds := make(map[string]model.AutomodConfig)
	if err := v.UnmarshalKey("guilds", &guilds); err != nil {
		return fmt.Errorf("failed to unmarshal automod config: %w", err)
	}
	cfg.GuildConfigs = guilds

	return nil
}
