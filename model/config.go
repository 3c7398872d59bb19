package model

// AutomodConfig holds the per-guild moderation settings loaded from the
// automod config file.
type AutomodConfig struct {
	Enabled             bool     `mapstructure:"enabled"`
	DeleteMessage       bool     `mapstructure:"delete_message"`
	NotifyUser          bool     `mapstructure:"notify_user"`
	NotifyChannel       bool     `mapstructure:"notify_channel"`
	MinMessageLength    int      `mapstructure:"min_message_length"`
	ApplySanctions      bool     `mapstructure:"apply_sanctions"`
	WhitelistedUsers    []string `mapstructure:"whitelisted_users"`
	WhitelistedRoles    []string `mapstructure:"whitelisted_roles"`
	WhitelistedChannels []string `mapstructure:"whitelisted_channels"`
	ModeratorRoleIDs    []string `mapstructure:"moderator_role_ids"`
	StaffAlertChannelID string   `mapstructure:"staff_alert_channel_id"`
}

// ClassifierConfig holds the external content-analysis service settings.
type ClassifierConfig struct {
	APIURL string
	APIKey string
	Model  string
}

// Config 存储应用程序的配置
type Config struct {
	BotToken     string
	AppID        string
	LogChannelID string
	LedgerDBPath string
	Classifier   ClassifierConfig
	GuildConfigs map[string]AutomodConfig
}
