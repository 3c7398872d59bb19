package bot

import (
	"log"
	"sync"
	"time"

	"automod-bot/model"
	"automod-bot/tasks"
	"automod-bot/utils/database/ledger"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetDB() *sqlx.DB
	GetSession() *discordgo.Session
}

// Scheduler manages all scheduled tasks.
type Scheduler struct {
	bot              BotProvider
	done             chan struct{}
	wg               sync.WaitGroup
	muteExpiryTicker *time.Ticker
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(2)

	// Expired mute cleanup
	go s.startMuteExpiry()

	// Daily moderation report
	go s.startDailyReport()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) startMuteExpiry() {
	defer s.wg.Done()
	s.muteExpiryTicker = time.NewTicker(5 * time.Minute)
	defer s.muteExpiryTicker.Stop()

	for {
		select {
		case <-s.muteExpiryTicker.C:
			s.processExpiredMutes()
		case <-s.done:
			return
		}
	}
}

// processExpiredMutes marks active mute sanctions whose duration has
// elapsed as completed. The Discord-side timeout expires on its own;
// this keeps the audit table in sync.
func (s *Scheduler) processExpiredMutes() {
	db := s.bot.GetDB()
	expired, err := ledger.GetExpiredActiveMutes(db, time.Now())
	if err != nil {
		log.Printf("Error getting expired mutes: %v", err)
		return
	}

	for _, sanction := range expired {
		if err := ledger.UpdateSanctionStatus(db, sanction.SanctionID, "completed"); err != nil {
			log.Printf("Failed to complete sanction %d for user %s: %v", sanction.SanctionID, sanction.UserID, err)
			continue
		}
		log.Printf("Mute sanction %d for user %s expired", sanction.SanctionID, sanction.UserID)
	}
}

func (s *Scheduler) startDailyReport() {
	defer s.wg.Done()
	reportHour := 9 // 9 AM local time

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), reportHour, 0, 0, 0, now.Location())
		if !now.Before(next) {
			next = next.Add(24 * time.Hour)
		}

		log.Printf("Next daily moderation report scheduled for: %v", next)
		select {
		case <-time.After(next.Sub(now)):
			s.runDailyReport()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) runDailyReport() {
	cfg := s.bot.GetConfig()
	if cfg.LogChannelID == "" {
		log.Println("LOG_CHANNEL_ID not set, skipping daily moderation report")
		return
	}

	for guildID := range cfg.GuildConfigs {
		go tasks.SendSanctionReport(s.bot.GetSession(), s.bot.GetDB(), guildID, cfg.LogChannelID, 24*time.Hour)
	}
}
