package moderation

import (
	"context"
	"log"
	"time"

	"automod-bot/model"
	"automod-bot/utils"
)

// Message is the inbound chat event tuple the pipeline operates on.
type Message struct {
	ID             string
	AuthorID       string
	AuthorUsername string
	AuthorIsBot    bool
	Content        string
	ChannelID      string
	GuildID        string
	RoleIDs        []string
	Timestamp      time.Time
}

// Classifier produces a verdict for a message text. Implementations
// must not fail: transport problems yield an ALLOW result.
type Classifier interface {
	Classify(ctx context.Context, text string) model.ClassificationResult
}

// LedgerStore persists per-user infraction records and the sanctions
// audit trail.
type LedgerStore interface {
	GetRecord(guildID, userID string) (*model.InfractionRecord, error)
	SaveRecord(rec *model.InfractionRecord) error
	AppendSanction(record model.SanctionRecord) (int64, error)
}

// Effects is the platform side-effect surface the pipeline drives.
// Every call is best-effort; failures are logged and never abort the
// remaining steps.
type Effects interface {
	DeleteMessage(channelID, messageID string) error
	SendChannelNotice(channelID, authorID, reason string, tier model.Tier) error
	SendDirectNotice(authorID, reason string, tier model.Tier) error
	SendStaffAlert(msg Message, rec *model.InfractionRecord, decision model.PunishmentDecision, reason string) error
	ApplyMute(guildID, authorID string, duration time.Duration) error
}

// ConfigSource resolves the automod settings for a guild. Resolving per
// message keeps the pipeline current across config reloads.
type ConfigSource func(guildID string) (model.AutomodConfig, bool)

// Pipeline runs the moderation decision flow for inbound messages:
// admission filter, classification, severity mapping, side effects and
// progressive escalation against the infraction ledger.
type Pipeline struct {
	configs    ConfigSource
	classifier Classifier
	ledger     LedgerStore
	effects    Effects
	locks      *utils.UserLocker
}

func New(configs ConfigSource, classifier Classifier, ledger LedgerStore, effects Effects) *Pipeline {
	return &Pipeline{
		configs:    configs,
		classifier: classifier,
		ledger:     ledger,
		effects:    effects,
		locks:      utils.NewUserLocker(),
	}
}

// Process runs one message through the pipeline and reports whether it
// was filtered. Nothing in here is fatal: every failure past the
// classification step is logged and the remaining steps still run.
func (p *Pipeline) Process(ctx context.Context, msg Message) bool {
	cfg, ok := p.configs(msg.GuildID)
	if !ok || !cfg.Enabled {
		return false
	}

	if p.exempt(cfg, msg) {
		return false
	}

	result := p.classifier.Classify(ctx, msg.Content)
	if !result.ShouldFilter {
		return false
	}

	tier := SeverityOf(result.Explanation)

	p.applyMessageEffects(cfg, msg, result.Explanation, tier)
	p.escalate(cfg, msg, result.Explanation, tier)

	return true
}

// exempt applies the admission filter. Any single match exempts the
// message from classification entirely.
func (p *Pipeline) exempt(cfg model.AutomodConfig, msg Message) bool {
	if msg.AuthorIsBot {
		return true
	}
	if len([]rune(msg.Content)) < cfg.MinMessageLength {
		return true
	}
	if utils.Contains(cfg.WhitelistedUsers, msg.AuthorID) {
		return true
	}
	if utils.Contains(cfg.WhitelistedChannels, msg.ChannelID) {
		return true
	}
	if utils.HasAnyRole(msg.RoleIDs, cfg.WhitelistedRoles) {
		return true
	}
	if utils.HasAnyRole(msg.RoleIDs, cfg.ModeratorRoleIDs) {
		return true
	}
	return false
}

// applyMessageEffects deletes the message and notifies the channel and
// author as configured. Each substep is independently fallible. The
// direct notice fails silently: many users disable DMs and that is
// expected, not an error.
func (p *Pipeline) applyMessageEffects(cfg model.AutomodConfig, msg Message, reason string, tier model.Tier) {
	if cfg.DeleteMessage {
		if err := p.effects.DeleteMessage(msg.ChannelID, msg.ID); err != nil {
			log.Printf("Failed to delete message %s in channel %s: %v", msg.ID, msg.ChannelID, err)
		}
	}
	if cfg.NotifyChannel {
		if err := p.effects.SendChannelNotice(msg.ChannelID, msg.AuthorID, reason, tier); err != nil {
			log.Printf("Failed to send channel notice for message %s: %v", msg.ID, err)
		}
	}
	if cfg.NotifyUser {
		_ = p.effects.SendDirectNotice(msg.AuthorID, reason, tier)
	}
}

// escalate tallies the infraction, computes the punishment and persists
// the updated record. The read-modify-write is serialized per user;
// classification already happened, so the lock is held only across the
// ledger mutation.
func (p *Pipeline) escalate(cfg model.AutomodConfig, msg Message, reason string, tier model.Tier) {
	key := msg.GuildID + ":" + msg.AuthorID
	p.locks.Lock(key)
	defer p.locks.Unlock(key)

	rec, err := p.ledger.GetRecord(msg.GuildID, msg.AuthorID)
	if err != nil {
		log.Printf("Failed to load infraction record for user %s: %v", msg.AuthorID, err)
		return
	}
	if rec == nil {
		rec = model.NewInfractionRecord(msg.GuildID, msg.AuthorID)
	}

	rec.AddInfraction(model.InfractionSnapshot{
		Tier:      tier,
		Reason:    reason,
		Timestamp: msg.Timestamp.Unix(),
		ChannelID: msg.ChannelID,
	})

	decision := Decide(rec, tier)
	switch decision.Kind {
	case model.KindWarning:
		rec.Warnings++
	case model.KindMute:
		rec.Mutes++
	}

	if err := p.ledger.SaveRecord(rec); err != nil {
		// The infraction event is lost for this message; not retried.
		log.Printf("Failed to save infraction record for user %s: %v", msg.AuthorID, err)
	}

	p.recordSanction(msg, reason, tier, decision)

	if cfg.ApplySanctions && decision.Kind == model.KindMute {
		if err := p.effects.ApplyMute(msg.GuildID, msg.AuthorID, decision.MuteDuration); err != nil {
			log.Printf("Failed to apply mute for user %s: %v", msg.AuthorID, err)
		}
	}

	if decision.RequiresStaffReview {
		if err := p.effects.SendStaffAlert(msg, rec, decision, reason); err != nil {
			log.Printf("Failed to send staff alert for user %s: %v", msg.AuthorID, err)
		}
	}
}

func (p *Pipeline) recordSanction(msg Message, reason string, tier model.Tier, decision model.PunishmentDecision) {
	var expiresAt int64
	if decision.Kind == model.KindMute && decision.MuteDuration > 0 {
		expiresAt = msg.Timestamp.Add(decision.MuteDuration).Unix()
	}
	record := model.SanctionRecord{
		MessageID:       msg.ID,
		UserID:          msg.AuthorID,
		UserUsername:    msg.AuthorUsername,
		GuildID:         msg.GuildID,
		ChannelID:       msg.ChannelID,
		Tier:            string(tier),
		Kind:            string(decision.Kind),
		Reason:          reason,
		DurationMinutes: int64(decision.MuteDuration / time.Minute),
		RequiresReview:  decision.RequiresStaffReview,
		Timestamp:       msg.Timestamp.Unix(),
		ExpiresAt:       expiresAt,
		Status:          "active",
	}
	if _, err := p.ledger.AppendSanction(record); err != nil {
		log.Printf("Failed to append sanction record for user %s: %v", msg.AuthorID, err)
	}
}
