package model

import "time"

// Tier is the severity classification of a single infraction.
type Tier string

const (
	TierLeve    Tier = "leve"
	TierMedia   Tier = "media"
	TierGrave   Tier = "grave"
	TierExtrema Tier = "extrema"
)

// AllTiers returns the tiers in ascending severity order.
func AllTiers() []Tier {
	return []Tier{TierLeve, TierMedia, TierGrave, TierExtrema}
}

// MaxHistoryEntries caps the per-user history kept inside a record.
// Aggregate counts stay exact; the full trail lives in the sanctions table.
const MaxHistoryEntries = 100

// InfractionSnapshot captures a single infraction event.
type InfractionSnapshot struct {
	Tier      Tier   `json:"tier"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
	ChannelID string `json:"channel_id"`
}

// InfractionRecord is the per-user infraction ledger entry.
type InfractionRecord struct {
	UserID         string
	GuildID        string
	Counts         map[Tier]int
	Warnings       int
	Mutes          int
	LastInfraction *InfractionSnapshot
	History        []InfractionSnapshot
}

// NewInfractionRecord creates an empty record for a user. Records are
// created lazily on a user's first infraction.
func NewInfractionRecord(guildID, userID string) *InfractionRecord {
	counts := make(map[Tier]int, len(AllTiers()))
	for _, t := range AllTiers() {
		counts[t] = 0
	}
	return &InfractionRecord{
		UserID:  userID,
		GuildID: guildID,
		Counts:  counts,
	}
}

// AddInfraction tallies one infraction event: exactly one counter is
// incremented and exactly one history entry is appended.
func (r *InfractionRecord) AddInfraction(snap InfractionSnapshot) {
	if r.Counts == nil {
		r.Counts = make(map[Tier]int, len(AllTiers()))
	}
	r.Counts[snap.Tier]++
	r.History = append(r.History, snap)
	if len(r.History) > MaxHistoryEntries {
		r.History = r.History[len(r.History)-MaxHistoryEntries:]
	}
	last := snap
	r.LastInfraction = &last
}

// TotalInfractions is the sum of all tier counters.
func (r *InfractionRecord) TotalInfractions() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// ClassificationResult is the structured verdict from the external
// content-analysis model for one message. It is never persisted.
type ClassificationResult struct {
	ShouldFilter bool
	Explanation  string
	OriginalText string
}

// PunishmentKind identifies the sanction a decision selects.
type PunishmentKind string

const (
	KindWarning    PunishmentKind = "warning"
	KindMute       PunishmentKind = "mute"
	KindBanPending PunishmentKind = "ban-pending"
)

// PunishmentDecision is the outcome of the escalation policy for one
// infraction. Ban decisions are never executed automatically; they
// always require staff review.
type PunishmentDecision struct {
	Kind                PunishmentKind
	Details             string
	MuteDuration        time.Duration
	RequiresStaffReview bool
}

// SanctionRecord is one row of the append-only sanctions audit table.
type SanctionRecord struct {
	SanctionID      int64  `db:"sanction_id"` // Primary Key, Auto-increment
	MessageID       string `db:"message_id"`
	UserID          string `db:"user_id"`
	UserUsername    string `db:"user_username"`
	GuildID         string `db:"guild_id"`
	ChannelID       string `db:"channel_id"`
	Tier            string `db:"tier"`
	Kind            string `db:"kind"`
	Reason          string `db:"reason"`
	DurationMinutes int64  `db:"duration_minutes"`
	RequiresReview  bool   `db:"requires_review"`
	Timestamp       int64  `db:"timestamp"`
	ExpiresAt       int64  `db:"expires_at"` // 0 when the sanction has no duration
	Status          string `db:"status"`     // "active" or "completed"
}
