package moderation

import (
	"fmt"
	"time"

	"automod-bot/model"
)

// Escalation thresholds, checked against counts after the current
// event has been tallied.
const (
	leveMuteThreshold  = 3
	mediaMuteThreshold = 2
	graveBanThreshold  = 2
)

// muteDurations is the per-tier duration table. Note that each
// count-threshold rule mutes for the duration of the tier above the
// one it counts: repeated leve infractions use the media duration and
// repeated media infractions use the grave duration. The asymmetry is
// deliberate progressive-severity design.
var muteDurations = map[model.Tier]time.Duration{
	model.TierLeve:    30 * time.Minute,
	model.TierMedia:   120 * time.Minute,
	model.TierGrave:   1440 * time.Minute,
	model.TierExtrema: 4320 * time.Minute,
}

// MuteDuration returns the configured mute duration for a tier.
func MuteDuration(tier model.Tier) time.Duration {
	return muteDurations[tier]
}

// Decide computes the punishment for a new infraction of the given tier
// against a record whose counters already include the current event.
// It is pure with respect to its inputs and always produces a decision.
// Rules are evaluated in order and later rules override earlier ones;
// extrema infractions force a pending ban regardless of counts. Bans
// are never auto-executed: requiresStaffReview gates them on a human.
func Decide(rec *model.InfractionRecord, tier model.Tier) model.PunishmentDecision {
	decision := model.PunishmentDecision{
		Kind:    model.KindWarning,
		Details: fmt.Sprintf("formal warning for a %s infraction", tier),
	}

	if rec.Counts[model.TierLeve] >= leveMuteThreshold {
		decision = model.PunishmentDecision{
			Kind:                model.KindMute,
			Details:             fmt.Sprintf("mute: %d light infractions accumulated", rec.Counts[model.TierLeve]),
			MuteDuration:        muteDurations[model.TierMedia],
			RequiresStaffReview: true,
		}
	}

	if rec.Counts[model.TierMedia] >= mediaMuteThreshold {
		decision = model.PunishmentDecision{
			Kind:                model.KindMute,
			Details:             fmt.Sprintf("mute: %d medium infractions accumulated", rec.Counts[model.TierMedia]),
			MuteDuration:        muteDurations[model.TierGrave],
			RequiresStaffReview: true,
		}
	}

	if rec.Counts[model.TierGrave] >= graveBanThreshold {
		decision = model.PunishmentDecision{
			Kind:                model.KindBanPending,
			Details:             fmt.Sprintf("ban pending review: %d severe infractions accumulated", rec.Counts[model.TierGrave]),
			RequiresStaffReview: true,
		}
	}

	if tier == model.TierExtrema {
		decision = model.PunishmentDecision{
			Kind:                model.KindBanPending,
			Details:             "ban pending review: extreme infraction",
			RequiresStaffReview: true,
		}
	}

	return decision
}
