package moderation

import (
	"testing"
	"time"

	"automod-bot/model"
)

func recordWithCounts(t *testing.T, leve, media, grave, extrema int) *model.InfractionRecord {
	t.Helper()
	rec := model.NewInfractionRecord("guild-1", "user-1")
	rec.Counts[model.TierLeve] = leve
	rec.Counts[model.TierMedia] = media
	rec.Counts[model.TierGrave] = grave
	rec.Counts[model.TierExtrema] = extrema
	return rec
}

func TestDecideDefaultsToWarning(t *testing.T) {
	rec := recordWithCounts(t, 1, 0, 0, 0)
	decision := Decide(rec, model.TierLeve)
	if decision.Kind != model.KindWarning {
		t.Errorf("expected warning, got %s", decision.Kind)
	}
	if decision.RequiresStaffReview {
		t.Error("warnings must not require staff review")
	}
}

func TestDecideExtremaAlwaysBanPending(t *testing.T) {
	records := []*model.InfractionRecord{
		recordWithCounts(t, 0, 0, 0, 1),
		recordWithCounts(t, 5, 5, 5, 5),
		recordWithCounts(t, 2, 1, 1, 1),
	}
	for _, rec := range records {
		decision := Decide(rec, model.TierExtrema)
		if decision.Kind != model.KindBanPending {
			t.Errorf("expected ban-pending for extrema with counts %v, got %s", rec.Counts, decision.Kind)
		}
		if !decision.RequiresStaffReview {
			t.Errorf("extrema ban must require staff review, counts %v", rec.Counts)
		}
	}
}

func TestDecideLeveThresholdMonotonicity(t *testing.T) {
	// Two light infractions: still a warning.
	rec := recordWithCounts(t, 2, 0, 0, 0)
	if decision := Decide(rec, model.TierLeve); decision.Kind != model.KindWarning {
		t.Errorf("expected warning at leve=2, got %s", decision.Kind)
	}

	// Third light infraction crosses the threshold.
	rec = recordWithCounts(t, 3, 0, 0, 0)
	decision := Decide(rec, model.TierLeve)
	if decision.Kind != model.KindMute {
		t.Fatalf("expected mute at leve=3, got %s", decision.Kind)
	}
	if decision.MuteDuration != 120*time.Minute {
		t.Errorf("leve-count mutes use the media duration: expected 120m, got %s", decision.MuteDuration)
	}
	if !decision.RequiresStaffReview {
		t.Error("threshold mutes must require staff review")
	}
}

func TestDecideMediaThresholdUsesGraveDuration(t *testing.T) {
	rec := recordWithCounts(t, 0, 2, 0, 0)
	decision := Decide(rec, model.TierMedia)
	if decision.Kind != model.KindMute {
		t.Fatalf("expected mute at media=2, got %s", decision.Kind)
	}
	if decision.MuteDuration != 1440*time.Minute {
		t.Errorf("media-count mutes use the grave duration: expected 1440m, got %s", decision.MuteDuration)
	}
}

func TestDecideMediaOverridesLeve(t *testing.T) {
	rec := recordWithCounts(t, 3, 2, 0, 0)
	decision := Decide(rec, model.TierMedia)
	if decision.MuteDuration != 1440*time.Minute {
		t.Errorf("media rule must override leve rule: expected 1440m, got %s", decision.MuteDuration)
	}
}

func TestDecideGraveOverridesMutes(t *testing.T) {
	rec := recordWithCounts(t, 3, 2, 2, 0)
	decision := Decide(rec, model.TierGrave)
	if decision.Kind != model.KindBanPending {
		t.Errorf("grave threshold must override mute rules, got %s", decision.Kind)
	}
	if !decision.RequiresStaffReview {
		t.Error("ban-pending must always require staff review")
	}
}

func TestMuteDurationTable(t *testing.T) {
	want := map[model.Tier]time.Duration{
		model.TierLeve:    30 * time.Minute,
		model.TierMedia:   120 * time.Minute,
		model.TierGrave:   1440 * time.Minute,
		model.TierExtrema: 4320 * time.Minute,
	}
	for tier, d := range want {
		if got := MuteDuration(tier); got != d {
			t.Errorf("MuteDuration(%s) = %s, want %s", tier, got, d)
		}
	}
}
