package moderation

import (
	"testing"

	"automod-bot/model"
)

func TestSeverityOfDefaultsToLeve(t *testing.T) {
	if tier := SeverityOf("mild spam"); tier != model.TierLeve {
		t.Errorf("expected leve for unmatched explanation, got %s", tier)
	}
	if tier := SeverityOf(""); tier != model.TierLeve {
		t.Errorf("expected leve for empty explanation, got %s", tier)
	}
}

func TestSeverityOfTierKeywords(t *testing.T) {
	cases := []struct {
		explanation string
		want        model.Tier
	}{
		{"message contains illegal content", model.TierExtrema},
		{"attempted doxxing of another member", model.TierExtrema},
		{"harassment targeting another user", model.TierGrave},
		{"discriminatory language", model.TierGrave},
		{"privacy violation", model.TierGrave},
		{"direct insult", model.TierGrave},
		{"political flamebait", model.TierMedia},
		{"religious provocation", model.TierMedia},
		{"light profanity", model.TierLeve},
	}

	for _, tc := range cases {
		if got := SeverityOf(tc.explanation); got != tc.want {
			t.Errorf("SeverityOf(%q) = %s, want %s", tc.explanation, got, tc.want)
		}
	}
}

func TestSeverityOfCaseInsensitive(t *testing.T) {
	if tier := SeverityOf("HARASSMENT and INSULTS"); tier != model.TierGrave {
		t.Errorf("expected grave regardless of case, got %s", tier)
	}
}

func TestSeverityOfPriorityOrdering(t *testing.T) {
	// An explanation matching both extrema and lower-tier keywords must
	// classify at the highest matching tier.
	explanation := "illegal content mixed with political commentary and insults"
	if tier := SeverityOf(explanation); tier != model.TierExtrema {
		t.Errorf("expected extrema to win over lower tiers, got %s", tier)
	}

	explanation = "insulting remarks about a political topic"
	if tier := SeverityOf(explanation); tier != model.TierGrave {
		t.Errorf("expected grave to win over media, got %s", tier)
	}
}

func TestSeverityOfDeterministic(t *testing.T) {
	explanation := "harassment with political undertones"
	first := SeverityOf(explanation)
	for i := 0; i < 10; i++ {
		if got := SeverityOf(explanation); got != first {
			t.Fatalf("SeverityOf is not deterministic: got %s then %s", first, got)
		}
	}
}
