package moderation

import (
	"strings"

	"automod-bot/model"
)

// severityRule maps one tier to its keyword set. Rules are evaluated in
// declaration order and the first match wins, so a reason matching both
// an extrema and a media keyword classifies as extrema. Reordering the
// rules would silently downgrade severities; keep them sorted from most
// to least severe.
type severityRule struct {
	tier     model.Tier
	keywords []string
}

var severityRules = []severityRule{
	{
		tier: model.TierExtrema,
		keywords: []string{
			"illegal",
			"dox",
			"exploit",
			"grooming",
			"minor",
		},
	},
	{
		tier: model.TierGrave,
		keywords: []string{
			"harass",
			"discriminat",
			"privacy",
			"insult",
			"slur",
			"hate",
			"threat",
		},
	},
	{
		tier: model.TierMedia,
		keywords: []string{
			"politic",
			"religio",
			"controvers",
			"sensitive",
		},
	},
}

// SeverityOf maps a classifier explanation to a severity tier via
// case-insensitive substring matching. It always returns a tier; an
// explanation matching no keyword set falls through to leve.
func SeverityOf(explanation string) model.Tier {
	lowered := strings.ToLower(explanation)
	for _, rule := range severityRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.tier
			}
		}
	}
	return model.TierLeve
}
