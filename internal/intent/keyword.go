package intent

import (
	"context"
	"strings"

	"github.com/rcoe/askme/pkg/advisor"
)

// Trigger substrings per domain. A domain is selected when any of its triggers
// occurs case-insensitively in the query text.
var keywordTriggers = map[advisor.Intent][]string{
	advisor.IntentGeneral: {
		"general", "help", "what can you do", "capabilities", "services",
		"assist", "how can", "what do you", "tell me about", "who are you",
		"what services", "nlp", "nlp2sql",
	},
	advisor.IntentFinance: {
		"finance", "revenue", "budget", "expense", "cost", "money",
		"financial", "profit", "loss",
	},
	advisor.IntentHR: {
		"hr", "policy", "benefit", "leave", "employee", "work",
		"holiday", "vacation", "staff",
	},
	advisor.IntentOrders: {
		"order", "inventory", "delivery", "return", "shipping", "stock",
		"product", "item", "sales",
	},
	advisor.IntentReports: {
		"workbook", "analytics", "export", "oac", "dashboard", "visualization",
	},
}

// Domains checked for fan-out, in match order. General is handled separately:
// a general trigger short-circuits to the general domain alone.
var keywordMatchOrder = []advisor.Intent{
	advisor.IntentFinance,
	advisor.IntentHR,
	advisor.IntentOrders,
	advisor.IntentReports,
}

// Keyword is the deterministic multi-label strategy. A query containing
// several domains' vocabulary selects every matched domain; this is the one
// case where multiple advisors are invoked for a single query.
type Keyword struct{}

// NewKeyword creates the keyword classifier.
func NewKeyword() *Keyword {
	return &Keyword{}
}

// Classify always decides. Selection rules, in order:
//  1. any general trigger routes to general alone;
//  2. every specific domain with a trigger hit is selected, in match order;
//  3. with no hits at all, general.
func (k *Keyword) Classify(ctx context.Context, text string) Outcome {
	lower := strings.ToLower(text)

	if matchesAny(lower, keywordTriggers[advisor.IntentGeneral]) {
		return Outcome{Decided: true, Tags: []advisor.Intent{advisor.IntentGeneral}, Source: SourceKeyword}
	}

	var tags []advisor.Intent
	for _, domain := range keywordMatchOrder {
		if matchesAny(lower, keywordTriggers[domain]) {
			tags = append(tags, domain)
		}
	}
	if len(tags) > 0 {
		return Outcome{Decided: true, Tags: tags, Source: SourceKeyword}
	}

	return Outcome{Decided: true, Tags: []advisor.Intent{advisor.IntentGeneral}, Source: SourceKeyword}
}

func matchesAny(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
