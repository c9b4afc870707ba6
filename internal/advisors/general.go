package advisors

import (
	"context"
	"log"

	"github.com/rcoe/askme/internal/backend"
	"github.com/rcoe/askme/internal/genai"
	"github.com/rcoe/askme/pkg/advisor"
)

const (
	generalMaxTokens   = 500
	generalTemperature = 0.7
)

// General handles general knowledge questions and natural-language data
// queries. Data-shaped questions go to the NL2SQL endpoint first; everything
// else (and NL2SQL failures) goes to the language model; with neither
// available it degrades to canned responses.
type General struct {
	query     *backend.QueryAdapter // nil when no NL2SQL endpoint is configured
	completer genai.Completer       // nil when no model is configured
	mock      bool
}

// NewGeneral creates the general advisor. Both backends are optional.
func NewGeneral(query *backend.QueryAdapter, completer genai.Completer, mock bool) *General {
	return &General{query: query, completer: completer, mock: mock}
}

func (g *General) Domain() advisor.Intent { return advisor.IntentGeneral }

func (g *General) Description() string {
	return "General inquiries, help, capabilities and natural-language data queries"
}

// Handle answers the query, preferring the NL2SQL endpoint for data
// questions and the model for everything else.
func (g *General) Handle(ctx context.Context, q advisor.Query) (advisor.Result, error) {
	if g.mock {
		return advisor.Result{Reply: MockReply(advisor.IntentGeneral, q.Text)}, nil
	}

	if IsDatabaseQuery(q.Text) && g.query != nil {
		log.Printf("[Advisor:general] Database query detected, trying NL2SQL endpoint")
		reply, err := g.query.Ask(ctx, q.Text)
		if err == nil {
			return advisor.Result{Reply: reply}, nil
		}
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		log.Printf("[Advisor:general] NL2SQL endpoint failed, falling back to model: %v", err)
	}

	if g.completer != nil {
		answer, err := g.completer.Complete(ctx, genai.Request{
			Prompt:      q.Text,
			MaxTokens:   generalMaxTokens,
			Temperature: generalTemperature,
		})
		if err != nil {
			if ctx.Err() != nil {
				return advisor.Result{}, ctx.Err()
			}
			log.Printf("[Advisor:general] Model call failed: %v", err)
			return advisor.Result{Reply: "I apologize, but I couldn't generate a response at this time. Please try again."}, nil
		}
		return advisor.Result{Reply: answer}, nil
	}

	return advisor.Result{Reply: MockReply(advisor.IntentGeneral, q.Text)}, nil
}
