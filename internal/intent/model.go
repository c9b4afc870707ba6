package intent

import (
	"context"
	"fmt"
	"log"

	"github.com/rcoe/askme/internal/genai"
	"github.com/rcoe/askme/pkg/advisor"
)

// classificationInstruction constrains the model to emit exactly one token
// from the closed domain enumeration.
const classificationInstruction = `You are an intent classification assistant for an enterprise advisory system.
Based on the user's question, determine which advisor should handle it.

Available advisors:
- general: General inquiries, help, capabilities, services overview
- finance: Revenue, budget, expenses, costs, financial reports, profit/loss
- hr: HR policies, benefits, leave, employee matters, work policies, holidays
- orders: Sales orders, inventory, delivery, returns, shipping, stock, products
- reports: Analytics, workbooks, dashboards, OAC exports, visualizations

Respond with ONLY ONE WORD - the advisor name (general, finance, hr, orders, or reports).
If the query could match multiple advisors, choose the most relevant one.

User question: %s

Answer (one word only):`

// Temperature is held low for deterministic classification; the answer is a
// single label so the token budget is tiny.
const (
	classifyMaxTokens   = 10
	classifyTemperature = 0.1
)

// Model is the model-based single-label strategy. Service failures and labels
// outside the enumeration both surface as undecided, never as errors.
type Model struct {
	completer genai.Completer
}

// NewModel creates the model classifier on top of a chat completer.
func NewModel(completer genai.Completer) *Model {
	return &Model{completer: completer}
}

// Classify asks the chat endpoint for a one-word label and validates it
// against the closed enumeration.
func (m *Model) Classify(ctx context.Context, text string) Outcome {
	prompt := fmt.Sprintf(classificationInstruction, text)

	raw, err := m.completer.Complete(ctx, genai.Request{
		Prompt:      prompt,
		MaxTokens:   classifyMaxTokens,
		Temperature: classifyTemperature,
	})
	if err != nil {
		log.Printf("[Classifier] Model call failed: %v", err)
		return Undecided
	}

	tag, ok := advisor.ParseIntent(raw)
	if !ok {
		log.Printf("[Classifier] Model returned invalid label: %q", raw)
		return Undecided
	}

	return Outcome{Decided: true, Tags: []advisor.Intent{tag}, Source: SourceModel}
}
