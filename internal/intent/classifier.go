// Package intent implements dual-mode intent classification: a model-based
// single-label classifier with a deterministic keyword fallback, composed
// behind one interface by a process-wide mode switch.
package intent

import (
	"context"
	"log"

	"github.com/rcoe/askme/pkg/advisor"
)

// Classification mode switch values, read once at startup.
const (
	ModeOff   = "off"   // Always keyword
	ModeForce = "force" // Always model; degrade to keyword when undecided
	ModeAuto  = "auto"  // Try model first, degrade to keyword when undecided
)

// Source records which strategy produced a decision.
type Source string

const (
	SourceModel   Source = "model"
	SourceKeyword Source = "keyword"
)

// Outcome is the result of classifying one query.
// Decided outcomes carry at least one tag; keyword mode may carry several,
// in the order the domains were matched. Model mode always yields exactly one.
type Outcome struct {
	Decided bool
	Tags    []advisor.Intent
	Source  Source
}

// Undecided is the zero outcome: no decision was reached.
var Undecided = Outcome{}

// Classifier turns raw query text into a classification outcome.
// Implementations never surface network or service failures to the caller;
// those degrade to an undecided outcome.
type Classifier interface {
	Classify(ctx context.Context, text string) Outcome
}

// Switch composes the model and keyword strategies under the configured mode.
// The mode is immutable for the process lifetime.
type Switch struct {
	mode    string
	model   Classifier
	keyword *Keyword
}

// NewSwitch builds the composed classifier. model may be nil when mode is off.
func NewSwitch(mode string, model Classifier, keyword *Keyword) *Switch {
	return &Switch{mode: mode, model: model, keyword: keyword}
}

// Classify applies the mode switch: model first (unless off), keyword as the
// degrade path. The keyword strategy always decides (it falls back to the
// general domain), so the composed classifier never returns undecided unless
// the keyword classifier itself is absent.
func (s *Switch) Classify(ctx context.Context, text string) Outcome {
	if s.mode != ModeOff && s.model != nil {
		if out := s.model.Classify(ctx, text); out.Decided {
			log.Printf("[Classifier] Model routed to: %s", out.Tags[0])
			return out
		}
		if s.mode == ModeForce {
			log.Printf("[Classifier] Model undecided under force mode; degrading to keyword")
		} else {
			log.Printf("[Classifier] Model undecided; degrading to keyword")
		}
	}
	if s.keyword == nil {
		return Undecided
	}
	return s.keyword.Classify(ctx, text)
}
