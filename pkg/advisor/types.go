package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Intent is a domain tag from the closed enumeration. Every classification
// outcome is expressed in these tags; there is no open-ended routing.
type Intent string

const (
	// IntentGeneral handles general inquiries, help, capabilities and NL2SQL queries
	IntentGeneral Intent = "general"

	// IntentFinance handles revenue, budget, expenses and BI Publisher report requests
	IntentFinance Intent = "finance"

	// IntentHR handles policies, benefits, leave and employee matters
	IntentHR Intent = "hr"

	// IntentOrders handles sales orders, inventory, delivery and returns
	IntentOrders Intent = "orders"

	// IntentReports handles analytics workbooks, dashboards and OAC exports
	IntentReports Intent = "reports"
)

// AllIntents lists every valid domain tag in display order.
// The order is stable and used when rendering advisor lists.
func AllIntents() []Intent {
	return []Intent{IntentGeneral, IntentFinance, IntentHR, IntentOrders, IntentReports}
}

// Validate checks if the Intent is a valid enum value.
func (i Intent) Validate() error {
	switch i {
	case IntentGeneral, IntentFinance, IntentHR, IntentOrders, IntentReports:
		return nil
	default:
		return fmt.Errorf("unknown intent: %q", i)
	}
}

// ParseIntent normalises a raw label (case-insensitive, trimmed) into an Intent.
// Returns false for anything outside the closed enumeration, including empty
// strings - callers must treat that as "no decision", never as a new tag.
func ParseIntent(s string) (Intent, bool) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if i.Validate() != nil {
		return "", false
	}
	return i, true
}

// Query is the immutable per-request value routed through the pipeline.
// It is created for one inbound request and discarded when routing completes.
type Query struct {
	Text      string // Raw user text, already trimmed by the inbound boundary
	SessionID string // Optional caller-supplied session id, passed through unchanged
}

// ArtifactRef points at binary output staged in the artifact store.
// Advisors return it instead of embedding bytes in the reply text; only the
// outward edge serialises it to the legacy marker string.
type ArtifactRef struct {
	ID     string // Store id of the staged bytes
	Kind   string // "pdf" or "report:<format>" (e.g. "report:xlsx")
	Domain Intent // Domain that produced the artifact
}

// Result is an advisor's answer to one query.
type Result struct {
	Reply    string       // Formatted text reply for the user
	Artifact *ArtifactRef // Non-nil when binary output was staged
}

// Status is the lifecycle state of an advisor in the registry.
type Status string

const (
	// StatusUnregistered is the initial state before Register is called
	StatusUnregistered Status = "unregistered"

	// StatusRegistered means the advisor is available for routing
	StatusRegistered Status = "registered"

	// StatusFailed means registration was attempted and rejected (bad configuration)
	StatusFailed Status = "failed"
)

// Validate checks if the Status is a valid enum value.
func (s Status) Validate() error {
	switch s {
	case StatusUnregistered, StatusRegistered, StatusFailed:
		return nil
	default:
		return fmt.Errorf("unknown advisor status: %q", s)
	}
}

// Info is the registry's metadata record for one advisor.
type Info struct {
	Domain       Intent    // Domain tag the advisor serves
	Description  string    // Human description shown by the advisors command
	Status       Status    // Current lifecycle state
	RegisteredAt time.Time // Stamped on successful registration, zero otherwise
}

// Advisor is the uniform capability every domain handler implements.
// Handle must convert every backend failure into a formatted, domain-scoped
// error reply rather than returning an error; the error return is reserved
// for context cancellation.
type Advisor interface {
	// Domain returns the tag this advisor serves.
	Domain() Intent

	// Description returns a short human description for registry listings.
	Description() string

	// Handle processes one query and returns the formatted result.
	Handle(ctx context.Context, q Query) (Result, error)
}
