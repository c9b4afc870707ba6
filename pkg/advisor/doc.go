// Package advisor provides the type-safe Go definitions for the AskMe advisory
// pipeline: the closed domain enumeration, the query/result value objects, the
// Advisor capability, and the registry that holds all advisors for a process.
//
// # Overview
//
// AskMe classifies a free-text user request into one of several business domains
// and dispatches it to a domain-specific advisor. Each advisor wraps exactly one
// backend adapter (REST, SOAP, or polling-based export) and owns the parameter
// extraction and response formatting for its domain.
//
// # Core Concepts
//
// An Intent is one of a fixed, closed set of domain tags. Classification never
// produces a tag outside this set - an unrecognised model output is treated as
// "no decision", not as a new tag.
//
// An Advisor handles queries for one domain. Advisors are constructed once at
// startup from static configuration and registered with a Registry. A failed
// registration degrades the advisor set but never aborts startup of the others.
//
// A Result is the advisor's formatted text reply, optionally carrying a staged
// binary artifact reference (for PDF reports and workbook exports).
//
// # Usage Example
//
//	reg := advisor.NewRegistry()
//	reg.Register(financeAdvisor)
//	a, ok := reg.Lookup(advisor.IntentFinance)
//	if !ok {
//		a, _ = reg.Lookup(advisor.IntentGeneral)
//	}
//	res, err := a.Handle(ctx, advisor.Query{Text: "show me the budget"})
package advisor
