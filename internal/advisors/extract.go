// Package advisors implements the domain advisors: one handler per domain
// tag that extracts parameters from the raw query text, calls its backend
// adapter and formats a user-facing reply. Advisors never fail a query for
// backend reasons; failures become explanatory reply text so one broken
// domain cannot take down a multi-domain answer.
package advisors

import (
	"regexp"
	"strings"
)

// Parameter extraction patterns. Queries are free text, so parameters are
// recognised by shape: order keys are SYSTEM:ID tokens or long numeric ids,
// PO numbers are 5-6 digit tokens, workbook ids are long base64 tokens.
var (
	orderKeyPattern   = regexp.MustCompile(`\b[A-Z]{2,10}:\d{9,}\b`)
	orderNumericIDPat = regexp.MustCompile(`\b\d{9,15}\b`)
	poNumberPattern   = regexp.MustCompile(`\b\d{5,6}\b`)
	limitPattern      = regexp.MustCompile(`\b(?:last|limit|top|first)\s+(\d+)\b`)
	workbookIDPattern = regexp.MustCompile(`\b[A-Za-z0-9+/=]{20,}\b`)
)

// DefaultPONumber is used when the query names no purchase order.
const DefaultPONumber = "55269"

// DefaultListLimit bounds order listings when the query names no count.
const DefaultListLimit = 10

// ExtractOrderKey finds an order identifier in the query: first a
// SYSTEM:ID token (e.g. OPS:300000203741093), then a bare long numeric id.
// Returns "" when the query is a listing request rather than a lookup.
func ExtractOrderKey(query string) string {
	if m := orderKeyPattern.FindString(query); m != "" {
		return m
	}
	return orderNumericIDPat.FindString(query)
}

// ExtractPONumber finds a purchase order number, defaulting when absent.
func ExtractPONumber(query string) string {
	if m := poNumberPattern.FindString(query); m != "" {
		return m
	}
	return DefaultPONumber
}

// ExtractLimit finds a "last N" / "top N" style bound, defaulting when absent.
func ExtractLimit(query string) int {
	m := limitPattern.FindStringSubmatch(strings.ToLower(query))
	if m == nil {
		return DefaultListLimit
	}
	n := 0
	for _, c := range m[1] {
		n = n*10 + int(c-'0')
	}
	if n <= 0 {
		return DefaultListLimit
	}
	return n
}

// ExtractWorkbookID finds an explicit base64-shaped workbook id in the
// query. Returns "" when the configured default should be used.
func ExtractWorkbookID(query string) string {
	return workbookIDPattern.FindString(query)
}

// ExtractReportFormat resolves the document format for the SOAP report
// engine: pdf, xls, html or xml.
func ExtractReportFormat(query string) string {
	ql := strings.ToLower(query)
	switch {
	case strings.Contains(ql, "excel"), strings.Contains(ql, "xls"):
		return "xls"
	case strings.Contains(ql, "html"):
		return "html"
	case strings.Contains(ql, "xml"):
		return "xml"
	default:
		return "pdf"
	}
}

// ExtractExportFormat resolves the workbook export format: pdf, png, xlsx
// or csv.
func ExtractExportFormat(query string) string {
	ql := strings.ToLower(query)
	switch {
	case strings.Contains(ql, "png"):
		return "png"
	case strings.Contains(ql, "excel"), strings.Contains(ql, "xlsx"):
		return "xlsx"
	case strings.Contains(ql, "csv"):
		return "csv"
	default:
		return "pdf"
	}
}

// databaseKeywords mark a query as a data question answerable by the
// NL2SQL endpoint rather than the general knowledge model.
var databaseKeywords = []string{
	"list", "show", "get", "find", "search", "query", "select", "count", "sum", "average",
	"table", "database", "record", "data", "customer", "employee", "product", "item",
	"all", "total", "how many", "sql", "translate",
}

// IsDatabaseQuery reports whether the query looks like a data question.
func IsDatabaseQuery(query string) bool {
	ql := strings.ToLower(query)
	for _, kw := range databaseKeywords {
		if strings.Contains(ql, kw) {
			return true
		}
	}
	return false
}
