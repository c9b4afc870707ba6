package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Answer-bearing fields searched in object responses, in priority order.
var answerFields = []string{"query_result", "response", "reply", "answer"}

// QueryAdapter is the simple request/answer adapter: one GET with the prompt
// as a query parameter against a JSON endpoint. The response may be a single
// object carrying an answer field, or a homogeneous array of records.
type QueryAdapter struct {
	caller *Caller
	url    string
}

// NewQueryAdapter creates a query-style adapter for one domain endpoint.
func NewQueryAdapter(caller *Caller, endpoint string) *QueryAdapter {
	return &QueryAdapter{caller: caller, url: endpoint}
}

// Ask sends the prompt and normalizes the response to display text.
func (a *QueryAdapter) Ask(ctx context.Context, prompt string) (string, error) {
	status, body, err := a.caller.do(ctx, callRequest{
		method: "GET",
		url:    a.url,
		query:  url.Values{"prompt": []string{prompt}},
		accept: "application/json",
	})
	if err != nil {
		return "", err
	}
	if status != 200 {
		return "", &ProtocolError{Domain: a.caller.Domain(), Status: status, Msg: snippet(body)}
	}

	// Array responses are record listings.
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err == nil {
		return FormatItems(items), nil
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", &ProtocolError{Domain: a.caller.Domain(), Msg: "unparsable JSON response"}
	}

	for _, field := range answerFields {
		val, ok := obj[field]
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case string:
			return v, nil
		case []any:
			records := make([]map[string]any, 0, len(v))
			for _, el := range v {
				if rec, ok := el.(map[string]any); ok {
					records = append(records, rec)
				}
			}
			return FormatItems(records), nil
		default:
			return fmt.Sprintf("%v", v), nil
		}
	}

	return "", &ProtocolError{Domain: a.caller.Domain(), Msg: "no answer field in response"}
}

// snippet bounds a response body for error messages.
func snippet(body []byte) string {
	const max = 300
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}
