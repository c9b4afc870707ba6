package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// OrderLine is one line of a sales order.
type OrderLine struct {
	LineNumber      json.Number `json:"LineNumber"`
	ItemNumber      string      `json:"ItemNumber"`
	OrderedQuantity json.Number `json:"OrderedQuantity"`
}

// OrderDetail is the detail-mode response for one order key.
type OrderDetail struct {
	OrderKey      string      `json:"OrderKey"`
	StatusCode    string      `json:"StatusCode"`
	SubmittedBy   string      `json:"SubmittedBy"`
	SubmittedDate string      `json:"SubmittedDate"`
	Lines         []OrderLine `json:"lines"`
}

// OrderSummary is one record of a list-mode response.
type OrderSummary struct {
	OrderKey       string `json:"OrderKey"`
	StatusCode     string `json:"StatusCode"`
	CreatedBy      string `json:"CreatedBy"`
	LastUpdateDate string `json:"LastUpdateDate"`
}

// ordersListResponse is the collection envelope of the orders endpoint.
type ordersListResponse struct {
	Items []OrderSummary `json:"items"`
}

// ErrOrderNotFound marks a detail lookup whose key matched nothing (HTTP 404).
// It is an expected outcome, not a backend failure.
type ErrOrderNotFound struct {
	Key string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("no sales order found for key/id %q", e.Key)
}

// OrdersAdapter is the detail-vs-list adapter for the sales order collection
// endpoint: GET {url}/{key} for one order, GET {url}?limit=N for recent
// orders.
type OrdersAdapter struct {
	caller *Caller
	url    string
}

// NewOrdersAdapter creates the order lookup adapter.
func NewOrdersAdapter(caller *Caller, endpoint string) *OrdersAdapter {
	return &OrdersAdapter{caller: caller, url: endpoint}
}

// Detail fetches one order by its key (SYSTEM:ID token or bare numeric id).
func (a *OrdersAdapter) Detail(ctx context.Context, key string) (*OrderDetail, error) {
	status, body, err := a.caller.do(ctx, callRequest{
		method: "GET",
		url:    a.url + "/" + key,
		accept: "application/json",
	})
	if err != nil {
		return nil, err
	}
	switch status {
	case 200:
	case 404:
		return nil, &ErrOrderNotFound{Key: key}
	default:
		return nil, &ProtocolError{Domain: a.caller.Domain(), Status: status, Msg: snippet(body)}
	}

	var detail OrderDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, &ProtocolError{Domain: a.caller.Domain(), Msg: "unparsable order detail response"}
	}
	if detail.OrderKey == "" {
		detail.OrderKey = key
	}
	return &detail, nil
}

// List fetches recent orders bounded by limit and sorts them descending by
// last-update timestamp. The timestamps are fixed-width ISO-like strings, so
// lexical comparison is sufficient; ties keep insertion order.
func (a *OrdersAdapter) List(ctx context.Context, limit int) ([]OrderSummary, error) {
	status, body, err := a.caller.do(ctx, callRequest{
		method: "GET",
		url:    a.url,
		query:  url.Values{"limit": []string{fmt.Sprintf("%d", limit)}},
		accept: "application/json",
	})
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, &ProtocolError{Domain: a.caller.Domain(), Status: status, Msg: snippet(body)}
	}

	var resp ordersListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProtocolError{Domain: a.caller.Domain(), Msg: "unparsable order list response"}
	}

	items := resp.Items
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LastUpdateDate > items[j].LastUpdateDate
	})
	return items, nil
}
