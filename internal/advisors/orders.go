package advisors

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rcoe/askme/internal/backend"
	"github.com/rcoe/askme/pkg/advisor"
)

// detailLineCap bounds the order lines shown in a detail summary.
const detailLineCap = 5

// Orders answers sales order questions. A query naming an order key gets a
// detail summary; anything else gets a recent-orders listing.
type Orders struct {
	orders *backend.OrdersAdapter
	mock   bool
}

// NewOrders creates the orders advisor.
func NewOrders(orders *backend.OrdersAdapter, mock bool) *Orders {
	return &Orders{orders: orders, mock: mock}
}

func (o *Orders) Domain() advisor.Intent { return advisor.IntentOrders }

func (o *Orders) Description() string {
	return "Sales orders, inventory, delivery and returns"
}

// Handle dispatches on whether the query names a specific order.
func (o *Orders) Handle(ctx context.Context, q advisor.Query) (advisor.Result, error) {
	if o.mock || o.orders == nil {
		return advisor.Result{Reply: MockReply(advisor.IntentOrders, q.Text)}, nil
	}

	if key := ExtractOrderKey(q.Text); key != "" {
		return o.detail(ctx, key)
	}
	return o.list(ctx, ExtractLimit(q.Text))
}

func (o *Orders) detail(ctx context.Context, key string) (advisor.Result, error) {
	log.Printf("[Advisor:orders] Fetching order detail for %s", key)

	detail, err := o.orders.Detail(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		var notFound *backend.ErrOrderNotFound
		if errors.As(err, &notFound) {
			return advisor.Result{Reply: fmt.Sprintf("No sales order found for key/id '%s'.", key)}, nil
		}
		log.Printf("[Advisor:orders] Detail lookup failed: %v", err)
		return advisor.Result{Reply: failureReply("Orders", err)}, nil
	}

	lines := detail.Lines
	if len(lines) > detailLineCap {
		lines = lines[:detailLineCap]
	}
	lineSummaries := make([]string, 0, len(lines))
	for _, ln := range lines {
		lineSummaries = append(lineSummaries, fmt.Sprintf("Line %s: %s x%s", ln.LineNumber, ln.ItemNumber, ln.OrderedQuantity))
	}
	linesText := "(No line details returned)"
	if len(lineSummaries) > 0 {
		linesText = strings.Join(lineSummaries, "\n")
	}

	reply := fmt.Sprintf("Order %s\nStatus: %s\nSubmitted By: %s on %s\n\nTop Lines:\n%s",
		detail.OrderKey, detail.StatusCode, detail.SubmittedBy, detail.SubmittedDate, linesText)
	return advisor.Result{Reply: reply}, nil
}

func (o *Orders) list(ctx context.Context, limit int) (advisor.Result, error) {
	log.Printf("[Advisor:orders] Listing recent orders (limit %d)", limit)

	items, err := o.orders.List(ctx, limit)
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		log.Printf("[Advisor:orders] List failed: %v", err)
		return advisor.Result{Reply: failureReply("Orders", err)}, nil
	}
	if len(items) == 0 {
		return advisor.Result{Reply: "No recent sales orders were returned by the API."}, nil
	}

	total := len(items)
	display := items
	if total > backend.DisplayCap {
		display = items[:backend.DisplayCap]
	}

	rows := make([]string, 0, len(display))
	for _, it := range display {
		rows = append(rows, fmt.Sprintf("• %s | Status: %s | By: %s | Updated: %s",
			it.OrderKey, it.StatusCode, it.CreatedBy, it.LastUpdateDate))
	}

	reply := fmt.Sprintf("Recent Sales Orders (showing %d of %d):\n%s", len(display), total, strings.Join(rows, "\n"))
	if total > backend.DisplayCap {
		reply += fmt.Sprintf("\n\nShowing first %d of %d orders. Use specific Order ID for details.", backend.DisplayCap, total)
	}
	return advisor.Result{Reply: reply}, nil
}
