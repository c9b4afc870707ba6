package advisors

import (
	"context"
	"log"

	"github.com/rcoe/askme/internal/backend"
	"github.com/rcoe/askme/pkg/advisor"
)

// HR answers policy, benefits and employee questions through the HR data
// endpoint, degrading to canned responses when the endpoint is unconfigured
// or unreachable.
type HR struct {
	query *backend.QueryAdapter // nil when no endpoint is configured
	mock  bool
}

// NewHR creates the HR advisor.
func NewHR(query *backend.QueryAdapter, mock bool) *HR {
	return &HR{query: query, mock: mock}
}

func (h *HR) Domain() advisor.Intent { return advisor.IntentHR }

func (h *HR) Description() string {
	return "HR policies, benefits, leave and employee matters"
}

// Handle passes the query through to the HR endpoint, falling back to the
// canned table on any failure.
func (h *HR) Handle(ctx context.Context, q advisor.Query) (advisor.Result, error) {
	if h.mock || h.query == nil {
		return advisor.Result{Reply: MockReply(advisor.IntentHR, q.Text)}, nil
	}

	reply, err := h.query.Ask(ctx, q.Text)
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		log.Printf("[Advisor:hr] Endpoint failed, using canned response: %v", err)
		return advisor.Result{Reply: MockReply(advisor.IntentHR, q.Text)}, nil
	}
	return advisor.Result{Reply: reply}, nil
}
