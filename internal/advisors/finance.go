package advisors

import (
	"context"
	"fmt"
	"log"

	"github.com/rcoe/askme/internal/artifact"
	"github.com/rcoe/askme/internal/backend"
	"github.com/rcoe/askme/pkg/advisor"
)

// Finance generates purchase order reports through the SOAP report engine.
// The generated document is staged in the artifact store; the reply carries
// only the reference.
type Finance struct {
	report *backend.BIPublisherAdapter
	store  artifact.Store
	mock   bool
}

// NewFinance creates the finance advisor.
func NewFinance(report *backend.BIPublisherAdapter, store artifact.Store, mock bool) *Finance {
	return &Finance{report: report, store: store, mock: mock}
}

func (f *Finance) Domain() advisor.Intent { return advisor.IntentFinance }

func (f *Finance) Description() string {
	return "Revenue, budget, expenses and purchase order report generation"
}

// Handle extracts the PO number and document format from the query, runs
// the report and stages the result for download.
func (f *Finance) Handle(ctx context.Context, q advisor.Query) (advisor.Result, error) {
	if f.mock || f.report == nil {
		return advisor.Result{Reply: MockReply(advisor.IntentFinance, q.Text)}, nil
	}

	poNumber := ExtractPONumber(q.Text)
	format := ExtractReportFormat(q.Text)
	log.Printf("[Advisor:finance] Running PO report for %s (format %s)", poNumber, format)

	bytes, err := f.report.Run(ctx, backend.ReportRequest{PONumber: poNumber, Format: format})
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		log.Printf("[Advisor:finance] Report generation failed: %v", err)
		return advisor.Result{Reply: failureReply("Finance report", err)}, nil
	}

	id, err := f.store.Stage(ctx, bytes, "pdf", string(advisor.IntentFinance))
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		log.Printf("[Advisor:finance] Failed to stage report: %v", err)
		return advisor.Result{Reply: "Report generated but could not be staged for download. Please try again."}, nil
	}
	log.Printf("[Advisor:finance] Report staged with id %s (%d bytes)", id, len(bytes))

	return advisor.Result{
		Reply: fmt.Sprintf("Purchase order report for PO %s is ready for download.", poNumber),
		Artifact: &advisor.ArtifactRef{
			ID:     id,
			Kind:   "pdf",
			Domain: advisor.IntentFinance,
		},
	}, nil
}
