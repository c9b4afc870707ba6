package advisors

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rcoe/askme/internal/artifact"
	"github.com/rcoe/askme/internal/backend"
	"github.com/rcoe/askme/pkg/advisor"
)

// Reports exports analytics workbooks through the asynchronous export API
// and stages the downloaded document in the artifact store.
type Reports struct {
	export     *backend.OACExportAdapter
	store      artifact.Store
	workbookID string
	mock       bool
}

// NewReports creates the reports advisor. workbookID is the default
// workbook exported when the query does not name one.
func NewReports(export *backend.OACExportAdapter, store artifact.Store, workbookID string, mock bool) *Reports {
	return &Reports{export: export, store: store, workbookID: workbookID, mock: mock}
}

func (r *Reports) Domain() advisor.Intent { return advisor.IntentReports }

func (r *Reports) Description() string {
	return "Analytics workbooks, dashboards and OAC exports"
}

// Handle exports the workbook and stages the document for download. The
// export protocol blocks this query through its settle and polling waits;
// concurrent queries are unaffected.
func (r *Reports) Handle(ctx context.Context, q advisor.Query) (advisor.Result, error) {
	if r.mock || r.export == nil {
		return advisor.Result{Reply: MockReply(advisor.IntentReports, q.Text)}, nil
	}

	workbookID := ExtractWorkbookID(q.Text)
	if workbookID == "" {
		workbookID = r.workbookID
	}
	format := ExtractExportFormat(q.Text)
	log.Printf("[Advisor:reports] Exporting workbook %s (format %s)", workbookID, format)

	result, err := r.export.Export(ctx, workbookID, format)
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		log.Printf("[Advisor:reports] Export failed: %v", err)
		return advisor.Result{Reply: failureReply("Reports", err)}, nil
	}

	kind := "report:" + format
	id, err := r.store.Stage(ctx, result.Bytes, kind, string(advisor.IntentReports))
	if err != nil {
		if ctx.Err() != nil {
			return advisor.Result{}, ctx.Err()
		}
		log.Printf("[Advisor:reports] Failed to stage export: %v", err)
		return advisor.Result{Reply: "Workbook exported but could not be staged for download. Please try again."}, nil
	}
	log.Printf("[Advisor:reports] Export staged with id %s (%d bytes, %d download attempts)",
		id, len(result.Bytes), result.Attempts)

	return advisor.Result{
		Reply: fmt.Sprintf("Workbook export (%s) completed successfully and is ready for download.", strings.ToUpper(format)),
		Artifact: &advisor.ArtifactRef{
			ID:     id,
			Kind:   kind,
			Domain: advisor.IntentReports,
		},
	}, nil
}
