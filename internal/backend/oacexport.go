package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// Export polling contract. The export job is given a fixed settle period,
// then the completed artifact is fetched up to DownloadAttempts times with a
// fixed inter-attempt delay, short-circuiting on the first success. These
// constants are part of the observable contract of the reports domain.
const (
	ExportSettleDelay  = 30 * time.Second
	DownloadAttempts   = 3
	DownloadRetryDelay = 10 * time.Second
	exportAPIVersion   = "20210901"
	exportCanvasID     = "snapshot!canvas!1"
	exportScreenWidth  = 1440
	exportScreenHeight = 900
	resourceURIExports = "/exports/"
)

// exportInitRequest is the export-initiation payload.
type exportInitRequest struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	CanvasIDs    []string `json:"canvasIds"`
	Format       string   `json:"format"`
	ScreenWidth  int      `json:"screenwidth"`
	ScreenHeight int      `json:"screenheight"`
}

// exportInitResponse carries the job identity in one of two shapes.
type exportInitResponse struct {
	ResourceURI string `json:"resourceUri"`
	ExportID    string `json:"exportId"`
}

// ExportResult is a completed export with attempt accounting.
type ExportResult struct {
	Bytes    []byte
	Attempts int // Download attempts actually made (1..DownloadAttempts)
}

// OACExportAdapter is the asynchronous export-and-poll adapter for the
// analytics workbook export API. The two-phase protocol is: initiate the
// export, wait for the job to materialise, then poll for the completed
// artifact. Waits go through the injected Sleeper so they are cancellable and
// testable; while real, they block only the goroutine handling this query.
type OACExportAdapter struct {
	caller  *Caller
	baseURL string
	sleeper Sleeper

	// Polling knobs default to the contract constants above.
	SettleDelay time.Duration
	Attempts    int
	RetryDelay  time.Duration
}

// NewOACExportAdapter creates the export adapter for one OAC instance.
func NewOACExportAdapter(caller *Caller, baseURL string, sleeper Sleeper) *OACExportAdapter {
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	return &OACExportAdapter{
		caller:      caller,
		baseURL:     strings.TrimRight(baseURL, "/"),
		sleeper:     sleeper,
		SettleDelay: ExportSettleDelay,
		Attempts:    DownloadAttempts,
		RetryDelay:  DownloadRetryDelay,
	}
}

// Export runs the full two-phase protocol for one workbook and returns the
// downloaded artifact bytes. Exhausting every download attempt is a hard
// failure wrapping ErrExportExhausted.
func (a *OACExportAdapter) Export(ctx context.Context, workbookID, format string) (*ExportResult, error) {
	exportID, err := a.initiate(ctx, workbookID, format)
	if err != nil {
		return nil, err
	}
	log.Printf("[Backend:%s] Export initiated with id %s; waiting %s for job to complete",
		a.caller.Domain(), exportID, a.SettleDelay)

	if err := a.sleeper.Sleep(ctx, a.SettleDelay); err != nil {
		return nil, &TransportError{Domain: a.caller.Domain(), Err: err}
	}

	downloadURL := fmt.Sprintf("%s/api/%s/catalog/workbooks/%s/exports/%s",
		a.baseURL, exportAPIVersion, workbookID, exportID)

	for attempt := 1; attempt <= a.Attempts; attempt++ {
		log.Printf("[Backend:%s] Download attempt %d/%d", a.caller.Domain(), attempt, a.Attempts)

		status, body, err := a.caller.do(ctx, callRequest{method: "GET", url: downloadURL})
		if err == nil && status == 200 {
			return &ExportResult{Bytes: body, Attempts: attempt}, nil
		}
		if err != nil {
			log.Printf("[Backend:%s] Download attempt %d failed: %v", a.caller.Domain(), attempt, err)
		} else {
			log.Printf("[Backend:%s] Download attempt %d failed with HTTP %d", a.caller.Domain(), attempt, status)
		}

		if attempt < a.Attempts {
			if serr := a.sleeper.Sleep(ctx, a.RetryDelay); serr != nil {
				return nil, &TransportError{Domain: a.caller.Domain(), Err: serr}
			}
		}
	}

	return nil, fmt.Errorf("%w (%d attempts)", ErrExportExhausted, a.Attempts)
}

// initiate POSTs the export request and extracts the job identifier, taking
// the path segment after the exports marker in the URI-shaped field, with the
// bare exportId field as fallback.
func (a *OACExportAdapter) initiate(ctx context.Context, workbookID, format string) (string, error) {
	initURL := fmt.Sprintf("%s/api/%s/catalog/workbooks/%s/exports", a.baseURL, exportAPIVersion, workbookID)

	payload, err := json.Marshal(exportInitRequest{
		Name:         "Absence Workbook Report",
		Type:         "file",
		CanvasIDs:    []string{exportCanvasID},
		Format:       format,
		ScreenWidth:  exportScreenWidth,
		ScreenHeight: exportScreenHeight,
	})
	if err != nil {
		return "", &ProtocolError{Domain: a.caller.Domain(), Msg: "cannot marshal export request: " + err.Error()}
	}

	status, body, err := a.caller.do(ctx, callRequest{
		method:      "POST",
		url:         initURL,
		contentType: "application/json",
		accept:      "application/json",
		body:        payload,
	})
	if err != nil {
		return "", err
	}
	if status != 200 && status != 201 && status != 202 {
		return "", &ProtocolError{Domain: a.caller.Domain(), Status: status, Msg: snippet(body)}
	}

	var resp exportInitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ProtocolError{Domain: a.caller.Domain(), Msg: "unparsable export-initiation response"}
	}

	if idx := strings.LastIndex(resp.ResourceURI, resourceURIExports); idx != -1 {
		if id := resp.ResourceURI[idx+len(resourceURIExports):]; id != "" {
			return id, nil
		}
	}
	if resp.ExportID != "" {
		return resp.ExportID, nil
	}
	return "", &ProtocolError{Domain: a.caller.Domain(), Msg: "no export id in initiation response"}
}
