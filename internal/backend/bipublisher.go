package backend

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
)

// runReport SOAP envelope for the BI Publisher report service. The PO number,
// output format and report path are the only variable parts.
const runReportEnvelope = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope" xmlns:pub="http://xmlns.oracle.com/oxp/service/PublicReportService">
   <soap:Header/>
   <soap:Body>
      <pub:runReport>
         <pub:reportRequest>
            <pub:attributeFormat>%s</pub:attributeFormat>
            <pub:parameterNameValues>
               <pub:item>
                  <pub:name>P_PO_NUM</pub:name>
                  <pub:values>
                     <pub:item>%s</pub:item>
                  </pub:values>
               </pub:item>
            </pub:parameterNameValues>
            <pub:reportAbsolutePath>%s</pub:reportAbsolutePath>
            <pub:sizeOfDataChunkDownload>-1</pub:sizeOfDataChunkDownload>
         </pub:reportRequest>
         <pub:appParams></pub:appParams>
      </pub:runReport>
   </soap:Body>
</soap:Envelope>`

// reportBytesPattern extracts the embedded base64 payload. The namespace
// prefix varies between BI Publisher deployments (ns2:, pub:, ...), so the
// prefix is matched loosely rather than parsed.
var reportBytesPattern = regexp.MustCompile(`<[^:]+:reportBytes>([^<]+)</[^:]+:reportBytes>`)

// ReportRequest is the normalized input for one report run.
type ReportRequest struct {
	PONumber string // Purchase order parameter fed to the report
	Format   string // Output attribute format: pdf, xls, html or xml
}

// BIPublisherAdapter is the document-generation adapter: one structured SOAP
// request to a report engine, returning the decoded report bytes.
type BIPublisherAdapter struct {
	caller     *Caller
	url        string
	reportPath string
}

// NewBIPublisherAdapter creates the report adapter for one report service.
func NewBIPublisherAdapter(caller *Caller, endpoint, reportPath string) *BIPublisherAdapter {
	return &BIPublisherAdapter{caller: caller, url: endpoint, reportPath: reportPath}
}

// Run executes the report and returns the decoded document bytes.
// Any non-success status or missing reportBytes field is a protocol failure.
func (a *BIPublisherAdapter) Run(ctx context.Context, req ReportRequest) ([]byte, error) {
	envelope := fmt.Sprintf(runReportEnvelope, req.Format, req.PONumber, a.reportPath)

	status, body, err := a.caller.do(ctx, callRequest{
		method:      "POST",
		url:         a.url,
		contentType: "application/soap+xml; charset=UTF-8",
		body:        []byte(envelope),
	})
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, &ProtocolError{Domain: a.caller.Domain(), Status: status, Msg: snippet(body)}
	}

	match := reportBytesPattern.FindSubmatch(body)
	if match == nil {
		return nil, &ProtocolError{Domain: a.caller.Domain(), Msg: "no reportBytes field in SOAP response"}
	}

	decoded, err := base64.StdEncoding.DecodeString(string(match[1]))
	if err != nil {
		return nil, &ProtocolError{Domain: a.caller.Domain(), Msg: "reportBytes is not valid base64"}
	}
	return decoded, nil
}
