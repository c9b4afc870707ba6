package advisors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOrderKey(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"system-qualified key", "show me order OPS:300000203741093 please", "OPS:300000203741093"},
		{"bare numeric id", "what happened to 300000203741093", "300000203741093"},
		{"qualified wins over bare", "compare GPR:300000111111111 with 300000222222222", "GPR:300000111111111"},
		{"short numbers ignored", "show my last 5 orders", ""},
		{"listing request", "show me recent sales orders", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOrderKey(tt.query))
		})
	}
}

func TestExtractPONumber(t *testing.T) {
	assert.Equal(t, "55270", ExtractPONumber("generate report for PO 55270"))
	assert.Equal(t, "123456", ExtractPONumber("purchase order 123456 report"))
	assert.Equal(t, DefaultPONumber, ExtractPONumber("generate the PO report"))
}

func TestExtractLimit(t *testing.T) {
	assert.Equal(t, 5, ExtractLimit("show my last 5 orders"))
	assert.Equal(t, 20, ExtractLimit("Top 20 sales orders"))
	assert.Equal(t, 3, ExtractLimit("limit 3"))
	assert.Equal(t, DefaultListLimit, ExtractLimit("show recent orders"))
}

func TestExtractWorkbookID(t *testing.T) {
	assert.Equal(t, "L3NoYXJlZC9SQ09FL0Fic2VuY2UgV29ya2Jvb2s",
		ExtractWorkbookID("export workbook L3NoYXJlZC9SQ09FL0Fic2VuY2UgV29ya2Jvb2s as pdf"))
	assert.Empty(t, ExtractWorkbookID("export the absence workbook"))
}

func TestExtractReportFormat(t *testing.T) {
	assert.Equal(t, "xls", ExtractReportFormat("send me the Excel version"))
	assert.Equal(t, "html", ExtractReportFormat("render as html"))
	assert.Equal(t, "xml", ExtractReportFormat("I need the xml output"))
	assert.Equal(t, "pdf", ExtractReportFormat("generate the PO report"))
}

func TestExtractExportFormat(t *testing.T) {
	assert.Equal(t, "png", ExtractExportFormat("export dashboard as PNG"))
	assert.Equal(t, "xlsx", ExtractExportFormat("export to excel"))
	assert.Equal(t, "csv", ExtractExportFormat("csv export of the workbook"))
	assert.Equal(t, "pdf", ExtractExportFormat("export the workbook"))
}

func TestIsDatabaseQuery(t *testing.T) {
	assert.True(t, IsDatabaseQuery("List out all employee details"))
	assert.True(t, IsDatabaseQuery("how many customers do we have"))
	assert.True(t, IsDatabaseQuery("translate this to SQL"))
	assert.False(t, IsDatabaseQuery("what is the meaning of life"))
	assert.False(t, IsDatabaseQuery("tell me a joke"))
}
