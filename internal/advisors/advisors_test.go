package advisors

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcoe/askme/internal/artifact"
	"github.com/rcoe/askme/internal/backend"
	"github.com/rcoe/askme/internal/genai"
	"github.com/rcoe/askme/pkg/advisor"
)

// noopSleeper skips waits so polling protocols run instantly in tests.
type noopSleeper struct{}

func (noopSleeper) Sleep(ctx context.Context, d time.Duration) error { return nil }

// fakeCompleter is a canned language model.
type fakeCompleter struct {
	answer string
	err    error
	gotReq genai.Request
}

func (f *fakeCompleter) Complete(ctx context.Context, req genai.Request) (string, error) {
	f.gotReq = req
	return f.answer, f.err
}

func newCaller(domain advisor.Intent) *backend.Caller {
	return backend.NewCaller(domain, backend.CallerOptions{
		Timeout:    5 * time.Second,
		RetryCount: 1,
		Sleeper:    noopSleeper{},
	})
}

func TestMockReply(t *testing.T) {
	t.Run("keyword match", func(t *testing.T) {
		reply := MockReply(advisor.IntentFinance, "what is our Revenue this quarter")
		assert.Contains(t, reply, "Q3 revenue")
	})

	t.Run("default when nothing matches", func(t *testing.T) {
		reply := MockReply(advisor.IntentHR, "completely unrelated text")
		assert.Contains(t, reply, "work-from-home policy")
	})

	t.Run("every domain has a default", func(t *testing.T) {
		for _, domain := range advisor.AllIntents() {
			assert.NotEmpty(t, MockReply(domain, "zzz"), "domain %s", domain)
		}
	})
}

func TestHR_Handle(t *testing.T) {
	t.Run("endpoint answer passed through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response": "You have 12 days of PTO remaining."}`))
		}))
		defer server.Close()

		hr := NewHR(backend.NewQueryAdapter(newCaller(advisor.IntentHR), server.URL), false)
		result, err := hr.Handle(context.Background(), advisor.Query{Text: "how much leave do I have"})
		require.NoError(t, err)
		assert.Equal(t, "You have 12 days of PTO remaining.", result.Reply)
	})

	t.Run("endpoint failure falls back to canned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		hr := NewHR(backend.NewQueryAdapter(newCaller(advisor.IntentHR), server.URL), false)
		result, err := hr.Handle(context.Background(), advisor.Query{Text: "what are my benefits"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "health insurance")
	})

	t.Run("mock mode skips the endpoint", func(t *testing.T) {
		hr := NewHR(nil, true)
		result, err := hr.Handle(context.Background(), advisor.Query{Text: "leave policy"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "20 days PTO")
	})
}

func TestOrders_Handle(t *testing.T) {
	t.Run("query with order key fetches detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "OPS:300000203741093")
			w.Write([]byte(`{
				"OrderKey": "OPS:300000203741093",
				"StatusCode": "OPEN",
				"SubmittedBy": "jdoe",
				"SubmittedDate": "2026-08-12",
				"lines": [{"LineNumber": 1, "ItemNumber": "AS54888", "OrderedQuantity": 5}]
			}`))
		}))
		defer server.Close()

		o := NewOrders(backend.NewOrdersAdapter(newCaller(advisor.IntentOrders), server.URL), false)
		result, err := o.Handle(context.Background(), advisor.Query{Text: "show order OPS:300000203741093"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "Order OPS:300000203741093")
		assert.Contains(t, result.Reply, "Status: OPEN")
		assert.Contains(t, result.Reply, "Line 1: AS54888 x5")
	})

	t.Run("unknown order key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		o := NewOrders(backend.NewOrdersAdapter(newCaller(advisor.IntentOrders), server.URL), false)
		result, err := o.Handle(context.Background(), advisor.Query{Text: "show order 300000999999999"})
		require.NoError(t, err)
		assert.Equal(t, "No sales order found for key/id '300000999999999'.", result.Reply)
	})

	t.Run("query without key lists recent orders", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"items": [
				{"OrderKey": "A", "StatusCode": "OPEN", "CreatedBy": "x", "LastUpdateDate": "2026-08-01"},
				{"OrderKey": "B", "StatusCode": "CLOSED", "CreatedBy": "y", "LastUpdateDate": "2026-08-15"}
			]}`))
		}))
		defer server.Close()

		o := NewOrders(backend.NewOrdersAdapter(newCaller(advisor.IntentOrders), server.URL), false)
		result, err := o.Handle(context.Background(), advisor.Query{Text: "show my last 5 orders"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "Recent Sales Orders (showing 2 of 2)")
		assert.Contains(t, result.Reply, "• B | Status: CLOSED")
	})

	t.Run("auth failure becomes reply text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		o := NewOrders(backend.NewOrdersAdapter(newCaller(advisor.IntentOrders), server.URL), false)
		result, err := o.Handle(context.Background(), advisor.Query{Text: "recent orders"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "Orders API authentication failed")
	})
}

func TestFinance_Handle(t *testing.T) {
	t.Run("report staged as artifact", func(t *testing.T) {
		reportContent := []byte("%PDF-1.4 PO report")
		encoded := base64.StdEncoding.EncodeToString(reportContent)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<ns2:reportBytes>` + encoded + `</ns2:reportBytes>`))
		}))
		defer server.Close()

		store := artifact.NewMemoryStore()
		report := backend.NewBIPublisherAdapter(newCaller(advisor.IntentFinance), server.URL, "/Custom/ROIC/ROIC_PO_REPORTS.xdo")
		f := NewFinance(report, store, false)

		result, err := f.Handle(context.Background(), advisor.Query{Text: "PO report for 55270"})
		require.NoError(t, err)
		require.NotNil(t, result.Artifact)
		assert.Equal(t, "pdf", result.Artifact.Kind)
		assert.Equal(t, advisor.IntentFinance, result.Artifact.Domain)
		assert.Contains(t, result.Reply, "PO 55270")

		rec, err := store.Fetch(context.Background(), result.Artifact.ID)
		require.NoError(t, err)
		assert.Equal(t, reportContent, rec.Bytes)
	})

	t.Run("generation failure becomes reply text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		report := backend.NewBIPublisherAdapter(newCaller(advisor.IntentFinance), server.URL, "/Custom/ROIC/ROIC_PO_REPORTS.xdo")
		f := NewFinance(report, artifact.NewMemoryStore(), false)

		result, err := f.Handle(context.Background(), advisor.Query{Text: "PO report"})
		require.NoError(t, err)
		assert.Nil(t, result.Artifact)
		assert.Contains(t, result.Reply, "authentication failed")
	})

	t.Run("mock mode", func(t *testing.T) {
		f := NewFinance(nil, artifact.NewMemoryStore(), true)
		result, err := f.Handle(context.Background(), advisor.Query{Text: "what is the budget"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "annual budget allocation")
	})
}

func TestReports_Handle(t *testing.T) {
	t.Run("export staged as artifact", func(t *testing.T) {
		exported := []byte("exported workbook bytes")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusAccepted)
				w.Write([]byte(`{"resourceUri": "/exports/job-1"}`))
				return
			}
			w.Write(exported)
		}))
		defer server.Close()

		store := artifact.NewMemoryStore()
		export := backend.NewOACExportAdapter(newCaller(advisor.IntentReports), server.URL, noopSleeper{})
		r := NewReports(export, store, "defaultWorkbookId1234567890", false)

		result, err := r.Handle(context.Background(), advisor.Query{Text: "export the workbook to excel"})
		require.NoError(t, err)
		require.NotNil(t, result.Artifact)
		assert.Equal(t, "report:xlsx", result.Artifact.Kind)
		assert.Contains(t, result.Reply, "XLSX")

		rec, err := store.Fetch(context.Background(), result.Artifact.ID)
		require.NoError(t, err)
		assert.Equal(t, exported, rec.Bytes)
	})

	t.Run("exhausted export becomes reply text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				w.Write([]byte(`{"exportId": "job-2"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		export := backend.NewOACExportAdapter(newCaller(advisor.IntentReports), server.URL, noopSleeper{})
		r := NewReports(export, artifact.NewMemoryStore(), "wb", false)

		result, err := r.Handle(context.Background(), advisor.Query{Text: "export the workbook"})
		require.NoError(t, err)
		assert.Nil(t, result.Artifact)
		assert.Contains(t, result.Reply, "Reports download failed after retries")
	})
}

func TestGeneral_Handle(t *testing.T) {
	t.Run("database query goes to NL2SQL endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query_result": "There are 42 employees."}`))
		}))
		defer server.Close()

		fc := &fakeCompleter{answer: "model answer"}
		g := NewGeneral(backend.NewQueryAdapter(newCaller(advisor.IntentGeneral), server.URL), fc, false)

		result, err := g.Handle(context.Background(), advisor.Query{Text: "how many employees do we have"})
		require.NoError(t, err)
		assert.Equal(t, "There are 42 employees.", result.Reply)
		// The model is never consulted when the endpoint answers.
		assert.Empty(t, fc.gotReq.Prompt)
	})

	t.Run("NL2SQL failure falls back to model", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		fc := &fakeCompleter{answer: "model answer"}
		g := NewGeneral(backend.NewQueryAdapter(newCaller(advisor.IntentGeneral), server.URL), fc, false)

		result, err := g.Handle(context.Background(), advisor.Query{Text: "list all employees"})
		require.NoError(t, err)
		assert.Equal(t, "model answer", result.Reply)
	})

	t.Run("non-database question goes straight to model", func(t *testing.T) {
		fc := &fakeCompleter{answer: "Photosynthesis converts light into chemical energy."}
		g := NewGeneral(nil, fc, false)

		result, err := g.Handle(context.Background(), advisor.Query{Text: "explain photosynthesis"})
		require.NoError(t, err)
		assert.Equal(t, "Photosynthesis converts light into chemical energy.", result.Reply)
		assert.Equal(t, generalMaxTokens, fc.gotReq.MaxTokens)
		assert.Equal(t, generalTemperature, fc.gotReq.Temperature)
	})

	t.Run("model failure apologises", func(t *testing.T) {
		fc := &fakeCompleter{err: assert.AnError}
		g := NewGeneral(nil, fc, false)

		result, err := g.Handle(context.Background(), advisor.Query{Text: "explain photosynthesis"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "couldn't generate a response")
	})

	t.Run("no backends degrades to canned", func(t *testing.T) {
		g := NewGeneral(nil, nil, false)
		result, err := g.Handle(context.Background(), advisor.Query{Text: "what are your capabilities"})
		require.NoError(t, err)
		assert.Contains(t, result.Reply, "I can help you with")
	})
}
