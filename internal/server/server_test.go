package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcoe/askme/internal/artifact"
	"github.com/rcoe/askme/internal/intent"
	"github.com/rcoe/askme/internal/router"
	"github.com/rcoe/askme/pkg/advisor"
)

// echoAdvisor replies with a fixed text, optionally staging an artifact.
type echoAdvisor struct {
	domain advisor.Intent
	reply  string
	stage  string // When non-empty, stage these bytes and attach the ref
	store  artifact.Store
}

func (e *echoAdvisor) Domain() advisor.Intent { return e.domain }
func (e *echoAdvisor) Description() string    { return "test advisor" }
func (e *echoAdvisor) Handle(ctx context.Context, q advisor.Query) (advisor.Result, error) {
	result := advisor.Result{Reply: e.reply}
	if e.stage != "" {
		id, err := e.store.Stage(ctx, []byte(e.stage), "pdf", string(e.domain))
		if err != nil {
			return advisor.Result{}, err
		}
		result.Artifact = &advisor.ArtifactRef{ID: id, Kind: "pdf", Domain: e.domain}
	}
	return result, nil
}

// tagClassifier routes every query to fixed tags.
type tagClassifier struct {
	tags []advisor.Intent
}

func (c tagClassifier) Classify(ctx context.Context, text string) intent.Outcome {
	return intent.Outcome{Decided: true, Tags: c.tags, Source: intent.SourceKeyword}
}

func newTestServer(t *testing.T, store artifact.Store, advisors ...advisor.Advisor) *Server {
	t.Helper()
	registry := advisor.NewRegistry()
	tags := make([]advisor.Intent, 0, len(advisors))
	for _, a := range advisors {
		require.True(t, registry.Register(a))
		tags = append(tags, a.Domain())
	}
	r := router.New(tagClassifier{tags: tags}, registry)
	return New(r, store, nil, ":0")
}

func postChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	store := artifact.NewMemoryStore()
	hr := &echoAdvisor{domain: advisor.IntentHR, reply: "20 days PTO"}
	server := newTestServer(t, store, hr)
	handler := server.Handler()

	t.Run("returns formatted reply and domains", func(t *testing.T) {
		rec := postChat(t, handler, `{"prompt": "leave policy"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Reply, "20 days PTO")
		assert.Equal(t, []string{"hr"}, resp.Domains)
		assert.Empty(t, resp.DownloadURL)
	})

	t.Run("rejects empty prompt", func(t *testing.T) {
		rec := postChat(t, handler, `{"prompt": "   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		rec := postChat(t, handler, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestChatEndpoint_ArtifactDownloadFlow(t *testing.T) {
	store := artifact.NewMemoryStore()
	finance := &echoAdvisor{
		domain: advisor.IntentFinance,
		reply:  "Report is ready for download.",
		stage:  "%PDF-1.4 report bytes",
		store:  store,
	}
	server := newTestServer(t, store, finance)
	handler := server.Handler()

	rec := postChat(t, handler, `{"prompt": "PO report"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.DownloadURL)
	assert.Contains(t, resp.DownloadURL, "/download/")

	ref, ok := artifact.ParseMarker(resp.Marker)
	require.True(t, ok)
	assert.Equal(t, advisor.IntentFinance, ref.Domain)
	assert.Equal(t, "/download/"+ref.ID, resp.DownloadURL)

	// Follow the download link.
	req := httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil)
	dl := httptest.NewRecorder()
	handler.ServeHTTP(dl, req)

	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, "application/pdf", dl.Header().Get("Content-Type"))
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "Finance_Report_")
	assert.Equal(t, "%PDF-1.4 report bytes", dl.Body.String())

	// Downloads are idempotent; a retry gets the same bytes.
	dl2 := httptest.NewRecorder()
	handler.ServeHTTP(dl2, httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	assert.Equal(t, dl.Body.String(), dl2.Body.String())
}

func TestDownloadEndpoint_UnknownID(t *testing.T) {
	server := newTestServer(t, artifact.NewMemoryStore(), &echoAdvisor{domain: advisor.IntentHR, reply: "x"})
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/download/no-such-id", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadMetadata(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 45, 0, time.UTC)

	t.Run("pdf kind", func(t *testing.T) {
		mime, filename := downloadMetadata(&artifact.Record{Kind: "pdf"}, now)
		assert.Equal(t, "application/pdf", mime)
		assert.Equal(t, "Finance_Report_20260830_143045.pdf", filename)
	})

	t.Run("report kinds", func(t *testing.T) {
		mime, filename := downloadMetadata(&artifact.Record{Kind: "report:xlsx"}, now)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", mime)
		assert.Equal(t, "Analytics_Report_20260830_143045.xlsx", filename)
	})

	t.Run("unknown report format", func(t *testing.T) {
		mime, filename := downloadMetadata(&artifact.Record{Kind: "report:tiff"}, now)
		assert.Equal(t, "application/octet-stream", mime)
		assert.Equal(t, "Analytics_Report_20260830_143045.bin", filename)
	})
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, artifact.NewMemoryStore(), &echoAdvisor{domain: advisor.IntentHR, reply: "x"})
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return assert.AnError }

func TestHealthEndpoint_UnhealthyStore(t *testing.T) {
	registry := advisor.NewRegistry()
	r := router.New(tagClassifier{}, registry)
	server := New(r, artifact.NewMemoryStore(), failingPinger{}, ":0")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
}

func TestStart_WriteTimeout(t *testing.T) {
	t.Run("uses configured budget", func(t *testing.T) {
		server := newTestServer(t, artifact.NewMemoryStore(), &echoAdvisor{domain: advisor.IntentHR, reply: "x"})
		server.WriteTimeout = 7 * time.Minute

		require.NoError(t, server.Start())
		t.Cleanup(func() { server.Shutdown(context.Background()) })
		assert.Equal(t, 7*time.Minute, server.server.WriteTimeout)
	})

	t.Run("defaults when unset", func(t *testing.T) {
		server := newTestServer(t, artifact.NewMemoryStore(), &echoAdvisor{domain: advisor.IntentHR, reply: "x"})

		require.NoError(t, server.Start())
		t.Cleanup(func() { server.Shutdown(context.Background()) })
		assert.Equal(t, defaultWriteTimeout, server.server.WriteTimeout)
	})
}
