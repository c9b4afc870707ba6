// Package server exposes the chat pipeline over HTTP: a chat endpoint that
// routes each prompt through the classifier and advisors, a download
// endpoint for staged artifacts and a health check.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rcoe/askme/internal/artifact"
	"github.com/rcoe/askme/internal/router"
	"github.com/rcoe/askme/pkg/advisor"
)

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the chat reply. DownloadURL and Marker are set when the
// reply produced a staged artifact; Marker carries the stable
// KIND:domain:id wire token for presentation layers that still parse it.
type ChatResponse struct {
	Reply       string   `json:"reply"`
	DownloadURL string   `json:"download_url,omitempty"`
	Marker      string   `json:"marker,omitempty"`
	Domains     []string `json:"domains,omitempty"`
}

// HealthResponse is the JSON response structure for health checks.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Pinger is the optional backing-store connectivity check surfaced by the
// health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// defaultWriteTimeout bounds response writes when no budget is configured.
const defaultWriteTimeout = 120 * time.Second

// Server serves the chat, download and health endpoints.
type Server struct {
	router *router.Router
	store  artifact.Store
	pinger Pinger // nil when the store has no external backing
	listen string
	server *http.Server
	now    func() time.Time

	// WriteTimeout bounds how long one response may take to produce. The
	// export path holds its request open through the settle and poll waits,
	// so callers size this from the polling budget. Zero selects a default.
	WriteTimeout time.Duration
}

// New creates the HTTP server. pinger may be nil.
func New(r *router.Router, store artifact.Store, pinger Pinger, listen string) *Server {
	return &Server{
		router: r,
		store:  store,
		pinger: pinger,
		listen: listen,
		now:    time.Now,
	}
}

// Handler builds the route mux. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/download/", s.downloadHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	return mux
}

// Start starts the HTTP server in the background.
func (s *Server) Start() error {
	writeTimeout := s.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	s.server = &http.Server{
		Addr:         s.listen,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
	}

	go func() {
		log.Printf("[Server] Listening on %s", s.listen)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[Server] Serve error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// chatHandler handles POST /chat requests.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Reply: "Error: Invalid request format"})
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Reply: "Error: Please provide a valid question"})
		return
	}

	result, err := s.router.Route(r.Context(), advisor.Query{Text: prompt, SessionID: req.SessionID})
	if err != nil {
		log.Printf("[Server] Route failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ChatResponse{Reply: "An error occurred while processing your request."})
		return
	}

	resp := ChatResponse{Reply: result.Reply}
	for _, d := range result.DomainsInvoked {
		resp.Domains = append(resp.Domains, string(d))
	}
	if result.Artifact != nil {
		resp.DownloadURL = "/download/" + result.Artifact.ID
		resp.Marker = artifact.EncodeMarker(*result.Artifact)
	}
	writeJSON(w, http.StatusOK, resp)
}

// downloadHandler handles GET /download/{id} requests for staged artifacts.
func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/download/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "No artifact available", http.StatusNotFound)
		return
	}

	rec, err := s.store.Fetch(r.Context(), id)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			http.Error(w, "No artifact available", http.StatusNotFound)
			return
		}
		log.Printf("[Server] Artifact fetch failed: %v", err)
		http.Error(w, "Error downloading artifact", http.StatusInternalServerError)
		return
	}

	mimeType, filename := downloadMetadata(rec, s.now())
	log.Printf("[Server] Sending download %s (%d bytes)", filename, len(rec.Bytes))

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Bytes)
}

// healthHandler handles GET /healthz requests.
// Returns 200 OK, or 503 when the artifact store's backing is unreachable.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.pinger.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// formatMIMETypes maps export formats to download content types.
var formatMIMETypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"csv":  "text/csv",
}

// downloadMetadata resolves the content type and timestamped filename for a
// staged artifact from its kind tag.
func downloadMetadata(rec *artifact.Record, now time.Time) (mimeType, filename string) {
	timestamp := now.Format("20060102_150405")

	if format, ok := strings.CutPrefix(rec.Kind, "report:"); ok {
		mimeType, ok = formatMIMETypes[format]
		extension := format
		if !ok {
			mimeType = "application/octet-stream"
			extension = "bin"
		}
		return mimeType, fmt.Sprintf("Analytics_Report_%s.%s", timestamp, extension)
	}

	return "application/pdf", fmt.Sprintf("Finance_Report_%s.pdf", timestamp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
