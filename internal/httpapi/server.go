package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/olegrjumin/linkrisk/internal/logging"
	"github.com/olegrjumin/linkrisk/internal/service"
)

// AppName is reported by the stats endpoint
const AppName = "linkrisk"

// Info describes the running build and its enabled features
type Info struct {
	Version      string
	ThreatFeed   bool   // threat feed lookups enabled
	ThreatSource string // feed name, e.g. "abuse.ch URLhaus"
	DomainAge    bool   // WHOIS domain age check enabled
}

// NewServer creates and configures a new HTTP server
func NewServer(addr string, logger *logging.Logger, svc *service.Service, info Info) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewHandler(logger, svc, info),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the routed handler with middleware applied
func NewHandler(logger *logging.Logger, svc *service.Service, info Info) http.Handler {
	mux := http.NewServeMux()

	// JSON API
	mux.HandleFunc("/api/analyze", analyzeHandler(svc))
	mux.HandleFunc("/api/analyze/stream", streamHandler(svc))
	mux.HandleFunc("/api/health", healthHandler(info))
	mux.HandleFunc("/api/stats", statsHandler(svc, info))
	mux.HandleFunc("/api/", notFoundHandler)

	// HTML UI
	mux.HandleFunc("/analyze", uiResultHandler(svc))
	mux.HandleFunc("/", uiFormHandler())

	return loggingMiddleware(logger, corsMiddleware(mux))
}

// healthHandler handles GET requests to /api/health
func healthHandler(info Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"version":   info.Version,
			"timestamp": timestamp(),
		})
	}
}

// statsHandler handles GET requests to /api/stats
func statsHandler(svc *service.Service, info Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "ok",
			"app":           AppName,
			"version":       info.Version,
			"threat_source": info.ThreatSource,
			"checks":        svc.CheckNames(),
			"thresholds":    svc.Thresholds(),
			"features": map[string]bool{
				"local_analysis":   true,
				"global_database":  info.ThreatFeed,
				"domain_age":       info.DomainAge,
				"streaming":        true,
				"batch_processing": false,
			},
		})
	}
}

// notFoundHandler answers unknown /api/ paths with a JSON error
func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Endpoint not found")
}

// writeJSON sets the Content-Type header, writes the status and encodes data
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// the status line is already sent, an encoding failure cannot be reported
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the {"status":"error","error":msg} envelope
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"status": service.StatusError,
		"error":  msg,
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
