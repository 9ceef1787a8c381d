package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/olegrjumin/linkrisk/internal/checker"
	"github.com/olegrjumin/linkrisk/internal/service"
)

// maxBodyBytes caps the analyze request body
const maxBodyBytes = 64 << 10

// analyzeRequest represents the JSON request body for /api/analyze
type analyzeRequest struct {
	URL string `json:"url"`
}

// analyzeResponse is the analysis result with the time it was produced
type analyzeResponse struct {
	*service.AnalysisResult
	Timestamp string `json:"timestamp"`
}

// analyzeHandler handles POST requests to /api/analyze
// Accepts a JSON body with a URL and returns the analysis result
func analyzeHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req analyzeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		raw := strings.TrimSpace(req.URL)
		if raw == "" {
			writeError(w, http.StatusBadRequest, "Please enter a URL")
			return
		}

		result, err := svc.Analyze(r.Context(), raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, invalidURLMessage(err))
			return
		}

		writeJSON(w, http.StatusOK, analyzeResponse{AnalysisResult: result, Timestamp: timestamp()})
	}
}

// streamHandler handles GET requests to /api/analyze/stream?url=...
// Progress is sent as server-sent events, one JSON object per event
func streamHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// EventSource only supports GET
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("url"))
		if raw == "" {
			writeError(w, http.StatusBadRequest, "Please enter a URL")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "Streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

		for event := range svc.AnalyzeStreaming(r.Context(), raw) {
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\n", event.Stage)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// invalidURLMessage renders an analysis error for the client
func invalidURLMessage(err error) string {
	var invalid *checker.InvalidURLError
	if errors.As(err, &invalid) {
		return "Invalid URL format: " + invalid.Reason
	}
	return "Invalid URL format"
}
