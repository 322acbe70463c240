package health

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// LivenessHandler answers 200 unconditionally. It proves the process
// is up and serving, nothing more; dependency state belongs to the
// readiness probe.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs the given checks on every request and answers
// 200 when all pass, 503 when any fail. Orchestrators pull the
// instance out of rotation on 503 without killing it.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		respond(w, r, status, resp)
	}
}

// respond picks the body format. Plain text is the default so curl and
// probe one-liners stay readable; JSON carries the per-check detail.
func respond(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = io.WriteString(w, "OK")
		return
	}
	_, _ = io.WriteString(w, "Service Unavailable")
}

// wantsJSON honors ?format=json before the Accept header, so the
// detailed form is one query parameter away in a browser.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
