package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestContentType(t *testing.T) {
	t.Parallel()

	handler := ContentType(okHandler())

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{name: "json post accepted", method: "POST", contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json with charset accepted", method: "PUT", contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "missing content type accepted", method: "POST", contentType: "", wantStatus: http.StatusOK},
		{name: "xml rejected", method: "POST", contentType: "application/xml", wantStatus: http.StatusUnsupportedMediaType},
		{name: "get ignores content type", method: "GET", contentType: "text/plain", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, "/", bytes.NewBufferString("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	t.Parallel()

	handler := MaxRequestSize(16)(okHandler())

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString("small"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("small body status = %d, want 200", rr.Code)
	}

	req = httptest.NewRequest("POST", "/", bytes.NewBufferString("this body is definitely longer than sixteen bytes"))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body status = %d, want 413", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := SecurityHeaders(okHandler())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	handler := Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestLoggingPreservesFlusher(t *testing.T) {
	t.Parallel()

	var isFlusher bool
	handler := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, isFlusher = w.(http.Flusher)
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if !isFlusher {
		t.Error("wrapped response writer does not implement http.Flusher")
	}
}
