package handlers

import (
	"net/http"
	"time"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Health reports process liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// VersionInfo reports the running build.
func VersionInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"version": Version})
}
