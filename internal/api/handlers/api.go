// internal/api/handlers/api.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// storageTimeout bounds the post-run database write.
const storageTimeout = 30 * time.Second

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listProperties(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database disabled"})
		return
	}
	properties, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.log.Errorw("list properties failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
