package handler

import (
	"encoding/json"
	"loginwatch/internal/models"
	"net/http"
)

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	h.writeJSON(w, http.StatusOK, map[string]string{
		"username": sess.Username,
		"location": sess.Location,
	})
}

func (h *Handler) auditList(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.Service.Audit.ReadAll()
	if err != nil {
		models.ErrLog.Printf("audit read: %v", err)
		h.errorJSON(w, errServiceUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		models.ErrLog.Printf("write response: %v", err)
	}
}

func (h *Handler) errorJSON(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
