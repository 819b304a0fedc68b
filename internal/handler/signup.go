package handler

import (
	"loginwatch/internal/models"
	"net/http"
	"strings"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorJSON(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.errorJSON(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user := models.User{
		Email:          strings.TrimSpace(r.FormValue("email")),
		Username:       strings.TrimSpace(r.FormValue("username")),
		Password:       r.FormValue("password"),
		RepeatPassword: r.FormValue("repeat_password"),
	}

	if err := h.Service.Auth.CreateUser(user); err != nil {
		models.InfoLog.Printf("signup rejected for %q: %v", user.Username, err)
		h.errorJSON(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}
