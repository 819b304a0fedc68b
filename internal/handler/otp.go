package handler

import (
	"errors"
	"loginwatch/internal/models"
	"loginwatch/internal/storage"
	"net/http"
	"time"
)

func (h *Handler) verifyChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorJSON(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	c, err := r.Cookie("pending_token")
	if err != nil {
		h.errorJSON(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	rules := []Rule{
		{
			Key:    "rate:otp:" + c.Value,
			Limit:  5,
			Window: 5 * time.Minute,
		},
	}
	allowed, err := h.CheckAtomic(storage.RDB, rules)
	if err != nil {
		h.errorJSON(w, errServiceUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}
	if !allowed {
		h.errorJSON(w, errTooManyAttempts.Error(), http.StatusTooManyRequests)
		return
	}

	code := r.FormValue("otp")
	sess, err := h.Service.Challenge.Verify(r.Context(), c.Value, code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCode):
			h.errorJSON(w, "Invalid OTP. Try again.", http.StatusUnauthorized)
		case errors.Is(err, models.ErrSessionNotFound):
			h.errorJSON(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		default:
			models.ErrLog.Printf("challenge verify: %v", err)
			h.errorJSON(w, errServiceUnavailable.Error(), http.StatusServiceUnavailable)
		}
		return
	}

	// Challenge passed: the pending token becomes the session token.
	h.setSessionCookie(w, "token", c.Value, "/")
	http.SetCookie(w, &http.Cookie{
		Name:     "pending_token",
		Value:    "",
		Path:     "/verify",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.writeJSON(w, http.StatusOK, sess)
}
