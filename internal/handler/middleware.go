package handler

import (
	"context"
	"loginwatch/internal/models"
	"net/http"
)

type contextKey string

const sessionKey contextKey = "session"

// middleWareGetSession gates a route on an AUTHENTICATED session. Pending
// sessions are rejected: OTP_PENDING carries no privileges.
func (h *Handler) middleWareGetSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("token")
		if err != nil {
			h.errorJSON(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		sess, err := h.Service.Sessions.Get(r.Context(), c.Value)
		if err != nil {
			h.errorJSON(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if sess.State != models.StateAuthenticated {
			h.errorJSON(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

func sessionFromContext(r *http.Request) models.Session {
	sess, _ := r.Context().Value(sessionKey).(models.Session)
	return sess
}
