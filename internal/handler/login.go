package handler

import (
	"errors"
	"loginwatch/internal/models"
	"loginwatch/internal/storage"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	errServiceUnavailable = errors.New("service unavailable")
	errTooManyAttempts    = errors.New("too many attempts")
)

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorJSON(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		models.ErrLog.Printf("failed to parse sign-in form: %v", err)
		h.errorJSON(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	ip := clientIP(r.RemoteAddr)

	rules := []Rule{
		{
			Key:    "rate:ip:login:" + ip,
			Limit:  10,
			Window: time.Minute,
		},
		{
			Key:    "rate:user:login:" + username,
			Limit:  5,
			Window: 10 * time.Minute,
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

	result, err := h.Service.Auth.AttemptLogin(r.Context(), models.LoginRequest{
		Username:    username,
		Password:    password,
		CountryHint: strings.TrimSpace(r.FormValue("country")),
		IP:          ip,
		DeviceID:    deviceID(r),
	})
	if err != nil {
		// Store outages are infrastructure failures, never presented as a
		// denied login.
		models.ErrLog.Printf("login attempt for %q: %v", username, err)
		h.errorJSON(w, errServiceUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}

	switch result.Verdict {
	case models.VerdictGranted:
		h.setSessionCookie(w, "token", result.SessionToken, "/")
		h.writeJSON(w, http.StatusOK, result)
	case models.VerdictChallengeRequired:
		h.setSessionCookie(w, "pending_token", result.SessionToken, "/verify")
		h.writeJSON(w, http.StatusOK, result)
	default:
		models.InfoLog.Printf("URL: %s\n        Method:   %s\n        Message:  %s\n        Status:   %s\n",
			r.URL.Path, r.Method, "invalid credentials for "+username, "fail")
		h.errorJSON(w, "Invalid Credentials", http.StatusUnauthorized)
	}
}

func (h *Handler) logOut(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("token")
	if err == nil {
		if err := h.Service.Sessions.Delete(r.Context(), c.Value); err != nil {
			models.ErrLog.Printf("session delete: %v", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, name, value, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  time.Now().Add(h.Config.SessionTTL()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clientIP(remoteAddr string) string {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return ip
}

// deviceID prefers the client-reported identifier, falling back to the
// server hostname the way early deployments did.
func deviceID(r *http.Request) string {
	if id := r.Header.Get("X-Device-ID"); id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown-device"
	}
	return host
}
