package handler

import (
	svr "loginwatch/internal/server"
	"loginwatch/internal/service"
	"net/http"
)

type Handler struct {
	Mux     *http.ServeMux
	Service *service.Service
	Config  svr.Config
}

func NewHandler(services *service.Service, config svr.Config) *Handler {
	return &Handler{
		Mux:     http.NewServeMux(),
		Service: services,
		Config:  config,
	}
}

func (h *Handler) InitRoutes() http.Handler {
	h.Mux.HandleFunc("/login", h.signIn)
	h.Mux.HandleFunc("/verify", h.verifyChallenge)
	h.Mux.HandleFunc("/signup", h.signUp)

	h.Mux.HandleFunc("/dashboard", h.middleWareGetSession(h.dashboard))
	h.Mux.HandleFunc("/audit", h.middleWareGetSession(h.auditList))

	h.Mux.HandleFunc("/logout", h.logOut)

	return h.Mux
}
