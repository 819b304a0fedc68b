package service

import (
	"loginwatch/internal/server"
	"loginwatch/internal/storage"
)

type Service struct {
	Auth
	Challenge
	Audit    storage.AuditIR
	Sessions SessionStore
}

func NewService(storages *storage.Storage, config server.Config, sessions SessionStore) *Service {
	resolver := NewGeoResolver(config.Geo.BaseURL, config.GeoTimeout())
	rule := AnomalyRule{HomeCountry: config.Geo.HomeCountry}

	return &Service{
		Auth:      NewAuthService(storages, resolver, rule, sessions),
		Challenge: NewChallengeService(sessions, config.Challenge.Code),
		Audit:     storages.AuditIR,
		Sessions:  sessions,
	}
}
