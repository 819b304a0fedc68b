package server

import (
	"encoding/json"
	"loginwatch/internal/models"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port string `env:"PORT"`
	DB   struct {
		Dsn    string `env:"DB_DSN"`
		Driver string `env:"DB_DRIVER"`
	}
	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB"`
	}
	Geo struct {
		BaseURL     string `env:"GEO_BASE_URL"`
		TimeoutMS   int    `env:"GEO_TIMEOUT_MS"`
		HomeCountry string `env:"HOME_COUNTRY"`
	}
	Challenge struct {
		Code string `env:"CHALLENGE_CODE"`
	}
	Session struct {
		TTLMinutes int `env:"SESSION_TTL_MINUTES"`
	}
}

func NewConfig() (Config, error) {
	configFile, err := os.Open("config.json")
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()

	var config Config
	decoder := json.NewDecoder(configFile)
	if err := decoder.Decode(&config); err != nil {
		return Config{}, err
	}

	// Environment variables win over the file so deployments can override
	// without editing config.json.
	if err := env.Parse(&config); err != nil {
		return Config{}, err
	}

	if config.Geo.TimeoutMS <= 0 {
		config.Geo.TimeoutMS = 2500
	}
	if config.Geo.HomeCountry == "" {
		config.Geo.HomeCountry = "India"
	}
	if config.Session.TTLMinutes <= 0 {
		config.Session.TTLMinutes = 30
	}

	models.InfoLog.Println("Configuration extraction successful")
	return config, nil
}

func (c Config) GeoTimeout() time.Duration {
	return time.Duration(c.Geo.TimeoutMS) * time.Millisecond
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}
