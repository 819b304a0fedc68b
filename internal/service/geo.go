package service

import (
	"context"
	"encoding/json"
	"loginwatch/internal/models"
	"net"
	"net/http"
	"strings"
	"time"
)

const UnknownLocation = "Unknown"

type Resolver interface {
	Resolve(ctx context.Context, clientHint, ip string) string
}

// GeoResolver turns a caller IP into a country name using a remote lookup
// service. It never returns an error and never blocks past its timeout:
// any failure degrades to "Unknown" so the login path is not held up.
type GeoResolver struct {
	client  *http.Client
	baseURL string
}

func NewGeoResolver(baseURL string, timeout time.Duration) *GeoResolver {
	return &GeoResolver{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type geoResponse struct {
	CountryName string `json:"country_name"`
}

// Resolve prefers the caller-supplied hint over the remote lookup. That
// precedence is deliberate: the hint is a trusted form value, not a
// security boundary.
func (g *GeoResolver) Resolve(ctx context.Context, clientHint, ip string) string {
	if clientHint != "" {
		return clientHint
	}

	// Loopback and private addresses cannot be geolocated; skip the call.
	if parsed := net.ParseIP(ip); parsed != nil &&
		(parsed.IsLoopback() || parsed.IsPrivate()) {
		return UnknownLocation
	}

	// An empty IP segment is permitted: the provider infers the country
	// from the request origin.
	endpoint := g.baseURL + "/" + ip + "/json/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UnknownLocation
	}

	resp, err := g.client.Do(req)
	if err != nil {
		models.ErrLog.Printf("geolocation lookup failed: %v", err)
		return UnknownLocation
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return UnknownLocation
	}

	var body geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return UnknownLocation
	}

	country := strings.TrimSpace(body.CountryName)
	if country == "" {
		return UnknownLocation
	}
	return country
}
