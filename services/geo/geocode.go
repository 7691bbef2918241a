package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coolserve/models"
)

const geocodeEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder turns a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.GeoPoint, error)
}

// googleGeocodeResponse is the subset of the Geocoding API response we read.
type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GoogleGeocoder calls the Google Geocoding API with an explicit timeout.
type GoogleGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGoogleGeocoder(apiKey string, timeout time.Duration) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: geocodeEndpoint,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the geocoder at a different endpoint, used in tests.
func (g *GoogleGeocoder) WithBaseURL(u string) *GoogleGeocoder {
	g.baseURL = u
	return g
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.GeoPoint, error) {
	if g.apiKey == "" {
		return models.GeoPoint{}, NewGeocodingError(address, "geocoding API key not configured")
	}

	reqURL := fmt.Sprintf("%s?address=%s&key=%s", g.baseURL, url.QueryEscape(address), g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.GeoPoint{}, NewGeocodingError(address, err.Error())
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return models.GeoPoint{}, NewGeocodingError(address, fmt.Sprintf("provider unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return models.GeoPoint{}, NewRateLimitError("geocoding provider returned 429")
	}
	if resp.StatusCode != http.StatusOK {
		return models.GeoPoint{}, NewGeocodingError(address, fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	var data googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.GeoPoint{}, NewGeocodingError(address, fmt.Sprintf("failed to decode response: %v", err))
	}

	switch data.Status {
	case "OK":
	case "OVER_QUERY_LIMIT":
		return models.GeoPoint{}, NewRateLimitError("geocoding quota exhausted")
	case "ZERO_RESULTS":
		return models.GeoPoint{}, NewGeocodingError(address, "no match for address")
	default:
		return models.GeoPoint{}, NewGeocodingError(address, fmt.Sprintf("provider status %s", data.Status))
	}

	if len(data.Results) == 0 {
		return models.GeoPoint{}, NewGeocodingError(address, "no match for address")
	}

	loc := data.Results[0].Geometry.Location
	return models.GeoPoint{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// NormalizeAddress collapses whitespace and lowercases the address so
// trivially different spellings share a cache entry.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
