package geo

import "fmt"

// GeocodingError indicates the mapping provider was unavailable or
// returned no match for the address. Not retried internally.
type GeocodingError struct {
	Address string
	Message string
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("geocoding %q: %s", e.Address, e.Message)
}

func NewGeocodingError(address, msg string) error {
	return &GeocodingError{Address: address, Message: msg}
}

// RateLimitError indicates provider quota exhaustion. Callers retry with
// backoff; the resolver never retries on its own.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rateLimit: %s", e.Message)
}

func NewRateLimitError(msg string) error {
	return &RateLimitError{Message: msg}
}
