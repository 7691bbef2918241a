package geo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coolserve/models"

	"go.uber.org/zap"
)

type stubGeocoder struct {
	mu    sync.Mutex
	point models.GeoPoint
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (models.GeoPoint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return models.GeoPoint{}, g.err
	}
	return g.point, nil
}

func (g *stubGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakeClock is a settable time source for MemoryCache expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newResolverUnderTest(g Geocoder, cache Cache) *DefaultRegionResolver {
	return NewRegionResolver(g, cache, ResolverConfig{
		Depot:           models.GeoPoint{Lat: 1.3521, Lng: 103.8198},
		NearRadiusKm:    5,
		MidRadiusKm:     8,
		ServiceRadiusKm: 15,
		CacheTTL:        time.Hour,
	}, zap.NewNop())
}

func TestRegionResolver(t *testing.T) {
	t.Parallel()

	t.Run("buckets distance into the configured bands", func(t *testing.T) {
		depot := models.GeoPoint{Lat: 1.3521, Lng: 103.8198}
		cases := []struct {
			name   string
			point  models.GeoPoint
			region string
			within bool
		}{
			// Offsets in latitude: one degree is ~111 km.
			{"at the depot", depot, models.RegionNorth, true},
			{"about 6.7 km out", models.GeoPoint{Lat: depot.Lat + 0.06, Lng: depot.Lng}, models.RegionCentral, true},
			{"about 11 km out", models.GeoPoint{Lat: depot.Lat + 0.10, Lng: depot.Lng}, models.RegionOuter, true},
			{"about 22 km out", models.GeoPoint{Lat: depot.Lat + 0.20, Lng: depot.Lng}, models.RegionOuter, false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				geocoder := &stubGeocoder{point: tc.point}
				r := newResolverUnderTest(geocoder, NewMemoryCache(nil))

				got, err := r.Resolve(context.Background(), "some address")
				if err != nil {
					t.Fatalf("Resolve: %v", err)
				}
				if got.Region != tc.region {
					t.Fatalf("region = %q, want %q (distance %.1f)", got.Region, tc.region, got.Distance)
				}
				if got.WithinRadius != tc.within {
					t.Fatalf("withinRadius = %v, want %v", got.WithinRadius, tc.within)
				}
			})
		}
	})

	t.Run("second resolve within the TTL hits the cache", func(t *testing.T) {
		clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
		geocoder := &stubGeocoder{point: models.GeoPoint{Lat: 1.40, Lng: 103.8198}}
		r := newResolverUnderTest(geocoder, NewMemoryCache(clock.now))

		first, err := r.Resolve(context.Background(), "123 Main St")
		if err != nil {
			t.Fatalf("first Resolve: %v", err)
		}

		clock.advance(30 * time.Minute)
		second, err := r.Resolve(context.Background(), "123 Main St")
		if err != nil {
			t.Fatalf("second Resolve: %v", err)
		}

		if geocoder.callCount() != 1 {
			t.Fatalf("geocoder called %d times, want 1", geocoder.callCount())
		}
		if second.Region != first.Region || second.Distance != first.Distance {
			t.Fatalf("cached result differs: %+v vs %+v", second, first)
		}
	})

	t.Run("expired entry triggers a fresh geocode", func(t *testing.T) {
		clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
		geocoder := &stubGeocoder{point: models.GeoPoint{Lat: 1.40, Lng: 103.8198}}
		r := newResolverUnderTest(geocoder, NewMemoryCache(clock.now))

		if _, err := r.Resolve(context.Background(), "123 Main St"); err != nil {
			t.Fatalf("first Resolve: %v", err)
		}
		clock.advance(61 * time.Minute)
		if _, err := r.Resolve(context.Background(), "123 Main St"); err != nil {
			t.Fatalf("second Resolve: %v", err)
		}

		if geocoder.callCount() != 2 {
			t.Fatalf("geocoder called %d times, want 2", geocoder.callCount())
		}
	})

	t.Run("addresses differing only in case and spacing share a cache entry", func(t *testing.T) {
		geocoder := &stubGeocoder{point: models.GeoPoint{Lat: 1.40, Lng: 103.8198}}
		r := newResolverUnderTest(geocoder, NewMemoryCache(nil))

		if _, err := r.Resolve(context.Background(), "123 Main St"); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if _, err := r.Resolve(context.Background(), "  123  MAIN st "); err != nil {
			t.Fatalf("Resolve: %v", err)
		}

		if geocoder.callCount() != 1 {
			t.Fatalf("geocoder called %d times, want 1", geocoder.callCount())
		}
	})

	t.Run("geocoder errors keep their type", func(t *testing.T) {
		geocoder := &stubGeocoder{err: NewGeocodingError("nowhere", "no results")}
		r := newResolverUnderTest(geocoder, NewMemoryCache(nil))

		_, err := r.Resolve(context.Background(), "nowhere")
		var geoErr *GeocodingError
		if !errors.As(err, &geoErr) {
			t.Fatalf("expected GeocodingError, got %v", err)
		}
	})
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"123 Main St":      "123 main st",
		"  123  Main  St ": "123 main st",
		"UPPER CASE RD":    "upper case rd",
	}
	for in, want := range cases {
		if got := NormalizeAddress(in); got != want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHaversine(t *testing.T) {
	t.Parallel()

	// Same point is zero distance.
	if d := Haversine(1.3521, 103.8198, 1.3521, 103.8198); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}

	// One degree of latitude is roughly 111 km.
	d := Haversine(0, 0, 1, 0)
	if d < 110 || d > 112 {
		t.Fatalf("one degree latitude = %f km, want ~111", d)
	}

	// Symmetric.
	if a, b := Haversine(1.3, 103.8, 1.4, 103.9), Haversine(1.4, 103.9, 1.3, 103.8); a != b {
		t.Fatalf("not symmetric: %f vs %f", a, b)
	}
}
