package geo

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"coolserve/models"

	"go.uber.org/zap"
)

// RegionResolver maps a free-text address to a named region and its
// straight-line distance from the service depot.
type RegionResolver interface {
	Resolve(ctx context.Context, address string) (*models.RegionResult, error)
}

// ResolverConfig carries the depot coordinate and distance bands. Cut
// points are configuration, never hard-coded in logic.
type ResolverConfig struct {
	Depot           models.GeoPoint
	NearRadiusKm    float64 // near band upper bound
	MidRadiusKm     float64 // mid band upper bound
	ServiceRadiusKm float64 // max radius considered serviceable
	CacheTTL        time.Duration
}

// DefaultRegionResolver implements RegionResolver with a geocoder and a
// TTL cache keyed by the normalized address (see NormalizeAddress).
type DefaultRegionResolver struct {
	Geocoder Geocoder
	Cache    Cache
	Cfg      ResolverConfig
	Logger   *zap.Logger
}

func NewRegionResolver(geocoder Geocoder, cache Cache, cfg ResolverConfig, logger *zap.Logger) *DefaultRegionResolver {
	return &DefaultRegionResolver{
		Geocoder: geocoder,
		Cache:    cache,
		Cfg:      cfg,
		Logger:   logger,
	}
}

const regionCacheKeyPrefix = "region:"

func (r *DefaultRegionResolver) Resolve(ctx context.Context, address string) (*models.RegionResult, error) {
	key := regionCacheKeyPrefix + NormalizeAddress(address)

	if cached, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		var result models.RegionResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
		// Corrupt entry; fall through to a fresh resolve.
		r.Logger.Warn("discarding unreadable region cache entry", zap.String("key", key))
	} else if err != nil {
		r.Logger.Warn("region cache read failed", zap.Error(err))
	}

	point, err := r.Geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	distance := Haversine(r.Cfg.Depot.Lat, r.Cfg.Depot.Lng, point.Lat, point.Lng)
	result := &models.RegionResult{
		Region:       r.bucket(distance),
		Distance:     distance,
		WithinRadius: distance <= r.Cfg.ServiceRadiusKm,
	}

	data, err := json.Marshal(result)
	if err == nil {
		if err := r.Cache.Set(ctx, key, string(data), r.Cfg.CacheTTL); err != nil {
			r.Logger.Warn("region cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

// bucket maps a depot distance to a region name using the configured
// bands (defaults: <5 km near, <8 km mid, else outer).
func (r *DefaultRegionResolver) bucket(distanceKm float64) string {
	switch {
	case distanceKm < r.Cfg.NearRadiusKm:
		return models.RegionNorth
	case distanceKm < r.Cfg.MidRadiusKm:
		return models.RegionCentral
	default:
		return models.RegionOuter
	}
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
