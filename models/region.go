package models

// Region names are derived from the depot distance bands in config; they
// are never persisted on their own.
const (
	RegionNorth   = "north"
	RegionCentral = "central"
	RegionOuter   = "outer"
)

// RegionResult is the resolved output for one address and the value
// cached per normalized address, so trivially different spellings of
// the same address share one entry.
type RegionResult struct {
	Region       string  `json:"region"`
	Distance     float64 `json:"distance"` // straight-line km from the depot
	WithinRadius bool    `json:"withinRadius"`
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
