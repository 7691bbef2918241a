package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"coolserve/models"
	"coolserve/services/geo"

	"go.uber.org/zap"
)

// OptimizeInput is one (address, date, slot-list) tuple to optimize.
type OptimizeInput struct {
	// SessionKey scopes stale-result tracking: a newer call with the
	// same key supersedes an in-flight one. Calls with an empty key are
	// isolated and never superseded.
	SessionKey string
	Address    string
	Date       string
	Slots      []models.TimeSlot
	Existing   []models.BookedWindow
	AMC        bool
}

// OptimizeResult carries the filtered slots plus the resolved region
// context. Err is a user-facing string: geocoding being down must not
// crash the caller, it only disables the extra filtering.
type OptimizeResult struct {
	Slots        []models.TimeSlot
	Region       string
	Distance     *float64
	WithinRadius bool
	Err          string
	// Stale is set when a newer call for the same session started while
	// this resolve was in flight; stale results must never be applied to
	// state.
	Stale bool
}

// LocationOptimizer orchestrates region resolution and slot filtering.
// Transient resolver failures are retried with exponential backoff.
type LocationOptimizer struct {
	Resolver geo.RegionResolver
	Filter   FilterConfig
	Logger   *zap.Logger

	RetryAttempts  int
	RetryBaseDelay time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

func NewLocationOptimizer(resolver geo.RegionResolver, filter FilterConfig, logger *zap.Logger) *LocationOptimizer {
	return &LocationOptimizer{
		Resolver:       resolver,
		Filter:         filter,
		Logger:         logger,
		RetryAttempts:  3,
		RetryBaseDelay: 150 * time.Millisecond,
		generations:    make(map[string]uint64),
	}
}

// begin opens a new generation for the session. Only calls sharing a
// key compete; the empty key opts out of stale tracking.
func (o *LocationOptimizer) begin(key string) uint64 {
	if key == "" {
		return 0
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generations[key]++
	return o.generations[key]
}

// superseded reports whether a newer call with the same key started
// while this one was resolving. The slot is cleared once the latest
// call finishes so the map only holds in-flight sessions.
func (o *LocationOptimizer) superseded(key string, gen uint64) bool {
	if key == "" {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generations[key] != gen {
		return true
	}
	delete(o.generations, key)
	return false
}

// Optimize resolves the address and filters the candidate slots. A call
// supersedes any earlier in-flight call for the same session key; a
// superseded call returns with Stale set and its result must be
// discarded.
func (o *LocationOptimizer) Optimize(ctx context.Context, in OptimizeInput) OptimizeResult {
	// No address or date means no optimization: hand back the slots as-is.
	if in.Address == "" || in.Date == "" {
		return OptimizeResult{Slots: in.Slots}
	}

	gen := o.begin(in.SessionKey)

	var region *models.RegionResult
	err := WithBackoff(ctx, o.Logger, o.RetryAttempts, o.RetryBaseDelay, func() error {
		r, rerr := o.Resolver.Resolve(ctx, in.Address)
		if rerr != nil {
			return rerr
		}
		region = r
		return nil
	})

	if o.superseded(in.SessionKey, gen) {
		o.Logger.Debug("discarding superseded optimizer result",
			zap.String("session", in.SessionKey),
			zap.String("address", in.Address))
		return OptimizeResult{Stale: true}
	}

	if err != nil {
		var rateErr *geo.RateLimitError
		msg := "Could not check your location right now. All slots are shown."
		if errors.As(err, &rateErr) {
			msg = "Location service is busy. Please try again shortly."
		}
		o.Logger.Warn("region resolution failed", zap.String("address", in.Address), zap.Error(err))
		// Unknown distance: apply only the double-booking exclusion.
		return OptimizeResult{
			Slots: FilterSlots(in.Slots, in.Existing, "", nil, in.AMC, o.Filter),
			Err:   msg,
		}
	}

	filtered := FilterSlots(in.Slots, in.Existing, region.Region, &region.Distance, in.AMC, o.Filter)
	return OptimizeResult{
		Slots:        filtered,
		Region:       region.Region,
		Distance:     &region.Distance,
		WithinRadius: region.Distance <= o.Filter.MaxRadius(in.AMC),
	}
}
