package geo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/meshline/meshline-go/pkg/models"
)

// manualAccuracy is the synthetic accuracy assigned to manually placed
// locations; a dragged marker is treated as exact to within 10 meters.
const manualAccuracy = 10

// State of one acquisition attempt.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateResolved
	StateFailed
)

// Filters are the last-entered nearby-query parameters. They are re-sent on
// every query, never reset to defaults between attempts.
type Filters struct {
	DistanceKM          int
	Industries          string
	Skills              string
	AvailableForMeeting bool
}

// NearbyFunc issues the proximity query with fresh coordinates.
type NearbyFunc func(ctx context.Context, loc models.UserLocation, f Filters) ([]models.NearbyUser, error)

// Flow drives a one-shot location acquisition and the follow-up nearby
// query. A failed device fix flips the flow into manual mode, where the
// caller feeds in a map selection instead.
type Flow struct {
	provider Provider
	query    NearbyFunc
	opts     Options
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	location   *models.UserLocation
	filters    Filters
	manualMode bool
	lastErr    *Error
}

func NewFlow(p Provider, query NearbyFunc, opts Options, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Flow{provider: p, query: query, opts: opts, logger: logger}
}

func (f *Flow) SetFilters(filters Filters) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = filters
}

func (f *Flow) Filters() Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ManualMode reports whether the manual map affordance should be shown.
func (f *Flow) ManualMode() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.manualMode
}

// Location returns the last stored fix, or nil.
func (f *Flow) Location() *models.UserLocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.location == nil {
		return nil
	}
	loc := *f.location
	return &loc
}

// LastError returns the classified failure of the most recent attempt.
func (f *Flow) LastError() *Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Acquire requests a one-shot high-accuracy fix and, on success, issues the
// nearby query with the fresh coordinates and the current filters. On
// failure it returns the classified *Error and enables manual mode; the
// error is meant to be rendered via Message, not propagated further.
// There is no user-triggered cancellation; only opts.Timeout bounds it.
func (f *Flow) Acquire(ctx context.Context) ([]models.NearbyUser, error) {
	f.mu.Lock()
	f.state = StateRequesting
	f.lastErr = nil
	provider := f.provider
	opts := f.opts
	f.mu.Unlock()

	pos, err := provider.CurrentPosition(ctx, opts)
	if err != nil {
		gerr := Classify(err)
		f.mu.Lock()
		f.state = StateFailed
		f.manualMode = true
		f.lastErr = gerr
		f.mu.Unlock()
		f.logger.Warn("geo: acquisition failed", "kind", string(gerr.Kind), "err", err)
		return nil, gerr
	}

	loc := models.UserLocation{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Accuracy:  pos.Accuracy,
		Timestamp: time.Now().UTC(),
		IsManual:  false,
	}

	f.mu.Lock()
	f.state = StateResolved
	f.manualMode = false
	f.location = &loc
	filters := f.filters
	f.mu.Unlock()

	f.logger.Info("geo: fix acquired", "accuracy_m", pos.Accuracy)
	return f.query(ctx, loc, filters)
}

// SelectManual records a location chosen by dragging the marker or picking
// a searched place. Manual selections always carry the synthetic accuracy.
func (f *Flow) SelectManual(latitude, longitude float64) models.UserLocation {
	loc := models.UserLocation{
		Latitude:  latitude,
		Longitude: longitude,
		Accuracy:  manualAccuracy,
		Timestamp: time.Now().UTC(),
		IsManual:  true,
	}

	f.mu.Lock()
	f.location = &loc
	f.mu.Unlock()

	return loc
}

// ConfirmManual re-issues the nearby query with the manually selected
// location and the current filters, and leaves manual mode.
func (f *Flow) ConfirmManual(ctx context.Context) ([]models.NearbyUser, error) {
	f.mu.Lock()
	if f.location == nil || !f.location.IsManual {
		f.mu.Unlock()
		return nil, fmt.Errorf("no manual location selected")
	}
	loc := *f.location
	filters := f.filters
	f.state = StateResolved
	f.manualMode = false
	f.mu.Unlock()

	return f.query(ctx, loc, filters)
}
