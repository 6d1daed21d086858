package geo

import (
	"context"
	"time"
)

// Position is a device fix.
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters
	Heading   *float64
	Speed     *float64
	At        time.Time
}

// Options mirrors the device position-query configuration.
type Options struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	// MaximumAge is the cached-fix tolerance; zero demands a fresh fix.
	MaximumAge time.Duration
}

// Provider is a source of device fixes. Implementations return *Error so
// failures map onto the recovery affordances.
type Provider interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, opts Options) (Position, error)

func (f ProviderFunc) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	return f(ctx, opts)
}
