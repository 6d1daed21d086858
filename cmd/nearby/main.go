package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/meshline/meshline-go/internal/config"
	"github.com/meshline/meshline-go/internal/geo"
	"github.com/meshline/meshline-go/internal/realtime"
	"github.com/meshline/meshline-go/internal/session"
	"github.com/meshline/meshline-go/pkg/client"
	"github.com/meshline/meshline-go/pkg/models"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config YAML file")
		email      = flag.String("email", "", "Login email (uses the stored session when empty)")
		password   = flag.String("password", "", "Login password")
		latitude   = flag.Float64("lat", 0, "Latitude (falls back to IP lookup when unset)")
		longitude  = flag.Float64("lng", 0, "Longitude (falls back to IP lookup when unset)")
		distance   = flag.Int("distance", 0, "Search radius in km (config default when unset)")
		watch      = flag.Bool("watch", false, "Keep pushing location updates until interrupted")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting nearby client version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	store, err := session.Open(ctx, cfg.Session.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer store.Close()

	channel := realtime.NewHandle(realtime.NewMemoryTransport(), nil)

	c, err := client.NewDefaultClient(cfg.API, store, channel, nil)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	if *email != "" {
		if _, err := c.Login(ctx, client.Credentials{Email: *email, Password: *password}); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	} else if !store.Active(ctx) {
		log.Fatal("No stored session; pass -email and -password to log in")
	} else if tok, err := store.Token(ctx); err == nil {
		if err := channel.Connect(tok); err != nil {
			log.Printf("Realtime connect failed: %v", err)
		}
	}

	provider := positionProvider(c, *latitude, *longitude)

	radius := cfg.Geo.DefaultDistanceKM
	if *distance > 0 {
		radius = *distance
	}

	opts := geo.Options{
		EnableHighAccuracy: cfg.Geo.HighAccuracy,
		Timeout:            cfg.Geo.RequestTimeout,
	}
	pos, err := provider.CurrentPosition(ctx, opts)
	if err != nil {
		gerr := geo.Classify(err)
		log.Fatalf("Position unavailable (%s): %s", gerr.Kind, gerr.Message())
	}

	users, err := c.NearbyProfessionals(ctx, float64(radius), pos.Latitude, pos.Longitude)
	if err != nil {
		log.Fatalf("Nearby lookup failed: %v", err)
	}

	log.Printf("%d professionals within %d km of %.4f, %.4f", len(users), radius, pos.Latitude, pos.Longitude)
	for _, u := range users {
		dist := "unknown distance"
		if u.DistanceKM != nil {
			dist = fmt.Sprintf("%.1f km", *u.DistanceKM)
		}
		fmt.Printf("  %s %s — %s (%s)\n", u.FirstName, u.LastName, u.Headline, dist)
	}

	if !*watch {
		return
	}

	// Continuous mode: re-acquire and push on the configured interval until
	// interrupted.
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.Geo.PushesPerMinute)/60.0), 1)
	updater := geo.NewUpdater(provider, func(ctx context.Context, pos geo.Position) error {
		res := c.ContinuousLocationUpdate(ctx, models.ContinuousLocation{
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
			Accuracy:  pos.Accuracy,
			Heading:   pos.Heading,
			Speed:     pos.Speed,
		})
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}
		return nil
	}, cfg.Geo.ContinuousInterval, opts, limiter, nil)

	updater.Start(ctx)
	log.Printf("Pushing location every %s; Ctrl-C to stop", cfg.Geo.ContinuousInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Stopping location updates...")

	updater.Stop()
	channel.Disconnect()
	log.Println("Client exited")
}

// positionProvider uses fixed coordinates when both flags are set, and an
// IP-derived position otherwise. IP fixes carry a coarse accuracy so the
// backend can weight them accordingly.
func positionProvider(c *client.Client, lat, lng float64) geo.Provider {
	if lat != 0 || lng != 0 {
		return geo.ProviderFunc(func(ctx context.Context, _ geo.Options) (geo.Position, error) {
			return geo.Position{Latitude: lat, Longitude: lng, Accuracy: 10}, nil
		})
	}
	return geo.ProviderFunc(func(ctx context.Context, _ geo.Options) (geo.Position, error) {
		loc, err := c.IPLocation(ctx)
		if err != nil {
			return geo.Position{}, &geo.Error{Kind: geo.KindPositionUnavailable, Err: err}
		}
		return geo.Position{Latitude: loc.Latitude, Longitude: loc.Longitude, Accuracy: 5000}, nil
	})
}
