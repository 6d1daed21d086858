package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"

	"github.com/meshline/meshline-go/internal/realtime"
	"github.com/meshline/meshline-go/pkg/models"
)

func TestUpdateLocationEmitsAfterSuccess(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/location", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{}`))
	}).Methods(http.MethodPut)

	f := newFixture(t, r)
	f.connect(t, signedToken(t, "user-1"))

	if _, err := f.client.UpdateLocation(context.Background(), 40.7, -74.0); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}

	evs := f.transport.Events()
	if len(evs) != 1 || evs[0].Name != realtime.EventUpdateLocation {
		t.Fatalf("events = %v, want one update_location", eventNames(evs))
	}
	payload := evs[0].Payload.(map[string]float64)
	if payload["latitude"] != 40.7 || payload["longitude"] != -74.0 {
		t.Fatalf("payload = %v", payload)
	}
}

func TestContinuousUpdateRejectsOutOfRangeCoordinates(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid coordinates")
	}))

	res := f.client.ContinuousLocationUpdate(context.Background(), models.ContinuousLocation{Latitude: 91, Longitude: 0})
	if res.Success || res.Error == "" {
		t.Fatalf("result = %+v, want failure with message", res)
	}
	res = f.client.ContinuousLocationUpdate(context.Background(), models.ContinuousLocation{Latitude: 0, Longitude: -181})
	if res.Success {
		t.Fatalf("result = %+v, want failure", res)
	}
}

func TestContinuousUpdateDowngradesBackendFailure(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	res := f.client.ContinuousLocationUpdate(context.Background(), models.ContinuousLocation{Latitude: 1, Longitude: 1})
	if res.Success || res.Error == "" {
		t.Fatalf("result = %+v, want downgraded failure", res)
	}
}

func TestContinuousUpdateEmitsOnlyWhenConnected(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/location/continuous", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{}`))
	}).Methods(http.MethodPut)

	f := newFixture(t, r)

	loc := models.ContinuousLocation{Latitude: 1, Longitude: 2, Accuracy: 5}
	if res := f.client.ContinuousLocationUpdate(context.Background(), loc); !res.Success {
		t.Fatalf("result = %+v", res)
	}
	if evs := f.transport.Events(); len(evs) != 0 {
		t.Fatalf("emit while disconnected: %v", eventNames(evs))
	}

	f.connect(t, signedToken(t, "user-1"))
	if res := f.client.ContinuousLocationUpdate(context.Background(), loc); !res.Success {
		t.Fatalf("result = %+v", res)
	}
	evs := f.transport.Events()
	if len(evs) != 1 || evs[0].Name != realtime.EventUpdateLocation {
		t.Fatalf("events = %v, want one update_location", eventNames(evs))
	}
}

func TestIPLocationFallsBackToExternalService(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/location/ip", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "not implemented", http.StatusNotFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/external/ip", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.IPLocation{Latitude: 38.7, Longitude: -9.1, City: "Lisbon"})
	}).Methods(http.MethodGet)

	f := newFixture(t, r)

	loc, err := f.client.IPLocation(context.Background())
	if err != nil {
		t.Fatalf("IPLocation: %v", err)
	}
	if loc.City != "Lisbon" || loc.Latitude != 38.7 {
		t.Fatalf("loc = %+v", loc)
	}
}

func TestIPLocationPrefersBackend(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/location/ip", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.IPLocation{Latitude: 1, Longitude: 2, City: "Backend"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/external/ip", func(w http.ResponseWriter, req *http.Request) {
		t.Error("external service hit although backend answered")
	}).Methods(http.MethodGet)

	f := newFixture(t, r)

	loc, err := f.client.IPLocation(context.Background())
	if err != nil {
		t.Fatalf("IPLocation: %v", err)
	}
	if loc.City != "Backend" {
		t.Fatalf("loc = %+v, want backend answer", loc)
	}
}
