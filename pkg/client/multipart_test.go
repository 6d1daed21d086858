package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestFormEncodesScalarsObjectsAndFiles(t *testing.T) {
	type loc struct {
		City string `json:"city"`
	}

	var (
		content string
		visible string
		locJSON string
		fileGot string
	)
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		content = r.FormValue("content")
		visible = r.FormValue("visible")
		locJSON = r.FormValue("location")

		file, _, err := r.FormFile("media")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		fileGot = string(b)

		w.Write([]byte(`{"_id": "post-1"}`))
	}))

	form := NewForm().
		Set("content", "hello world").
		Set("visible", true).
		Set("location", loc{City: "Lisbon"}).
		AddFile("media", "photo.jpg", strings.NewReader("jpegbytes"))

	if _, err := f.client.CreatePost(context.Background(), form); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if content != "hello world" {
		t.Fatalf("content = %q", content)
	}
	if visible != "true" {
		t.Fatalf("visible = %q, want stringified bool", visible)
	}
	var decoded loc
	if err := json.Unmarshal([]byte(locJSON), &decoded); err != nil || decoded.City != "Lisbon" {
		t.Fatalf("location part = %q, want JSON-encoded object", locJSON)
	}
	if fileGot != "jpegbytes" {
		t.Fatalf("file part = %q", fileGot)
	}
}

func TestCreateProjectRejectsMissingTitleBeforeNetwork(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid project")
	}))

	_, err := f.client.CreateProject(context.Background(), NewForm().Set("description", "untitled"))
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Fatalf("err = %v, want title validation error", err)
	}
}

func TestCreateEventValidatesBeforeNetwork(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid event")
	}))

	form := NewForm().Set("startsAt", "2026-09-01T18:00:00Z")
	if _, err := f.client.CreateEvent(context.Background(), form); err == nil {
		t.Fatal("expected validation error for missing title")
	}

	form = NewForm().Set("title", "Go meetup")
	if _, err := f.client.CreateEvent(context.Background(), form); err == nil {
		t.Fatal("expected validation error for missing start time")
	}
}

func TestCreateEventAcceptsValidPayload(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("title") != "Go meetup" {
			http.Error(w, "missing title", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"_id": "event-1"}`))
	}))

	form := NewForm().
		Set("title", "Go meetup").
		Set("startsAt", "2026-09-01T18:00:00Z")
	if _, err := f.client.CreateEvent(context.Background(), form); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
}

func TestCreateJobValidatesPayload(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid job")
	}))

	if _, err := f.client.CreateJob(context.Background(), map[string]string{"description": "no title"}); err == nil {
		t.Fatal("expected validation error for missing title")
	}
	if _, err := f.client.CreateJob(context.Background(), map[string]string{"title": ""}); err == nil {
		t.Fatal("expected validation error for empty title")
	}
}

func TestRegisterWebhookValidatesSubscription(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid webhook")
	}))

	if _, err := f.client.RegisterWebhook(context.Background(), Webhook{URL: "https://example.com/hook"}); err == nil {
		t.Fatal("expected validation error for empty events")
	}
	if _, err := f.client.RegisterWebhook(context.Background(), Webhook{Events: []string{"new_message"}}); err == nil {
		t.Fatal("expected validation error for missing url")
	}
}

func TestMultipartNeverRetries(t *testing.T) {
	var hits int
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	form := NewForm().Set("content", "x")
	if _, err := f.client.CreatePost(context.Background(), form); err == nil {
		t.Fatal("expected error")
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}
