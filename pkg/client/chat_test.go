package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/meshline/meshline-go/internal/realtime"
)

func chatBackend(t *testing.T) *mux.Router {
	t.Helper()
	r := mux.NewRouter()

	r.HandleFunc("/api/chats/{chatID}/messages", func(w http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		json.NewEncoder(w).Encode(map[string]string{
			"_id":      "msg-1",
			"chatId":   vars["chatID"],
			"senderId": "user-1",
			"content":  "hello",
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/chats/{chatID}/messages/{messageID}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{}`))
	}).Methods(http.MethodDelete)

	r.HandleFunc("/api/chats/{chatID}/messages/{messageID}/react", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"userId": "user-1", "reaction": "like"})
	}).Methods(http.MethodPost, http.MethodDelete)

	r.HandleFunc("/api/calls/{chatID}/{kind:audio|video}", func(w http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		json.NewEncoder(w).Encode(map[string]any{
			"callId": "call-1",
			"chatId": vars["chatID"],
			"type":   vars["kind"],
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/calls/{callID}/accept", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"callId": mux.Vars(req)["callID"], "acceptedBy": "user-1"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/calls/{callID}/end", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"callId": mux.Vars(req)["callID"], "endedBy": "user-1"})
	}).Methods(http.MethodPost)

	return r
}

func eventNames(evs []realtime.Event) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Name)
	}
	return out
}

func TestSendMessageEmitsAfterSuccess(t *testing.T) {
	f := newFixture(t, chatBackend(t))
	f.connect(t, signedToken(t, "user-1"))

	msg, err := f.client.SendMessage(context.Background(), "chat-1", map[string]string{"content": "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ID != "msg-1" {
		t.Fatalf("msg.ID = %q", msg.ID)
	}

	evs := f.transport.Events()
	if len(evs) != 1 || evs[0].Name != realtime.EventNewMessage {
		t.Fatalf("events = %v, want one new_message", eventNames(evs))
	}
	payload := evs[0].Payload.(map[string]any)
	if payload["chatId"] != "chat-1" || payload["messageId"] != "msg-1" {
		t.Fatalf("payload = %v", payload)
	}
	if evs[0].ID == "" {
		t.Fatal("event id missing")
	}
}

func TestNoEmitWhenRequestFails(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	f.connect(t, signedToken(t, "user-1"))

	if _, err := f.client.SendMessage(context.Background(), "chat-1", map[string]string{"content": "x"}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := f.client.ReactToMessage(context.Background(), "chat-1", "msg-1", "like"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := f.client.StartAudioCall(context.Background(), "chat-1"); err == nil {
		t.Fatal("expected error")
	}

	if evs := f.transport.Events(); len(evs) != 0 {
		t.Fatalf("events emitted on failed requests: %v", eventNames(evs))
	}
}

func TestEmitsDroppedWhenDisconnected(t *testing.T) {
	f := newFixture(t, chatBackend(t))
	// credential stored, but the channel was never connected
	if err := f.store.Save(context.Background(), signedToken(t, "user-1"), "user-1"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := f.client.SendMessage(context.Background(), "chat-1", map[string]string{"content": "x"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if evs := f.transport.Events(); len(evs) != 0 {
		t.Fatalf("events reached a closed transport: %v", eventNames(evs))
	}
}

func TestDeleteMessageEmitsMessageDeleted(t *testing.T) {
	f := newFixture(t, chatBackend(t))
	f.connect(t, signedToken(t, "user-1"))

	if err := f.client.DeleteMessage(context.Background(), "chat-1", "msg-9"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}

	evs := f.transport.Events()
	if len(evs) != 1 || evs[0].Name != realtime.EventMessageDeleted {
		t.Fatalf("events = %v, want one message_deleted", eventNames(evs))
	}
	payload := evs[0].Payload.(map[string]string)
	if payload["chatId"] != "chat-1" || payload["messageId"] != "msg-9" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestReactionRoundTripEmits(t *testing.T) {
	f := newFixture(t, chatBackend(t))
	f.connect(t, signedToken(t, "user-1"))
	ctx := context.Background()

	if _, err := f.client.ReactToMessage(ctx, "chat-1", "msg-1", "like"); err != nil {
		t.Fatalf("ReactToMessage: %v", err)
	}
	if _, err := f.client.RemoveReaction(ctx, "chat-1", "msg-1"); err != nil {
		t.Fatalf("RemoveReaction: %v", err)
	}

	names := eventNames(f.transport.Events())
	want := []string{realtime.EventMessageReaction, realtime.EventReactionRemoved}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("events = %v, want %v", names, want)
	}
}

func TestCallLifecycleEmits(t *testing.T) {
	f := newFixture(t, chatBackend(t))
	f.connect(t, signedToken(t, "user-1"))
	ctx := context.Background()

	call, err := f.client.StartVideoCall(ctx, "chat-1")
	if err != nil {
		t.Fatalf("StartVideoCall: %v", err)
	}
	if call.CallID != "call-1" {
		t.Fatalf("call id = %q", call.CallID)
	}
	if _, err := f.client.AcceptCall(ctx, call.CallID); err != nil {
		t.Fatalf("AcceptCall: %v", err)
	}
	if _, err := f.client.EndCall(ctx, call.CallID); err != nil {
		t.Fatalf("EndCall: %v", err)
	}

	names := eventNames(f.transport.Events())
	want := []string{realtime.EventCallStarted, realtime.EventCallAccepted, realtime.EventCallEnded}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("events = %v, want %v", names, want)
	}

	started := f.transport.Events()[0].Payload.(map[string]any)
	if started["type"] != "video" || started["chatId"] != "chat-1" {
		t.Fatalf("call_started payload = %v", started)
	}
}

func TestSendMessageRequiresChatID(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	if _, err := f.client.SendMessage(context.Background(), "", nil); err == nil {
		t.Fatal("expected validation error")
	}
}
