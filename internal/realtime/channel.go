package realtime

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Named events mirrored on the channel after the corresponding HTTP call
// succeeds.
const (
	EventUpdateLocation  = "update_location"
	EventNewMessage      = "new_message"
	EventMessageDeleted  = "message_deleted"
	EventMessageReaction = "message_reaction"
	EventReactionRemoved = "reaction_removed"
	EventCallStarted     = "call_started"
	EventCallAccepted    = "call_accepted"
	EventCallDeclined    = "call_declined"
	EventCallEnded       = "call_ended"
)

// Event is a fire-and-forget notification. ID is client-generated so other
// connected clients can de-duplicate pushes.
type Event struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Transport carries events to the push-notification peer. Implementations
// must tolerate Close without a prior Open.
type Transport interface {
	Open(token string) error
	Close() error
	Send(ev Event) error
}

// Channel is the client-facing handle. Delivery guarantees belong to the
// transport; Emit never blocks on acknowledgement and never retries.
type Channel interface {
	Connect(token string) error
	Disconnect()
	Emit(name string, payload any)
	Connected() bool
}

// Handle is the concrete Channel over a swappable Transport.
type Handle struct {
	mu        sync.Mutex
	transport Transport
	token     string
	connected bool
	logger    *slog.Logger
}

var _ Channel = (*Handle)(nil)

func NewHandle(t Transport, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Handle{transport: t, logger: logger}
}

// Connect opens the transport with the credential. Calling Connect again
// with the same credential is a no-op; a different credential reconnects.
func (h *Handle) Connect(token string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connected && h.token == token {
		return nil
	}
	if h.connected {
		if err := h.transport.Close(); err != nil {
			h.logger.Warn("realtime: close before reconnect", "err", err)
		}
		h.connected = false
		h.token = ""
	}

	if err := h.transport.Open(token); err != nil {
		return err
	}

	h.token = token
	h.connected = true
	h.logger.Info("realtime: connected")
	return nil
}

// Disconnect tears down the transport. Safe to call when already
// disconnected.
func (h *Handle) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.connected {
		return
	}
	if err := h.transport.Close(); err != nil {
		h.logger.Warn("realtime: close", "err", err)
	}
	h.connected = false
	h.token = ""
	h.logger.Info("realtime: disconnected")
}

// Emit publishes a named event. Events emitted while disconnected are
// dropped; send failures are logged, not surfaced.
func (h *Handle) Emit(name string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.connected {
		h.logger.Debug("realtime: emit dropped, not connected", "event", name)
		return
	}

	ev := Event{
		ID:      uuid.NewString(),
		Name:    name,
		Payload: payload,
		At:      time.Now().UTC(),
	}
	if err := h.transport.Send(ev); err != nil {
		h.logger.Error("realtime: send", "event", name, "err", err)
	}
}

func (h *Handle) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}
