package realtime

import (
	"errors"
	"sync"
)

// ErrTransportClosed is returned by Send on a closed transport.
var ErrTransportClosed = errors.New("realtime transport closed")

// MemoryTransport queues events in memory. It stands in for the production
// transport in tests and in environments without a push peer.
type MemoryTransport struct {
	mu     sync.Mutex
	open   bool
	token  string
	events []Event
}

var _ Transport = (*MemoryTransport)(nil)

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{}
}

func (m *MemoryTransport) Open(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = true
	m.token = token
	return nil
}

func (m *MemoryTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = false
	m.token = ""
	return nil
}

func (m *MemoryTransport) Send(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrTransportClosed
	}
	m.events = append(m.events, ev)
	return nil
}

// Events returns a snapshot of everything sent so far.
func (m *MemoryTransport) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Token returns the credential the transport was last opened with.
func (m *MemoryTransport) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}
