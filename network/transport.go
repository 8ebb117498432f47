package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
)

// EventKind distinguishes transport events
type EventKind uint8

const (
	EventConnect EventKind = iota
	EventCommand
	EventDisconnect
)

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "connect"
	case EventCommand:
		return "command"
	case EventDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Event is delivered to the single consumer of Transport.Events
// For a given peer, Connect always precedes its Commands, and Disconnect is last
type Event struct {
	Kind    EventKind
	Peer    *Peer
	Command byte
	Err     error
}

// Transport accepts connections and fans their input into one ordered event stream
type Transport struct {
	config   *Config
	listener net.Listener
	events   chan Event
	nextID   atomic.Uint32

	mu     sync.Mutex
	peers  map[PeerID]*Peer
	closed bool

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewTransport creates a transport with the given configuration
func NewTransport(cfg *Config) *Transport {
	if cfg == nil {
		cfg = ServerConfig("")
	}
	size := cfg.EventQueueSize
	if size <= 0 {
		size = 256
	}
	return &Transport{
		config: cfg,
		events: make(chan Event, size),
		peers:  make(map[PeerID]*Peer),
		stopCh: make(chan struct{}),
	}
}

// Start binds the listener and begins accepting
func (t *Transport) Start() error {
	if !t.running.CompareAndSwap(false, true) {
		return nil // Already running
	}
	if t.config.Role != RoleServer {
		t.running.Store(false)
		return fmt.Errorf("transport start: role %s cannot listen", t.config.Role)
	}

	ln, err := net.Listen("tcp", t.config.Address)
	if err != nil {
		t.running.Store(false)
		return fmt.Errorf("listen %s: %w", t.config.Address, err)
	}
	t.listener = ln

	t.wg.Add(1)
	go t.acceptLoop()

	return nil
}

// Addr returns the bound listener address, useful when binding port 0
func (t *Transport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Events returns the ordered event stream
func (t *Transport) Events() <-chan Event {
	return t.events
}

// acceptLoop handles incoming connections
func (t *Transport) acceptLoop() {
	defer t.wg.Done()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.stopCh:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		id := PeerID(t.nextID.Add(1))
		peer := newPeer(id, conn, t.config)

		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			conn.Close()
			return
		}
		t.peers[id] = peer
		t.mu.Unlock()

		t.wg.Add(2)
		go func() {
			defer t.wg.Done()
			peer.writeLoop()
		}()

		// Connect is queued before the reader starts so commands never overtake it
		t.emit(Event{Kind: EventConnect, Peer: peer})

		go func() {
			defer t.wg.Done()
			peer.readLoop(t.stopCh, t.config.ReadTimeout, t.emit)
			t.forget(peer.ID)
		}()
	}
}

func (t *Transport) emit(ev Event) {
	select {
	case t.events <- ev:
	case <-t.stopCh:
	}
}

func (t *Transport) forget(id PeerID) {
	t.mu.Lock()
	delete(t.peers, id)
	t.mu.Unlock()
}

// PeerCount returns the number of open connections, registered or not
func (t *Transport) PeerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.peers)
}

// IsRunning returns transport state
func (t *Transport) IsRunning() bool {
	return t.running.Load()
}

// Stop closes the listener and every connection, then waits for all goroutines
func (t *Transport) Stop() error {
	if !t.running.CompareAndSwap(true, false) {
		return nil
	}

	close(t.stopCh)

	var err error
	if t.listener != nil {
		err = t.listener.Close()
	}

	t.mu.Lock()
	t.closed = true
	peers := make([]*Peer, 0, len(t.peers))
	for _, p := range t.peers {
		peers = append(peers, p)
	}
	t.mu.Unlock()
	for _, p := range peers {
		p.shutdown()
	}

	t.wg.Wait()
	return err
}

// Dial connects a client to cfg.Address
func Dial(ctx context.Context, cfg *Config) (net.Conn, error) {
	if cfg == nil {
		cfg = ClientConfig("")
	}
	dialer := &net.Dialer{
		Timeout: cfg.ConnectTimeout,
	}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Address, err)
	}
	return conn, nil
}
