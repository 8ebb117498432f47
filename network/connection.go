package network

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrPeerClosed is returned when sending to a peer that is closing or closed
	ErrPeerClosed = errors.New("peer closed")
	// ErrQueueFull is returned when a peer's send queue has no room
	ErrQueueFull = errors.New("peer send queue full")
)

// PeerID uniquely identifies a connection for the lifetime of a Transport
type PeerID uint32

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateDisconnecting
)

// Peer is one accepted TCP connection
// Outbound lines are queued and written by a dedicated goroutine, each one
// SimulatedLatency after it was queued. State lines are latest-wins on
// overflow: the oldest queued state is evicted, notices never are.
type Peer struct {
	ID   PeerID
	Addr string

	State atomic.Uint32 // ConnState

	conn   net.Conn
	reader *bufio.Reader

	latency      time.Duration
	writeTimeout time.Duration

	mu       sync.Mutex
	queue    []outbound
	queueCap int
	closing  bool
	wake     chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

type outbound struct {
	line  []byte
	due   time.Time
	state bool
}

// newPeer wraps an established connection
func newPeer(id PeerID, conn net.Conn, cfg *Config) *Peer {
	readSize := cfg.ReadBufferSize
	if readSize <= 0 {
		readSize = 4096
	}
	queue := cfg.SendQueueSize
	if queue <= 0 {
		queue = 1
	}
	p := &Peer{
		ID:           id,
		Addr:         conn.RemoteAddr().String(),
		conn:         conn,
		reader:       bufio.NewReaderSize(conn, readSize),
		latency:      cfg.SimulatedLatency,
		writeTimeout: cfg.WriteTimeout,
		queue:        make([]outbound, 0, queue),
		queueCap:     queue,
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	p.State.Store(uint32(StateConnected))
	return p
}

// Send queues a notice line; notices are never evicted, so a queue holding
// no superseded state fails with ErrQueueFull
func (p *Peer) Send(line []byte) error {
	return p.enqueue(line, false)
}

// SendState queues a state line; a full queue evicts its oldest state line
// so the most recent state is always delivered
func (p *Peer) SendState(line []byte) error {
	return p.enqueue(line, true)
}

func (p *Peer) enqueue(line []byte, state bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closing {
		return ErrPeerClosed
	}
	if len(p.queue) >= p.queueCap && !p.evictState(state) {
		return ErrQueueFull
	}
	p.queue = append(p.queue, outbound{line: line, due: time.Now().Add(p.latency), state: state})
	p.signal()
	return nil
}

// evictState removes the oldest queued state line, keeping the newest one
// unless incoming replaces it; caller holds mu
func (p *Peer) evictState(incoming bool) bool {
	oldest, states := -1, 0
	for i, item := range p.queue {
		if item.state {
			if oldest < 0 {
				oldest = i
			}
			states++
		}
	}
	if oldest < 0 || (!incoming && states < 2) {
		return false
	}
	p.queue = append(p.queue[:oldest], p.queue[oldest+1:]...)
	return true
}

func (p *Peer) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Close stops accepting sends; lines already queued are written before the connection closes
func (p *Peer) Close() error {
	p.beginClose()
	return nil
}

func (p *Peer) beginClose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closing {
		return
	}
	p.closing = true
	p.State.Store(uint32(StateDisconnecting))
	p.signal()
}

// shutdown closes the connection immediately, discarding queued lines
func (p *Peer) shutdown() {
	p.closeOnce.Do(func() {
		p.beginClose()
		p.conn.Close()
		p.State.Store(uint32(StateDisconnected))
		close(p.done)
	})
}

// next blocks for the oldest queued line; false once the peer is closing and drained
func (p *Peer) next() (outbound, bool) {
	for {
		p.mu.Lock()
		if len(p.queue) > 0 {
			item := p.queue[0]
			p.queue[0] = outbound{}
			p.queue = p.queue[1:]
			p.mu.Unlock()
			return item, true
		}
		closing := p.closing
		p.mu.Unlock()
		if closing {
			return outbound{}, false
		}

		select {
		case <-p.wake:
		case <-p.done:
			return outbound{}, false
		}
	}
}

// writeLoop drains the send queue; it ends the connection once the queue is closed and empty
func (p *Peer) writeLoop() {
	defer p.shutdown()

	for {
		item, ok := p.next()
		if !ok {
			return
		}
		if wait := time.Until(item.due); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-p.done:
				timer.Stop()
				return
			}
		}
		if p.writeTimeout > 0 {
			_ = p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
		}
		if _, err := p.conn.Write(item.line); err != nil {
			return
		}
	}
}

// readLoop delivers one event per received byte until the connection fails
// A read deadline expiry only re-checks stop and retries, so idle peers stay connected
func (p *Peer) readLoop(stop <-chan struct{}, pollInterval time.Duration, emit func(Event)) {
	defer p.shutdown()

	for {
		if pollInterval > 0 {
			_ = p.conn.SetReadDeadline(time.Now().Add(pollInterval))
		}

		b, err := p.reader.ReadByte()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				select {
				case <-stop:
					return
				case <-p.done:
					emit(Event{Kind: EventDisconnect, Peer: p, Err: ErrPeerClosed})
					return
				default:
					continue
				}
			}
			select {
			case <-stop:
				return
			default:
			}
			emit(Event{Kind: EventDisconnect, Peer: p, Err: err})
			return
		}

		emit(Event{Kind: EventCommand, Peer: p, Command: b})
	}
}
