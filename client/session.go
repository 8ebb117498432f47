package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/lixenwraith/coin-collector/logging"
	"github.com/lixenwraith/coin-collector/network"
)

// Session is the client's connection to the server
// Run owns reads; Send may be called from the input loop concurrently
type Session struct {
	conn     net.Conn
	receiver *Receiver
	scene    *Scene
	clock    Clock
	logger   logging.Logger

	writeTimeout time.Duration
	writeMu      sync.Mutex
	closeOnce    sync.Once
}

// Connect dials cfg.Address and binds the connection to scene
func Connect(ctx context.Context, cfg *network.Config, scene *Scene, clock Clock, logger logging.Logger) (*Session, error) {
	if cfg == nil {
		cfg = network.ClientConfig("")
	}
	conn, err := network.Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := NewSession(conn, scene, clock, logger)
	s.writeTimeout = cfg.WriteTimeout
	return s, nil
}

// NewSession wraps an established connection
func NewSession(conn net.Conn, scene *Scene, clock Clock, logger logging.Logger) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard
	}
	return &Session{
		conn:     conn,
		receiver: NewReceiver(scene),
		scene:    scene,
		clock:    clock,
		logger:   logger,
	}
}

// Run applies inbound lines until the connection closes, then ends the scene
// A clean close by either side returns nil
func (s *Session) Run() error {
	defer s.scene.End()

	r := bufio.NewReader(s.conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if s.scene.Over() || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				s.logger.Printf("client: connection closed")
				return nil
			}
			s.logger.Printf("client: read failed: %v", err)
			return err
		}
		if !s.receiver.Apply(line, s.clock.Now()) {
			s.logger.Printf("client: notice %q", line)
		}
	}
}

// Send writes one command byte
func (s *Session) Send(cmd byte) error {
	if s.scene.Over() {
		return network.ErrPeerClosed
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	_, err := s.conn.Write([]byte{cmd})
	return err
}

// Close ends the scene and the connection; Run returns shortly after
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.scene.End()
		err = s.conn.Close()
	})
	return err
}
