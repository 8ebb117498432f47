package parameter

import "time"

// Transport
const (
	// DefaultPort is the TCP port the server binds and the client dials
	DefaultPort = "55555"

	// DefaultServerAddress binds every interface
	DefaultServerAddress = ":" + DefaultPort

	// DefaultClientAddress targets a server on the local machine
	DefaultClientAddress = "127.0.0.1:" + DefaultPort

	// SimulatedLatency is the delay applied before every server write to exercise interpolation
	SimulatedLatency = 200 * time.Millisecond

	// ReadPollInterval bounds a single blocking read; a timeout re-checks shutdown and retries
	ReadPollInterval = 500 * time.Millisecond

	// WriteTimeout bounds a single write to a peer
	WriteTimeout = 5 * time.Second

	// ConnectTimeout bounds the client dial
	ConnectTimeout = 5 * time.Second

	// SendQueueSize is the per-peer outbound line buffer
	SendQueueSize = 64
)
