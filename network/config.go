package network

import (
	"time"

	"github.com/lixenwraith/coin-collector/parameter"
)

// Role defines which side of the connection a Config describes
type Role uint8

const (
	RoleNone   Role = iota // Network disabled
	RoleClient             // Dials the server
	RoleServer             // Accepts player connections
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "none"
	}
}

// Config holds network configuration
type Config struct {
	// Role determines connection behavior
	Role Role

	// Address to bind (server) or connect to (client)
	Address string

	// Timing
	ConnectTimeout time.Duration
	// ReadTimeout bounds one blocking read; expiry is a poll, not a disconnect
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SimulatedLatency delays every outbound write; zero disables it
	SimulatedLatency time.Duration

	// Buffer sizes
	ReadBufferSize int
	SendQueueSize  int
	EventQueueSize int
}

// DefaultConfig returns the reference timings with the role left unset
func DefaultConfig() *Config {
	return &Config{
		Role:             RoleNone,
		Address:          parameter.DefaultServerAddress,
		ConnectTimeout:   parameter.ConnectTimeout,
		ReadTimeout:      parameter.ReadPollInterval,
		WriteTimeout:     parameter.WriteTimeout,
		SimulatedLatency: parameter.SimulatedLatency,
		ReadBufferSize:   4 * 1024,
		SendQueueSize:    parameter.SendQueueSize,
		EventQueueSize:   256,
	}
}

// ServerConfig returns defaults for a listening server on addr
func ServerConfig(addr string) *Config {
	cfg := DefaultConfig()
	cfg.Role = RoleServer
	if addr != "" {
		cfg.Address = addr
	}
	return cfg
}

// ClientConfig returns defaults for a client dialing addr
// Latency is simulated on the server side only
func ClientConfig(addr string) *Config {
	cfg := DefaultConfig()
	cfg.Role = RoleClient
	cfg.Address = parameter.DefaultClientAddress
	if addr != "" {
		cfg.Address = addr
	}
	cfg.SimulatedLatency = 0
	return cfg
}
