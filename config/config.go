// Package config resolves runtime settings from an optional .env file and
// the process environment. Command-line flags are applied on top by cmd/.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/lixenwraith/coin-collector/logging"
	"github.com/lixenwraith/coin-collector/parameter"
)

// Environment keys
const (
	EnvAddr          = "COIN_ADDR"
	EnvLatencyMS     = "COIN_LATENCY_MS"
	EnvReadTimeoutMS = "COIN_READ_TIMEOUT_MS"
	EnvExitOnQuit    = "COIN_EXIT_ON_QUIT"
	EnvSpectateAddr  = "COIN_SPECTATE_ADDR"
	EnvEventLog      = "COIN_EVENT_LOG"
	EnvSeed          = "COIN_SEED"
)

// DefaultEnvFile is read when present; a missing file is not an error
const DefaultEnvFile = ".env"

// Settings are the values shared by the server and client binaries
type Settings struct {
	Addr         string
	Latency      time.Duration
	ReadTimeout  time.Duration
	ExitOnQuit   bool
	SpectateAddr string // empty disables the spectator listener
	EventLog     string // empty disables the JSON event file
	Seed         int64  // zero seeds from the clock
}

// ServerDefaults returns settings for a server bound to the default port
func ServerDefaults() Settings {
	return Settings{
		Addr:        parameter.DefaultServerAddress,
		Latency:     parameter.SimulatedLatency,
		ReadTimeout: parameter.ReadPollInterval,
		ExitOnQuit:  true,
	}
}

// ClientDefaults returns settings for a client dialing localhost
func ClientDefaults() Settings {
	return Settings{
		Addr:        parameter.DefaultClientAddress,
		ReadTimeout: parameter.ReadPollInterval,
	}
}

// LookupFunc reports the value of a key and whether it is set
type LookupFunc func(key string) (string, bool)

// Load overlays the env files (default .env) and then the process environment onto base
// Process variables win over file values
func Load(base Settings, logger logging.Logger, files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	fileValues := make(map[string]string)
	for _, name := range files {
		values, err := godotenv.Read(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return base, fmt.Errorf("read %s: %w", name, err)
		}
		for k, v := range values {
			fileValues[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}
	return Apply(base, lookup, logger), nil
}

// Apply overrides base with every key lookup finds
// Unparseable values are logged and skipped
func Apply(base Settings, lookup LookupFunc, logger logging.Logger) Settings {
	if logger == nil {
		logger = logging.Discard
	}
	s := base

	if raw, ok := lookup(EnvAddr); ok && raw != "" {
		s.Addr = raw
	}
	if raw, ok := lookup(EnvLatencyMS); ok && raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			s.Latency = time.Duration(ms) * time.Millisecond
		} else {
			logger.Printf("invalid %s=%q", EnvLatencyMS, raw)
		}
	}
	if raw, ok := lookup(EnvReadTimeoutMS); ok && raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			s.ReadTimeout = time.Duration(ms) * time.Millisecond
		} else {
			logger.Printf("invalid %s=%q", EnvReadTimeoutMS, raw)
		}
	}
	if raw, ok := lookup(EnvExitOnQuit); ok && raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			s.ExitOnQuit = v
		} else {
			logger.Printf("invalid %s=%q: %v", EnvExitOnQuit, raw, err)
		}
	}
	if raw, ok := lookup(EnvSpectateAddr); ok {
		s.SpectateAddr = raw
	}
	if raw, ok := lookup(EnvEventLog); ok {
		s.EventLog = raw
	}
	if raw, ok := lookup(EnvSeed); ok && raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			s.Seed = v
		} else {
			logger.Printf("invalid %s=%q: %v", EnvSeed, raw, err)
		}
	}
	return s
}
