// Command server hosts one two-player coin match over TCP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lixenwraith/coin-collector/config"
	"github.com/lixenwraith/coin-collector/logging"
	"github.com/lixenwraith/coin-collector/logging/sinks"
	"github.com/lixenwraith/coin-collector/network"
	"github.com/lixenwraith/coin-collector/server"
	"github.com/lixenwraith/coin-collector/spectate"
	"github.com/lixenwraith/coin-collector/status"
)

var (
	addrFlag       = flag.String("addr", "", "listen address (default :55555)")
	latencyFlag    = flag.Duration("latency", 0, "simulated per-send latency (default 200ms)")
	exitOnQuitFlag = flag.Bool("exit-on-quit", true, "stop the server when a player quits")
	spectateFlag   = flag.String("spectate", "", "HTTP address for the /spectate websocket feed")
	eventsFlag     = flag.String("events", "", "append match events as JSON lines to this file")
	seedFlag       = flag.Int64("seed", 0, "coin placement seed (0 = clock)")
	verboseFlag    = flag.Bool("v", false, "log every move event")
	envFileFlag    = flag.String("env", config.DefaultEnvFile, "optional .env file")
)

func main() {
	flag.Parse()
	log.SetPrefix("[server] ")
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger := logging.WrapLogger(log.Default())

	settings, err := config.Load(config.ServerDefaults(), logger, *envFileFlag)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	settings = applyFlags(settings)

	if err := run(settings, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

// applyFlags overrides settings with flags given explicitly on the command line
func applyFlags(s config.Settings) config.Settings {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			s.Addr = *addrFlag
		case "latency":
			s.Latency = *latencyFlag
		case "exit-on-quit":
			s.ExitOnQuit = *exitOnQuitFlag
		case "spectate":
			s.SpectateAddr = *spectateFlag
		case "events":
			s.EventLog = *eventsFlag
		case "seed":
			s.Seed = *seedFlag
		}
	})
	return s
}

func run(settings config.Settings, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := newEventRouter(settings.EventLog)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			logger.Printf("event router close: %v", err)
		}
	}()

	metrics := status.NewRegistry()

	var hub *spectate.Hub
	if settings.SpectateAddr != "" {
		hub = spectate.NewHub(logger)
		httpSrv := startSpectator(settings.SpectateAddr, hub, logger)
		defer func() {
			hub.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx)
		}()
	}

	netCfg := network.ServerConfig(settings.Addr)
	netCfg.SimulatedLatency = settings.Latency
	netCfg.ReadTimeout = settings.ReadTimeout

	cfg := server.Config{
		Network:    netCfg,
		ExitOnQuit: settings.ExitOnQuit,
		Seed:       settings.Seed,
		Logger:     logger,
		Events:     logging.WithFields(router, map[string]any{"addr": settings.Addr}),
		Metrics:    metrics,
	}
	if hub != nil {
		cfg.Spectators = hub
	}

	srv := server.New(cfg)
	if err := srv.Listen(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if err := srv.Run(ctx); err != nil {
		return err
	}

	var summary strings.Builder
	metrics.WriteSummary(&summary)
	for _, line := range strings.Split(strings.TrimSpace(summary.String()), "\n") {
		logger.Printf("metric %s", line)
	}
	if stats := router.Stats(); stats.DroppedTotal > 0 {
		logger.Printf("dropped %d match events", stats.DroppedTotal)
	}
	return nil
}

func newEventRouter(path string) (*logging.Router, error) {
	cfg := logging.DefaultConfig()
	if *verboseFlag {
		cfg.MinimumSeverity = logging.SeverityDebug
	}
	named := []logging.NamedSink{{Name: "console", Sink: sinks.NewConsole(os.Stderr)}}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(f)})
	}
	return logging.NewRouter(nil, cfg, named), nil
}

func startSpectator(addr string, hub *spectate.Hub, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/spectate", hub)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Printf("spectator feed on ws://%s/spectate", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("spectator listener: %v", err)
		}
	}()
	return httpSrv
}
