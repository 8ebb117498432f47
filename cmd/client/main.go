// Command client joins a coin match and renders it in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/coin-collector/audio"
	"github.com/lixenwraith/coin-collector/client"
	"github.com/lixenwraith/coin-collector/config"
	"github.com/lixenwraith/coin-collector/input"
	"github.com/lixenwraith/coin-collector/logging"
	"github.com/lixenwraith/coin-collector/network"
	"github.com/lixenwraith/coin-collector/parameter"
	"github.com/lixenwraith/coin-collector/render"
)

var (
	addrFlag    = flag.String("addr", "", "server address (default 127.0.0.1:55555)")
	debugFlag   = flag.Bool("debug", false, "write logs to logs/client.log")
	muteFlag    = flag.Bool("mute", false, "start with the score chime muted")
	envFileFlag = flag.String("env", config.DefaultEnvFile, "optional .env file")
)

func main() {
	flag.Parse()
	if f := setupLogging(*debugFlag); f != nil {
		defer f.Close()
	}
	logger := logging.WrapLogger(log.Default())

	settings, err := config.Load(config.ClientDefaults(), logger, *envFileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		settings.Addr = *addrFlag
	}

	final, err := run(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	switch {
	case final.Ready:
		fmt.Printf("final score: you %d, other %d\n", final.SelfScore, final.OtherScore)
	case final.Notice != "":
		fmt.Println(final.Notice)
	}
}

func run(settings config.Settings, logger logging.Logger) (last client.Frame, err error) {
	netCfg := network.ClientConfig(settings.Addr)
	ctx, cancel := context.WithTimeout(context.Background(), netCfg.ConnectTimeout)
	defer cancel()

	scene := client.NewScene(parameter.InterpolationWindow)
	clock := client.SystemClock{}
	session, err := client.Connect(ctx, netCfg, scene, clock, logger)
	if err != nil {
		return last, err
	}
	defer session.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return last, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return last, fmt.Errorf("terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Restore the terminal before reporting a crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mCLIENT CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	chime := audio.NewChime(audio.DefaultVolume)
	if err := chime.Init(); err != nil {
		// Non-fatal, the game runs without sound
		logger.Printf("audio initialization failed: %v", err)
	} else {
		defer chime.Close()
	}
	chime.SetMuted(*muteFlag)

	go func() {
		if err := session.Run(); err != nil {
			logger.Printf("receive loop: %v", err)
		}
	}()

	board := render.NewBoard(screen)
	eventChan := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-scene.Done():
				return
			}
		}
	}()

	frameTicker := time.NewTicker(parameter.FrameInterval)
	defer frameTicker.Stop()

	lastScore := 0
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				intent := input.FromEvent(ev)
				switch intent.Type {
				case input.IntentMove:
					if err := session.Send(intent.Command); err != nil {
						logger.Printf("send %q: %v", intent.Command, err)
					}
				case input.IntentQuit:
					session.Send(intent.Command)
					return scene.Frame(clock.Now()), nil
				case input.IntentToggleMute:
					chime.SetMuted(!chime.Muted())
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-scene.Done():
			return scene.Frame(clock.Now()), nil

		case <-frameTicker.C:
			f := scene.Frame(clock.Now())
			if f.SelfScore > lastScore {
				if err := chime.Play(); err != nil {
					logger.Printf("chime: %v", err)
				}
			}
			lastScore = f.SelfScore
			board.Draw(f)
		}
	}
}
