package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cuecast/audio"
	"github.com/lixenwraith/cuecast/config"
	"github.com/lixenwraith/cuecast/input"
	"github.com/lixenwraith/cuecast/status"
	"github.com/lixenwraith/cuecast/ui"
)

var (
	configFlag = flag.String("config", "", "config file path (default: ~/.config/cuecast/config.json)")
	deviceFlag = flag.String("device", "", "output device id, overrides the configured one")
	debugFlag  = flag.Bool("debug", false, "enable logging to logs/cuecast.log")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Panic recovery: restore the terminal before the stack trace prints,
	// or the trace lands on a raw-mode screen.
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nCUECAST CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	store, err := config.Load(configPath())
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	cfg := store.Get()

	disp, err := input.NewDispatcher(cfg.Hotkeys)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Hotkey error: %v\n", err)
		os.Exit(1)
	}

	reg := status.NewRegistry()
	engine := audio.NewEngine(audio.LoadConfig(), reg)

	deviceID := cfg.OutputDeviceID
	if *deviceFlag != "" {
		deviceID = *deviceFlag
	}
	if err := engine.Init(deviceID); err != nil {
		// No output backend at all; run the board silently rather than die.
		log.Printf("audio init failed, running without sound: %v", err)
		reg.Strings.Get(status.KeyMessage).Store(fmt.Sprintf("no audio output: %v", err))
	} else {
		defer engine.Close()
		// Warm the cache for everything already assigned.
		for _, btn := range cfg.Buttons {
			if btn.Path != "" {
				engine.Preload(btn.Path)
			}
		}
	}

	ui.New(screen, engine, store, disp, reg).Run()
}

// configPath resolves the config file location: flag, then XDG-style default.
func configPath() string {
	if *configFlag != "" {
		return *configFlag
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cuecast.json"
	}
	return filepath.Join(dir, "cuecast", "config.json")
}
