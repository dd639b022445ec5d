package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"buttonled/config"
	"buttonled/core"
	"buttonled/host/pins"
)

var (
	configPath = flag.String("config", "", "JSON configuration file")
	backend    = flag.String("backend", "", "GPIO backend: sim, periph, gpiocdev (overrides config)")
	policy     = flag.String("policy", "", "Pending policy: coalesce, count (overrides config)")
	buttonPin  = flag.Int("button", -1, "Button GPIO number (overrides config)")
	ledPin     = flag.Int("led", -1, "LED GPIO number (overrides config)")
	verbose    = flag.Bool("verbose", false, "Print every LED transition")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}

	if *backend != "" {
		cfg.Backend = *backend
	}
	if *policy != "" {
		cfg.Policy = *policy
	}
	if *buttonPin >= 0 {
		cfg.ButtonPin = uint32(*buttonPin)
	}
	if *ledPin >= 0 {
		cfg.LEDPin = uint32(*ledPin)
	}
	if *verbose {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config) error {
	board, err := pins.Open(cfg, os.Stdin)
	if err != nil {
		return err
	}
	defer board.Close()

	core.SetDebugWriter(func(s string) { fmt.Println(s) })
	core.SetDebugEnabled(cfg.Debug)
	core.InitAsyncDebug()

	lc, err := cfg.LoopConfig(board)
	if err != nil {
		return err
	}
	loop, err := core.NewEventLoop(lc)
	if err != nil {
		return err
	}
	if err := loop.Init(); err != nil {
		return err
	}

	fmt.Printf("buttonled: backend=%s button=GPIO%d led=GPIO%d policy=%s\n",
		cfg.Backend, cfg.ButtonPin, cfg.LEDPin, cfg.Policy)
	if cfg.Backend == config.BackendSim {
		fmt.Println("Press Enter to press the button, Ctrl-D or Ctrl-C to quit.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The edge watcher plays the interrupt: it only ever calls the ISR.
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- board.WatchButton(ctx, core.GPIOPin(cfg.ButtonPin), cfg.Edge, loop.ISR())
		stop()
	}()

	err = loop.Run(ctx)
	stop()
	if werr := <-watchErr; werr != nil && !errors.Is(werr, context.Canceled) {
		err = werr
	}

	report(loop)
	if serr := loop.Shutdown(); serr != nil && err == nil {
		err = serr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// report prints the trace ring and the signal counters on exit
func report(loop *core.EventLoop) {
	core.DumpTraceRing()

	st := loop.Signal().Stats()
	fmt.Printf("presses=%d toggles=%d coalesced=%d pending=%d led=%v\n",
		st.Raised, loop.Toggles(), st.Coalesced, st.Pending,
		loop.Registers().Level(loop.LEDPin()))
}
