// Command molsynth plays a molecule as a resonator: the wave equation runs
// over the bond graph and the output tap is streamed to the sound card.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"molsynth/internal/config"
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "molsynth:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	applyFlags(&cfg.Synth)
	if err := cfg.Validate(); err != nil {
		return err
	}
	s := &cfg.Synth
	log := newLogger(s.LogLevel, s.LogFormat, os.Stderr)

	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	if c := s.Courant(); c > 1 {
		log.Warn("courant number above 1, the simulation will diverge", "courant", c)
	}

	g, err := newGame(s, log)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("molsynth")
	return ebiten.RunGame(g)
}
