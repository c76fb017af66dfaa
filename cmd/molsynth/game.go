package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"molsynth/internal/config"
	"molsynth/internal/editor"
	"molsynth/internal/excite"
	"molsynth/internal/synth"
	"molsynth/internal/topology"
	"molsynth/internal/wave"
)

const (
	screenW, screenH = 640, 480
)

// Game hosts the synthesizer: ebiten's Update loop feeds gestures to the
// editor while the audio player pulls samples from the stream.
type Game struct {
	cfg *config.Synth
	log *slog.Logger

	editor   *editor.Editor
	renderer *synth.Renderer
	stream   *synth.Stream

	audioCtx    *audio.Context
	audioPlayer *audio.Player

	speedCtl   float64
	dampingCtl float64
	dragging   bool
	lastErr    error
}

// newGame builds the audio pipeline, installs the startup topology and
// starts playback.
func newGame(s *config.Synth, log *slog.Logger) (*Game, error) {
	engine, err := wave.NewEngine(s.Params())
	if err != nil {
		return nil, err
	}
	gen, err := excite.NewGenerator(s.ExcitationPeriod)
	if err != nil {
		return nil, err
	}
	queue := synth.NewQueue(s.QueueSize)
	renderer := synth.NewRenderer(engine, gen, queue)

	g := &Game{
		cfg:        s,
		log:        log,
		editor:     editor.New(queue, s.Params(), log),
		renderer:   renderer,
		stream:     synth.NewStream(renderer, s.BlockSize, s.Gain, s.DCBlock),
		speedCtl:   math.Sqrt(s.WaveSpeed),
		dampingCtl: math.Sqrt(s.Damping),
	}

	if err := g.loadTopology(); err != nil {
		return nil, err
	}
	mode, err := s.ExcitationMode()
	if err != nil {
		return nil, err
	}
	if s.SampleFile != "" {
		samples, err := excite.LoadWAV(s.SampleRate, s.SampleFile)
		if err != nil {
			return nil, err
		}
		if err := g.editor.Apply(editor.SetExcitationSample{Samples: samples}); err != nil {
			return nil, err
		}
		log.Info("sample loaded", "path", s.SampleFile, "samples", len(samples))
	}
	if err := g.editor.Apply(editor.SetExcitationMode{Mode: mode}); err != nil {
		return nil, err
	}

	g.audioCtx = audio.NewContext(s.SampleRate)
	player, err := g.audioCtx.NewPlayer(g.stream)
	if err != nil {
		return nil, fmt.Errorf("creating audio player: %w", err)
	}
	player.SetBufferSize(s.BufferDuration())
	player.Play()
	g.audioPlayer = player
	log.Info("audio started", "sample_rate", s.SampleRate, "block", s.BlockSize, "buffer", s.BufferDuration())
	return g, nil
}

// loadTopology reads the configured molecule, or starts from an empty
// store, and stages it as a full reset. A failed load keeps the topology
// that is playing.
func (g *Game) loadTopology() error {
	var (
		store *topology.Store
		err   error
	)
	if g.cfg.Topology == "" {
		store, err = topology.NewStore(g.cfg.Limits())
	} else {
		var format topology.Format
		format, err = topology.ParseFormat(g.cfg.Format)
		if err == nil {
			store, err = topology.LoadFile(g.cfg.Topology, format, g.cfg.LoadOptions())
		}
	}
	if err != nil {
		return err
	}
	if err := g.editor.Apply(editor.Reset{Store: store}); err != nil {
		return err
	}
	g.log.Info("topology loaded", "path", g.cfg.Topology, "nodes", store.Count())
	return nil
}

// Update turns this frame's input into editor intents.
func (g *Game) Update() error {
	g.handleInput()
	return nil
}

// apply forwards in to the editor. Rejected edits are shown in the status
// line; they never stop the game.
func (g *Game) apply(in editor.Intent) {
	err := g.editor.Apply(in)
	switch {
	case err == nil:
		switch in.(type) {
		case editor.Drag:
		case editor.SetParameter:
			g.lastErr = nil
			g.warnUnstable()
		default:
			g.lastErr = nil
		}
	case errors.Is(err, editor.ErrQueueFull):
		g.log.Warn("audio thread is behind, edit dropped", "intent", fmt.Sprintf("%T", in))
		g.lastErr = err
	default:
		g.lastErr = err
	}
}

func (g *Game) reload() {
	if err := g.loadTopology(); err != nil {
		g.log.Error("reloading topology", "path", g.cfg.Topology, "err", err)
		g.lastErr = err
	}
}

func (g *Game) warnUnstable() {
	p := g.cfg.Params()
	p.WaveSpeed = g.editor.WaveSpeed()
	if c := p.Courant(); c > 1 {
		g.log.Warn("courant number above 1, the simulation will diverge", "courant", c)
	}
}

// Layout reports the logical screen size; node coordinates live in it.
func (g *Game) Layout(_, _ int) (int, int) { return screenW, screenH }

// Close stops playback.
func (g *Game) Close() {
	if g.audioPlayer != nil {
		_ = g.audioPlayer.Close()
	}
}
