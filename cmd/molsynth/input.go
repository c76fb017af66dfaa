package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"molsynth/internal/editor"
	"molsynth/internal/excite"
)

// Control-position steps per arrow key press. The editor squares the
// position, so steps are finer near zero.
const (
	speedCtlStep   = 0.005
	dampingCtlStep = 0.001
)

var modeKeys = []struct {
	key  ebiten.Key
	mode editor.Mode
}{
	{ebiten.KeyE, editor.ModeExcite},
	{ebiten.KeyC, editor.ModeCreate},
	{ebiten.KeyN, editor.ModeConnect},
	{ebiten.KeyI, editor.ModeInputTap},
	{ebiten.KeyO, editor.ModeOutputTap},
}

var excitationKeys = []struct {
	key  ebiten.Key
	mode excite.Mode
}{
	{ebiten.Key1, excite.Impulse},
	{ebiten.Key2, excite.Sine},
	{ebiten.Key3, excite.Sawtooth},
	{ebiten.Key4, excite.Sample},
}

// handleInput processes keyboard shortcuts and the left mouse button.
func (g *Game) handleInput() {
	for _, k := range modeKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.apply(editor.SetInteractiveMode{Mode: k.mode})
		}
	}
	for _, k := range excitationKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.apply(editor.SetExcitationMode{Mode: k.mode})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}
	g.handleSliders()
	g.handlePointer()
}

// handleSliders maps Up/Down to wave speed and Left/Right to damping.
func (g *Game) handleSliders() {
	if d := keyDelta(ebiten.KeyArrowUp, ebiten.KeyArrowDown); d != 0 {
		g.speedCtl = stepControl(g.speedCtl, d*speedCtlStep)
		g.apply(editor.SetParameter{Param: editor.WaveSpeed, Value: g.speedCtl})
	}
	if d := keyDelta(ebiten.KeyArrowRight, ebiten.KeyArrowLeft); d != 0 {
		g.dampingCtl = stepControl(g.dampingCtl, d*dampingCtlStep)
		g.apply(editor.SetParameter{Param: editor.Damping, Value: g.dampingCtl})
	}
}

func (g *Game) handlePointer() {
	x, y := ebiten.CursorPosition()
	fx, fy := float32(x), float32(y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.dragging = true
		g.apply(editor.Press{X: fx, Y: fy})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.dragging = false
		g.apply(editor.Release{})
	case g.dragging:
		g.apply(editor.Drag{X: fx, Y: fy})
	}
}

// keyDelta returns +1, -1 or 0 for a pair of keys pressed this frame.
func keyDelta(up, down ebiten.Key) float64 {
	var d float64
	if inpututil.IsKeyJustPressed(up) {
		d++
	}
	if inpututil.IsKeyJustPressed(down) {
		d--
	}
	return d
}

// stepControl moves a control position by delta, not below zero.
func stepControl(pos, delta float64) float64 {
	return math.Max(0, pos+delta)
}
