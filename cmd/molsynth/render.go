package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw prints the status overlay. The graph itself is not painted.
func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	var b strings.Builder
	ed := g.editor
	fmt.Fprintf(&b, "TPS: %.1f\n", ebiten.ActualTPS())
	fmt.Fprintf(&b, "mode: %s  [E]xcite [C]reate co[N]nect [I]nput [O]utput\n", ed.Mode())
	fmt.Fprintf(&b, "excitation: %s  [1-4]\n", ed.Excitation())
	if s := ed.Topology(); s != nil {
		fmt.Fprintf(&b, "nodes: %d/%d  input: %d  output: %d\n",
			s.Count(), s.Limits().MaxNodes, s.InputTap(), s.OutputTap())
	}
	p := g.cfg.Params()
	p.WaveSpeed = ed.WaveSpeed()
	fmt.Fprintf(&b, "wave speed: %.6g  [Up/Down]\n", p.WaveSpeed)
	fmt.Fprintf(&b, "damping: %.6g  [Left/Right]\n", ed.Damping())
	fmt.Fprintf(&b, "courant: %.4f\n", p.Courant())
	fmt.Fprintf(&b, "peak: %.4f  rejected: %d\n", g.renderer.Peak(), g.renderer.Rejected())
	if g.cfg.Topology != "" {
		fmt.Fprintf(&b, "[R]eload %s\n", g.cfg.Topology)
	}
	if g.lastErr != nil {
		fmt.Fprintf(&b, "error: %v\n", g.lastErr)
	}
	return b.String()
}
