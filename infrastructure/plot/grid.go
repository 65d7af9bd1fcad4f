// Package plot renders simulated elution curves into tiled figure grids
// using gonum/plot. It draws nothing itself beyond composing plotters; the
// plotting primitives belong to gonum.
package plot

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/chromaflow/chromaflow/internal/domain"
)

// Panel describes one subplot of a figure grid: a single component's
// concentration history with a title, typically the Peclet number the
// curve was simulated at.
type Panel struct {
	// Title is drawn above the subplot.
	Title string

	// Series is the solution series to draw.
	Series *domain.TimeSeries

	// Component selects which species of the series to draw.
	Component int
}

// GridConfig controls the figure grid layout.
type GridConfig struct {
	// Rows and Cols fix the subplot grid. Rows*Cols must cover the
	// number of panels.
	Rows, Cols int

	// Width and Height set the figure size. Zero values default to
	// 10x12 inches.
	Width, Height vg.Length

	// XLabel and YLabel annotate every subplot's axes. Empty values
	// default to time and concentration labels.
	XLabel, YLabel string
}

// RenderGrid draws the panels into a tiled grid and writes the figure as a
// PNG file at path.
func RenderGrid(panels []Panel, cfg GridConfig, path string) error {
	if len(panels) == 0 {
		return fmt.Errorf("render grid: no panels")
	}
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return fmt.Errorf("render grid: invalid grid %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.Rows*cfg.Cols < len(panels) {
		return fmt.Errorf("render grid: %d panels do not fit a %dx%d grid",
			len(panels), cfg.Rows, cfg.Cols)
	}
	if cfg.Width == 0 {
		cfg.Width = 10 * vg.Inch
	}
	if cfg.Height == 0 {
		cfg.Height = 12 * vg.Inch
	}
	if cfg.XLabel == "" {
		cfg.XLabel = "time / s"
	}
	if cfg.YLabel == "" {
		cfg.YLabel = "concentration / mM"
	}

	canvas := vgimg.New(cfg.Width, cfg.Height)
	dc := draw.New(canvas)
	tiles := draw.Tiles{
		Cols:      cfg.Cols,
		Rows:      cfg.Rows,
		PadX:      2 * vg.Millimeter,
		PadY:      2 * vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}

	for i, panel := range panels {
		p, err := subplot(panel, cfg)
		if err != nil {
			return fmt.Errorf("render grid: panel %d: %w", i, err)
		}
		p.Draw(tiles.At(dc, i%cfg.Cols, i/cfg.Cols))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render grid: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("render grid: write %s: %w", path, err)
	}
	return nil
}

func subplot(panel Panel, cfg GridConfig) (*plot.Plot, error) {
	if panel.Series == nil {
		return nil, fmt.Errorf("nil series")
	}
	conc, err := panel.Series.Component(panel.Component)
	if err != nil {
		return nil, err
	}

	xys := make(plotter.XYs, len(conc))
	for i := range conc {
		xys[i].X = panel.Series.Time[i]
		xys[i].Y = conc[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1.5)

	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = cfg.YLabel
	p.Add(plotter.NewGrid(), line)
	return p, nil
}
