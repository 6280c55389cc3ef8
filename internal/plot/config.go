// Package plot renders observation tables and posterior light curves.
package plot

import (
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Config controls plot appearance and output location. Zero fields take
// the defaults listed on each field.
type Config struct {
	// Name prefixes every file name. Default "transient".
	Name string
	// OutDir is where data plots go. Default ".".
	OutDir string
	// ModelName is the sub-directory of OutDir for light-curve plots.
	// Empty puts them in OutDir.
	ModelName string
	// Filename replaces the generated file name when set.
	Filename string

	DPI    int       // 300
	Width  vg.Length // 6 inches
	Height vg.Length // 4.5 inches

	Color        color.Color // data colour when a band has no entry in BandColors; black
	BandColors   map[string]color.Color
	BandLabels   map[string]string
	ErrorBarFmt  Glyph     // GlyphCross
	MarkerSize   vg.Length // ms, 1 point
	CapSize      vg.Length // 0
	ErrorBarLine vg.Length // elinewidth, 2 points

	MaxLikelihoodAlpha float64     // 0.65
	MaxLikelihoodColor color.Color // blue
	RandomSampleAlpha  float64     // 0.05
	RandomSampleColor  color.Color // red
	LineWidth          vg.Length   // 2 points
	RandomModels       int         // 100

	FontSizeAxes   vg.Length // 18 points
	FontSizeFigure vg.Length // 30 points

	// Axis limits. Nil derives them from the data: the time axis runs
	// from XLimLowMultiplier times the first phase to XLimHighMultiplier
	// times the last.
	XLimLow, XLimHigh  *float64
	YLimLow, YLimHigh  *float64
	XLimLowMultiplier  float64 // 0.5
	XLimHighMultiplier float64 // 2.0
}

// Glyph selects the marker drawn at each data point.
type Glyph int

const (
	GlyphCross Glyph = iota
	GlyphCircle
	GlyphSquare
)

var (
	black = color.Black
	blue  = color.RGBA{B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

// withDefaults returns c with zero fields filled in.
func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "transient"
	}
	if c.OutDir == "" {
		c.OutDir = "."
	}
	if c.DPI == 0 {
		c.DPI = 300
	}
	if c.Width == 0 {
		c.Width = 6 * vg.Inch
	}
	if c.Height == 0 {
		c.Height = 4.5 * vg.Inch
	}
	if c.Color == nil {
		c.Color = black
	}
	if c.MarkerSize == 0 {
		c.MarkerSize = vg.Points(1)
	}
	if c.ErrorBarLine == 0 {
		c.ErrorBarLine = vg.Points(2)
	}
	if c.MaxLikelihoodAlpha == 0 {
		c.MaxLikelihoodAlpha = 0.65
	}
	if c.MaxLikelihoodColor == nil {
		c.MaxLikelihoodColor = blue
	}
	if c.RandomSampleAlpha == 0 {
		c.RandomSampleAlpha = 0.05
	}
	if c.RandomSampleColor == nil {
		c.RandomSampleColor = red
	}
	if c.LineWidth == 0 {
		c.LineWidth = vg.Points(2)
	}
	if c.RandomModels == 0 {
		c.RandomModels = 100
	}
	if c.FontSizeAxes == 0 {
		c.FontSizeAxes = vg.Points(18)
	}
	if c.FontSizeFigure == 0 {
		c.FontSizeFigure = vg.Points(30)
	}
	if c.XLimLowMultiplier == 0 {
		c.XLimLowMultiplier = 0.5
	}
	if c.XLimHighMultiplier == 0 {
		c.XLimHighMultiplier = 2.0
	}
	return c
}

func (c Config) filename(suffix string) string {
	if c.Filename != "" {
		return c.Filename
	}
	return c.withDefaults().Name + "_" + suffix + ".png"
}

// DataFilename is "<name>_data.png".
func (c Config) DataFilename() string { return c.filename("data") }

// LightCurveFilename is "<name>_lightcurve.png".
func (c Config) LightCurveFilename() string { return c.filename("lightcurve") }

// MultibandDataFilename is "<name>_multiband_data.png".
func (c Config) MultibandDataFilename() string { return c.filename("multiband_data") }

// DataPath joins OutDir and DataFilename.
func (c Config) DataPath() string {
	return filepath.Join(c.withDefaults().OutDir, c.DataFilename())
}

// MultibandDataPath joins OutDir and MultibandDataFilename.
func (c Config) MultibandDataPath() string {
	return filepath.Join(c.withDefaults().OutDir, c.MultibandDataFilename())
}

// LightCurvePath places the light-curve plot under OutDir/ModelName.
func (c Config) LightCurvePath() string {
	return filepath.Join(c.withDefaults().OutDir, c.ModelName, c.LightCurveFilename())
}

// bandColor picks the colour for the i-th of n bands. A lone band uses
// Color; several bands cycle through the plotutil palette.
func (c Config) bandColor(band string, i, n int) color.Color {
	if col, ok := c.BandColors[band]; ok {
		return col
	}
	if n == 1 {
		return c.Color
	}
	return plotutil.Color(i)
}

func (c Config) bandLabel(band string) string {
	if l, ok := c.BandLabels[band]; ok {
		return l
	}
	return band
}

func withAlpha(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(alpha*255 + 0.5)
	return n
}
