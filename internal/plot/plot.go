package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cnsetzer/redback/internal/model"
	"github.com/cnsetzer/redback/internal/observe"
	"github.com/cnsetzer/redback/internal/posterior"
)

// ErrNoData is returned when no record has a finite magnitude.
var ErrNoData = errors.New("no plottable observations")

// curvePoints is the number of phases each model curve is evaluated at.
const curvePoints = 200

// CurveFunc returns model magnitudes at each phase for every band.
type CurveFunc func(p model.Params, bands []string, phases []float64) (map[string][]float64, error)

// magnitudePoints is a band's data in plotter form.
type magnitudePoints struct {
	plotter.XYs
	plotter.YErrors
}

func bandPoints(recs []observe.Record) magnitudePoints {
	var pts magnitudePoints
	for _, r := range recs {
		if math.IsNaN(r.Magnitude) || math.IsInf(r.MagnitudeError, 0) {
			continue
		}
		pts.XYs = append(pts.XYs, plotter.XY{X: r.Phase, Y: r.Magnitude})
		pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{r.MagnitudeError, r.MagnitudeError})
	}
	return pts
}

// DataPlot draws magnitude against time for every band, with error bars
// and the magnitude axis inverted.
func DataPlot(recs []observe.Record, cfg Config) (*gonumplot.Plot, error) {
	cfg = cfg.withDefaults()
	p := newPlot(cfg)

	bands := observe.Bands(recs)
	groups := observe.ByBand(recs)
	var xs []float64
	for i, band := range bands {
		pts := bandPoints(groups[band])
		if len(pts.XYs) == 0 {
			continue
		}
		if err := addBand(p, cfg, pts, cfg.bandColor(band, i, len(bands)), cfg.bandLabel(band)); err != nil {
			return nil, fmt.Errorf("plotting band %s: %w", band, err)
		}
		for _, xy := range pts.XYs {
			xs = append(xs, xy.X)
		}
	}
	if len(xs) == 0 {
		return nil, ErrNoData
	}

	lo, hi := cfg.xLimits(xs)
	p.X.Min, p.X.Max = lo, hi
	cfg.applyYLimits(p)
	return p, nil
}

// LightCurvePlot draws the data with the maximum-likelihood model and
// RandomModels posterior draws for each band.
func LightCurvePlot(recs []observe.Record, post *posterior.Posterior, curve CurveFunc, cfg Config, rng *rand.Rand) (*gonumplot.Plot, error) {
	cfg = cfg.withDefaults()
	p, err := DataPlot(recs, cfg)
	if err != nil {
		return nil, err
	}

	phases := curvePhases(p.X.Min, p.X.Max)
	best := post.MaxLikelihood()
	draws := post.Random(cfg.RandomModels, rng)

	bands := observe.Bands(recs)
	for _, s := range draws {
		if err := addCurves(p, curve, s.Params, bands, phases, withAlpha(cfg.RandomSampleColor, cfg.RandomSampleAlpha), cfg.LineWidth); err != nil {
			return nil, err
		}
	}
	// Drawn last so it sits above the random draws.
	if err := addCurves(p, curve, best.Params, bands, phases, withAlpha(cfg.MaxLikelihoodColor, cfg.MaxLikelihoodAlpha), cfg.LineWidth); err != nil {
		return nil, err
	}
	return p, nil
}

func newPlot(cfg Config) *gonumplot.Plot {
	p := gonumplot.New()
	p.Title.Text = cfg.Name
	p.Title.TextStyle.Font.Size = cfg.FontSizeFigure
	p.X.Label.Text = "Time [days]"
	p.X.Label.TextStyle.Font.Size = cfg.FontSizeAxes
	p.Y.Label.Text = "Magnitude"
	p.Y.Label.TextStyle.Font.Size = cfg.FontSizeAxes
	p.Y.Scale = gonumplot.InvertedScale{Normalizer: gonumplot.LinearScale{}}
	p.Legend.Top = true
	return p
}

func addBand(p *gonumplot.Plot, cfg Config, pts magnitudePoints, col color.Color, label string) error {
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = col
	scatter.GlyphStyle.Radius = cfg.MarkerSize * 2
	scatter.GlyphStyle.Shape = cfg.ErrorBarFmt.shape()

	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	bars.LineStyle.Color = col
	bars.LineStyle.Width = cfg.ErrorBarLine
	bars.CapWidth = cfg.CapSize

	p.Add(bars, scatter)
	p.Legend.Add(label, scatter)
	return nil
}

func addCurves(p *gonumplot.Plot, curve CurveFunc, params model.Params, bands []string, phases []float64, col color.Color, width vg.Length) error {
	mags, err := curve(params, bands, phases)
	if err != nil {
		return fmt.Errorf("evaluating model curve: %w", err)
	}
	for _, band := range bands {
		xys := make(plotter.XYs, 0, len(phases))
		for i, m := range mags[band] {
			if math.IsNaN(m) || math.IsInf(m, 0) {
				continue
			}
			xys = append(xys, plotter.XY{X: phases[i], Y: m})
		}
		if len(xys) < 2 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.LineStyle.Color = col
		line.LineStyle.Width = width
		p.Add(line)
	}
	return nil
}

// xLimits follows the multiplier rule when all phases are positive and
// pads the data range by a tenth otherwise.
func (c Config) xLimits(xs []float64) (lo, hi float64) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	if minX > 0 {
		lo, hi = c.XLimLowMultiplier*minX, c.XLimHighMultiplier*maxX
	} else {
		pad := 0.1 * math.Max(maxX-minX, 1)
		lo, hi = minX-pad, maxX+pad
	}
	if c.XLimLow != nil {
		lo = *c.XLimLow
	}
	if c.XLimHigh != nil {
		hi = *c.XLimHigh
	}
	return lo, hi
}

func (c Config) applyYLimits(p *gonumplot.Plot) {
	if c.YLimLow != nil {
		p.Y.Min = *c.YLimLow
	}
	if c.YLimHigh != nil {
		p.Y.Max = *c.YLimHigh
	}
}

func curvePhases(lo, hi float64) []float64 {
	return floats.Span(make([]float64, curvePoints), lo, hi)
}

func (g Glyph) shape() draw.GlyphDrawer {
	switch g {
	case GlyphCircle:
		return draw.CircleGlyph{}
	case GlyphSquare:
		return draw.SquareGlyph{}
	default:
		return draw.CrossGlyph{}
	}
}
