package plot

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cnsetzer/redback/internal/observe"
	"github.com/cnsetzer/redback/internal/posterior"
)

// multibandCols is the number of panels per row in multiband plots.
const multibandCols = 2

// Save renders p as a PNG at path using the configured size and DPI.
func Save(p *gonumplot.Plot, cfg Config, path string) error {
	cfg = cfg.withDefaults()
	c := vgimg.NewWith(vgimg.UseWH(cfg.Width, cfg.Height), vgimg.UseDPI(cfg.DPI))
	p.Draw(draw.New(c))
	return writePNG(c, path)
}

// SaveData writes the data plot to cfg.DataPath and returns the path.
func SaveData(recs []observe.Record, cfg Config) (string, error) {
	p, err := DataPlot(recs, cfg)
	if err != nil {
		return "", err
	}
	path := cfg.DataPath()
	return path, Save(p, cfg, path)
}

// SaveLightCurve writes the light-curve plot to cfg.LightCurvePath and
// returns the path.
func SaveLightCurve(recs []observe.Record, post *posterior.Posterior, curve CurveFunc, cfg Config, rng *rand.Rand) (string, error) {
	p, err := LightCurvePlot(recs, post, curve, cfg, rng)
	if err != nil {
		return "", err
	}
	path := cfg.LightCurvePath()
	return path, Save(p, cfg, path)
}

// SaveMultibandData draws one data panel per band on a grid and writes it
// to cfg.MultibandDataPath.
func SaveMultibandData(recs []observe.Record, cfg Config) (string, error) {
	cfg = cfg.withDefaults()
	groups := observe.ByBand(recs)

	var panels []*gonumplot.Plot
	for _, band := range observe.Bands(recs) {
		panelCfg := cfg
		panelCfg.Name = cfg.bandLabel(band)
		panelCfg.BandLabels = nil
		p, err := DataPlot(groups[band], panelCfg)
		if err != nil {
			continue
		}
		p.Legend = gonumplot.NewLegend()
		panels = append(panels, p)
	}
	if len(panels) == 0 {
		return "", ErrNoData
	}

	rows := (len(panels) + multibandCols - 1) / multibandCols
	grid := make([][]*gonumplot.Plot, rows)
	for i := range grid {
		grid[i] = make([]*gonumplot.Plot, multibandCols)
	}
	for i, p := range panels {
		grid[i/multibandCols][i%multibandCols] = p
	}

	width := cfg.Width * multibandCols
	height := cfg.Height * vg.Length(rows)
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(cfg.DPI))
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: multibandCols,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := gonumplot.Align(grid, tiles, dc)
	for i, row := range grid {
		for j, p := range row {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}

	path := cfg.MultibandDataPath()
	return path, writePNG(c, path)
}

func writePNG(c *vgimg.Canvas, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating plot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plot file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}
