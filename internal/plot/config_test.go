package plot

import (
	"image/color"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"
)

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"dpi", c.DPI, 300},
		{"capsize", c.CapSize, vg.Length(0)},
		{"ms", c.MarkerSize, vg.Points(1)},
		{"elinewidth", c.ErrorBarLine, vg.Points(2)},
		{"max likelihood alpha", c.MaxLikelihoodAlpha, 0.65},
		{"random sample alpha", c.RandomSampleAlpha, 0.05},
		{"random models", c.RandomModels, 100},
		{"linewidth", c.LineWidth, vg.Points(2)},
		{"fontsize axes", c.FontSizeAxes, vg.Points(18)},
		{"fontsize figure", c.FontSizeFigure, vg.Points(30)},
		{"xlim low multiplier", c.XLimLowMultiplier, 0.5},
		{"xlim high multiplier", c.XLimHighMultiplier, 2.0},
		{"errorbar fmt", c.ErrorBarFmt, GlyphCross},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if c.MaxLikelihoodColor != color.Color(blue) || c.RandomSampleColor != color.Color(red) {
		t.Errorf("model colours = %v/%v, want blue/red", c.MaxLikelihoodColor, c.RandomSampleColor)
	}

	// Explicit values survive.
	c = Config{DPI: 72, RandomModels: 5}.withDefaults()
	if c.DPI != 72 || c.RandomModels != 5 {
		t.Errorf("explicit values overwritten: dpi %d, random models %d", c.DPI, c.RandomModels)
	}
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		got  func(Config) string
		want string
	}{
		{"data", Config{Name: "at2017gfo"}, Config.DataPath, filepath.Join(".", "at2017gfo_data.png")},
		{"multiband", Config{Name: "at2017gfo", OutDir: "out"}, Config.MultibandDataPath, filepath.Join("out", "at2017gfo_multiband_data.png")},
		{"light curve in model dir", Config{Name: "grb", OutDir: "out", ModelName: "afterglow_powerlaw"}, Config.LightCurvePath,
			filepath.Join("out", "afterglow_powerlaw", "grb_lightcurve.png")},
		{"filename override", Config{Name: "x", Filename: "custom.png", OutDir: "o"}, Config.DataPath, filepath.Join("o", "custom.png")},
		{"default name", Config{}, Config.DataFilename, "transient_data.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got(tt.cfg); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBandColor(t *testing.T) {
	c := Config{BandColors: map[string]color.Color{"g": red}}.withDefaults()
	if c.bandColor("g", 0, 3) != color.Color(red) {
		t.Error("explicit band colour ignored")
	}
	if c.bandColor("r", 0, 1) != c.Color {
		t.Error("a lone band should use Color")
	}
	if withAlpha(blue, 0.5).(color.NRGBA).A != 128 {
		t.Error("withAlpha did not scale alpha")
	}
}
