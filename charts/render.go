// charts/render.go
// Package: charts
package charts

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mwiater/stratplot/metrics"
)

// DefaultTitle is the figure heading used when none is given.
const DefaultTitle = "Comparación ejecución especulativa vs secuencial"

// Options controls the composite figure.
type Options struct {
	Title string `json:"title"`

	// Raster resolution; 150 DPI is print quality.
	DPI int `json:"dpi"`

	// Each panel gets PanelWidth; the figure is Height tall including the
	// title band.
	PanelWidth vg.Length `json:"panel_width"`
	Height     vg.Length `json:"height"`
}

// DefaultOptions returns the standard 150 DPI layout.
func DefaultOptions() Options {
	return Options{
		Title:      DefaultTitle,
		DPI:        150,
		PanelWidth: 5 * vg.Inch,
		Height:     4.5 * vg.Inch,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DPI <= 0 {
		o.DPI = def.DPI
	}
	if o.PanelWidth <= 0 {
		o.PanelWidth = def.PanelWidth
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	return o
}

// Render draws the panels side by side under the title and encodes the
// figure as PNG to w.
func Render(w io.Writer, ds metrics.Dataset, opts Options) error {
	opts = opts.withDefaults()

	plots, err := Panels(ds)
	if err != nil {
		return err
	}

	img := vgimg.NewWith(
		vgimg.UseWH(opts.PanelWidth*vg.Length(len(plots)), opts.Height),
		vgimg.UseDPI(opts.DPI),
	)
	dc := draw.New(img)

	body := dc
	if opts.Title != "" {
		body = drawTitle(dc, plots[0], opts.Title)
	}

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, body)
	for j, p := range plots {
		p.Draw(canvases[0][j])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("could not encode PNG: %w", err)
	}
	return nil
}

// drawTitle writes the figure heading centered at the top of dc and returns
// the canvas left below it.
func drawTitle(dc draw.Canvas, ref *plot.Plot, title string) draw.Canvas {
	sty := ref.Title.TextStyle
	sty.Font.Size = vg.Points(14)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YTop

	pad := vg.Millimeter * 2
	band := sty.Height(title) + 2*pad

	pt := vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - pad}
	dc.FillText(sty, pt, title)
	return draw.Crop(dc, 0, 0, 0, -band)
}

// createFile opens the destination image; tests swap it to fail on Close.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Save renders the figure to path. A partially written file is removed when
// rendering or the final flush fails.
func Save(path string, ds metrics.Dataset, opts Options) error {
	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("could not create image file: %w", err)
	}

	if err := Render(file, ds, opts); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("could not write image file: %w", err)
	}
	return nil
}
