// charts/panels.go
// Package: charts
package charts

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mwiater/stratplot/metrics"
)

// Fixed colors by position in the alphabetical strategy order.
var (
	barPalette = []color.Color{
		color.RGBA{70, 130, 180, 255}, // steel blue
		color.RGBA{255, 140, 0, 255},  // dark orange
	}
	linePalette = []color.Color{
		color.RGBA{31, 119, 180, 255},
		color.RGBA{255, 127, 14, 255},
	}
	speedupColor   = color.RGBA{44, 160, 44, 255}
	referenceColor = color.Gray{110}
)

// maxExplicitTicks is the largest number of points that get one labelled tick
// each; longer axes fall back to the default ticker.
const maxExplicitTicks = 15

// Panels builds the averages and per-run panels and, when both strategies
// share at least one run identifier, the speedup panel.
func Panels(ds metrics.Dataset) ([]*plot.Plot, error) {
	if ds.Empty() {
		return nil, metrics.ErrNoData
	}

	avg, err := averagesPanel(ds)
	if err != nil {
		return nil, fmt.Errorf("averages panel: %w", err)
	}
	evo, err := evolutionPanel(ds)
	if err != nil {
		return nil, fmt.Errorf("per-run panel: %w", err)
	}
	plots := []*plot.Plot{avg, evo}

	if points := metrics.Speedups(ds); len(points) > 0 {
		sp, err := speedupPanel(points)
		if err != nil {
			return nil, fmt.Errorf("speedup panel: %w", err)
		}
		plots = append(plots, sp)
	}
	return plots, nil
}

// averagesPanel draws one bar per strategy with the mean duration.
func averagesPanel(ds metrics.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Promedio por estrategia"
	p.Y.Label.Text = "Tiempo promedio (ms)"

	var labels []string
	means := averageValues(ds)
	for i, s := range ds.Strategies() {
		bc, err := plotter.NewBarChart(plotter.Values{means[i]}, vg.Points(40))
		if err != nil {
			return nil, err
		}
		bc.XMin = float64(i)
		bc.Color = barPalette[i%len(barPalette)]
		bc.LineStyle.Width = 0
		p.Add(bc)
		labels = append(labels, s.Label())
	}
	p.NominalX(labels...)
	p.X.Min = -0.5
	p.X.Max = float64(len(labels)) - 0.5
	p.Y.Min = math.Min(p.Y.Min, 0)
	widenFlat(&p.Y)
	p.Y.Tick.Marker = millisTicker()
	return p, nil
}

// evolutionPanel draws each strategy's durations against the 1-based position
// of the run in its series.
func evolutionPanel(ds metrics.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Evolución por corrida"
	p.X.Label.Text = "Corrida"
	p.Y.Label.Text = "Tiempo total (ms)"
	p.Legend.Top = true

	longest := 0
	series := positionPoints(ds)
	for i, s := range ds.Strategies() {
		pts := series[i]
		if len(pts) > longest {
			longest = len(pts)
		}

		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, err
		}
		styleSeries(line, scatter, linePalette[i%len(linePalette)])
		p.Add(line, scatter)
		p.Legend.Add(s.Label(), line, scatter)
	}

	positions := make([]float64, longest)
	for i := range positions {
		positions[i] = float64(i + 1)
	}
	p.X.Tick.Marker = integerTicks(positions)
	p.X.Min = 0.5
	p.X.Max = float64(longest) + 0.5
	widenFlat(&p.Y)
	p.Y.Tick.Marker = millisTicker()
	return p, nil
}

// averageValues returns the mean duration of each strategy in
// Dataset.Strategies order.
func averageValues(ds metrics.Dataset) plotter.Values {
	strategies := ds.Strategies()
	out := make(plotter.Values, len(strategies))
	for i, s := range strategies {
		out[i] = metrics.Mean(ds.Values(s))
	}
	return out
}

// positionPoints returns, per strategy in Dataset.Strategies order, the
// durations keyed by their 1-based position in the series. Run ids are not
// used here; gaps in the ids do not show up on the x axis.
func positionPoints(ds metrics.Dataset) []plotter.XYs {
	strategies := ds.Strategies()
	out := make([]plotter.XYs, len(strategies))
	for i, s := range strategies {
		values := ds.Values(s)
		pts := make(plotter.XYs, len(values))
		for j, v := range values {
			pts[j].X = float64(j + 1)
			pts[j].Y = v
		}
		out[i] = pts
	}
	return out
}

// speedupPanel plots sequential/speculative per matched run id with a dashed
// reference at 1.0. NaN points split the line, leaving a gap.
func speedupPanel(points []metrics.SpeedupPoint) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Speedup (secuencial / especulativo)"
	p.X.Label.Text = "Corrida"
	p.Y.Label.Text = "Speedup"
	p.Legend.Top = true

	runs := make([]float64, len(points))
	for i, pt := range points {
		runs[i] = float64(pt.Run)
	}
	xMin, xMax := runs[0]-0.5, runs[len(runs)-1]+0.5

	ref, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: 1}, {X: xMax, Y: 1}})
	if err != nil {
		return nil, err
	}
	ref.Color = referenceColor
	ref.Width = vg.Points(1)
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ref)

	for i, segment := range finiteSegments(points) {
		line, scatter, err := plotter.NewLinePoints(segment)
		if err != nil {
			return nil, err
		}
		styleSeries(line, scatter, speedupColor)
		p.Add(line, scatter)
		if i == 0 {
			p.Legend.Add("Speedup", line, scatter)
		}
	}
	p.Legend.Add("Sin mejora (1.0)", ref)

	p.X.Tick.Marker = integerTicks(runs)
	p.X.Min = xMin
	p.X.Max = xMax
	p.Y.Min = math.Min(p.Y.Min, 0)
	return p, nil
}

// finiteSegments splits points into runs of consecutive finite values.
func finiteSegments(points []metrics.SpeedupPoint) []plotter.XYs {
	var (
		out     []plotter.XYs
		current plotter.XYs
	)
	for _, pt := range points {
		if math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: float64(pt.Run), Y: pt.Value})
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

// widenFlat gives a zero-height axis range a unit span so tick generation
// has something to work with.
func widenFlat(a *plot.Axis) {
	if a.Max > a.Min {
		return
	}
	if a.Min == 0 {
		a.Max = 1
		return
	}
	span := math.Abs(a.Min) * 0.1
	a.Min -= span
	a.Max += span
}

func styleSeries(line *plotter.Line, scatter *plotter.Scatter, c color.Color) {
	line.Color = c
	line.Width = vg.Points(1.5)
	scatter.Color = c
	scatter.Shape = draw.CircleGlyph{}
	scatter.Radius = vg.Points(2.5)
}

// integerTicks labels every x position when there are few of them.
func integerTicks(xs []float64) plot.Ticker {
	if len(xs) > maxExplicitTicks {
		return plot.DefaultTicks{}
	}
	ticks := make([]plot.Tick, len(xs))
	for i, x := range xs {
		ticks[i] = plot.Tick{Value: x, Label: strconv.FormatFloat(x, 'f', -1, 64)}
	}
	return plot.ConstantTicks(ticks)
}

// millisTicker keeps the default tick placement but drops trailing decimals
// on large durations.
func millisTicker() plot.Ticker {
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		if max-min < 10 {
			return ticks
		}
		for i := range ticks {
			if ticks[i].Label != "" {
				ticks[i].Label = fmt.Sprintf("%.0f", ticks[i].Value)
			}
		}
		return ticks
	})
}
