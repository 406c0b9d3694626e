package charts

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"gonum.org/v1/plot/plotter"

	"github.com/mwiater/stratplot/metrics"
)

func dataset(spec, seq map[int]float64) metrics.Dataset {
	ds := metrics.Dataset{}
	add := func(s metrics.Strategy, byRun map[int]float64) {
		if len(byRun) == 0 {
			return
		}
		var runs []int
		for r := range byRun {
			runs = append(runs, r)
		}
		slices.Sort(runs)
		values := make([]float64, len(runs))
		for i, r := range runs {
			values[i] = byRun[r]
		}
		ds[s] = metrics.Series{Strategy: s, Runs: runs, Values: values}
	}
	add(metrics.Speculative, spec)
	add(metrics.Sequential, seq)
	return ds
}

func TestPanels_BothStrategiesHaveSpeedup(t *testing.T) {
	plots, err := Panels(dataset(map[int]float64{1: 100}, map[int]float64{1: 150}))
	if err != nil {
		t.Fatalf("Panels: %v", err)
	}
	if len(plots) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(plots))
	}
	if plots[2].Y.Max < 1.5 || plots[2].Y.Min > 1 {
		t.Fatalf("speedup axis [%v, %v] does not cover 1.0 and 1.5", plots[2].Y.Min, plots[2].Y.Max)
	}
}

func TestPanels_OnlySequentialHasTwoPanels(t *testing.T) {
	plots, err := Panels(dataset(nil, map[int]float64{1: 150, 2: 160}))
	if err != nil {
		t.Fatalf("Panels: %v", err)
	}
	if len(plots) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(plots))
	}
	// A single bar sits at x=0.
	if plots[0].X.Max >= 1 {
		t.Fatalf("averages panel x range suggests more than one bar: %v", plots[0].X.Max)
	}
}

func TestPanels_NoCommonRunsHidesSpeedup(t *testing.T) {
	plots, err := Panels(dataset(map[int]float64{1: 100}, map[int]float64{2: 150}))
	if err != nil {
		t.Fatalf("Panels: %v", err)
	}
	if len(plots) != 2 {
		t.Fatalf("expected speedup panel to be hidden, got %d panels", len(plots))
	}
}

func TestPanels_EmptyDataset(t *testing.T) {
	if _, err := Panels(metrics.Dataset{}); !errors.Is(err, metrics.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFiniteSegments_SplitsOnNaN(t *testing.T) {
	points := []metrics.SpeedupPoint{
		{Run: 1, Value: 1.2},
		{Run: 2, Value: 1.4},
		{Run: 3, Value: math.NaN()},
		{Run: 4, Value: 0.9},
	}
	got := finiteSegments(points)
	want := []plotter.XYs{
		{{X: 1, Y: 1.2}, {X: 2, Y: 1.4}},
		{{X: 4, Y: 0.9}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("segment %d: got %v want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("segment %d point %d: got %v want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestRender_ZeroSpeculativeDoesNotFail(t *testing.T) {
	var buf bytes.Buffer
	ds := dataset(map[int]float64{1: 0}, map[int]float64{1: 150})
	if err := Render(&buf, ds, DefaultOptions()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.DecodeConfig(&buf); err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
}

func TestSave_WritesPNGAt150DPI(t *testing.T) {
	out := filepath.Join(t.TempDir(), "comparacion_estrategias.png")
	ds := dataset(
		map[int]float64{1: 100, 2: 110, 3: 0},
		map[int]float64{1: 150, 2: 160, 3: 170},
	)
	if err := Save(out, ds, DefaultOptions()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// three 5in panels, 4.5in tall
	if cfg.Width != 2250 || cfg.Height != 675 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSave_TwoPanelWidth(t *testing.T) {
	out := filepath.Join(t.TempDir(), "solo_secuencial.png")
	opts := DefaultOptions()
	opts.Title = ""
	if err := Save(out, dataset(nil, map[int]float64{1: 10}), opts); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 1500 {
		t.Fatalf("expected 2 panels (1500px), got %dpx", cfg.Width)
	}
}

func TestSave_PropagatesIOErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "dir", "out.png")
	err := Save(out, dataset(map[int]float64{1: 1}, nil), DefaultOptions())
	if err == nil {
		t.Fatalf("expected error writing into a missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestPositionPoints_UsesSequentialPositionNotRunID(t *testing.T) {
	ds := dataset(map[int]float64{5: 10, 9: 20}, map[int]float64{2: 30})

	got := positionPoints(ds)
	want := []plotter.XYs{
		{{X: 1, Y: 10}, {X: 2, Y: 20}}, // especulativo
		{{X: 1, Y: 30}},                // secuencial
	}
	if len(got) != len(want) {
		t.Fatalf("got %d series, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("series %d: got %v want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("series %d point %d: got %v want %v", i, j, got[i][j], want[i][j])
			}
		}
	}

	means := averageValues(ds)
	if len(means) != 2 || means[0] != 15 || means[1] != 30 {
		t.Fatalf("averages should be [especulativo=15 secuencial=30], got %v", means)
	}

	plots, err := Panels(ds)
	if err != nil {
		t.Fatalf("Panels: %v", err)
	}
	if evo := plots[1]; evo.X.Min != 0.5 || evo.X.Max != 2.5 {
		t.Fatalf("per-run x axis [%v, %v] should span positions 1..2", evo.X.Min, evo.X.Max)
	}
	if avg := plots[0]; avg.Y.Max < 30 {
		t.Fatalf("averages y axis max %v below the tallest bar", avg.Y.Max)
	}
}

type failingClose struct {
	io.WriteCloser
}

func (f failingClose) Close() error {
	f.WriteCloser.Close()
	return errors.New("disk full")
}

func TestSave_RemovesFileWhenCloseFails(t *testing.T) {
	old := createFile
	defer func() { createFile = old }()
	createFile = func(path string) (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return failingClose{f}, nil
	}

	out := filepath.Join(t.TempDir(), "out.png")
	err := Save(out, dataset(map[int]float64{1: 1}, nil), DefaultOptions())
	if err == nil {
		t.Fatalf("expected close error to be returned")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("partial image should be removed, stat err = %v", statErr)
	}
}
