// metrics/stats.go
// Package: metrics
package metrics

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of values, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// durationQuantile returns the q-quantile (0..1) of a strategy's run
// durations. Ranks are interpolated linearly, so p50 of an even-sized series
// is the midpoint of the two middle runs. values is left untouched.
func durationQuantile(values []float64, q float64) float64 {
	n := len(values)
	switch {
	case n == 0:
		return 0
	case n == 1:
		return values[0]
	}
	sorted := slices.Sorted(slices.Values(values))
	q = math.Max(0, math.Min(1, q))

	rank := q * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	w := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*w
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// Speedups pairs the sequential and speculative durations of every run
// identifier present in both series and returns sequential/speculative,
// ascending by run. A zero speculative duration yields NaN for that run.
// The result is nil when either strategy is absent.
func Speedups(ds Dataset) []SpeedupPoint {
	spec, okSpec := ds[Speculative]
	seq, okSeq := ds[Sequential]
	if !okSpec || !okSeq {
		return nil
	}

	specByRun := make(map[int]float64, spec.Len())
	for i, run := range spec.Runs {
		specByRun[run] = spec.Values[i]
	}

	var out []SpeedupPoint
	for i, run := range seq.Runs {
		specValue, ok := specByRun[run]
		if !ok {
			continue
		}
		out = append(out, SpeedupPoint{Run: run, Value: ratio(seq.Values[i], specValue)})
	}
	return out
}

func ratio(sequential, speculative float64) float64 {
	if speculative == 0 {
		return math.NaN()
	}
	return sequential / speculative
}

// summarizeSeries builds the descriptive stats for one strategy.
func summarizeSeries(s Series) Summary {
	sum := Summary{Strategy: s.Strategy, Runs: s.Len()}
	if s.Len() == 0 {
		return sum
	}
	sum.MeanMillis, sum.StdMillis = meanStd(s.Values)
	sum.P50Millis = durationQuantile(s.Values, 0.50)
	sum.P95Millis = durationQuantile(s.Values, 0.95)
	sum.MinMillis = floats.Min(s.Values)
	sum.MaxMillis = floats.Max(s.Values)
	return sum
}
