// metrics/types.go
// Package: metrics
package metrics

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Strategy identifies one of the two execution strategies being compared.
type Strategy int

const (
	Speculative Strategy = iota
	Sequential
)

// strategyNames holds the canonical CSV label of each strategy.
var strategyNames = map[Strategy]string{
	Speculative: "especulativo",
	Sequential:  "secuencial",
}

// String returns the canonical lowercase label, e.g. "especulativo".
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "desconocido"
}

// Label returns the display name with its first letter capitalized.
func (s Strategy) Label() string {
	return cases.Title(language.Spanish).String(s.String())
}

// ParseStrategy maps a raw mode column to a Strategy. Surrounding whitespace
// and case are ignored; anything else is rejected.
func ParseStrategy(raw string) (Strategy, bool) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	for s, name := range strategyNames {
		if mode == name {
			return s, true
		}
	}
	return 0, false
}

// Series is the per-run data of one strategy. Runs is strictly ascending and
// Values[i] belongs to Runs[i].
type Series struct {
	Strategy Strategy  `json:"strategy"`
	Runs     []int     `json:"runs"`
	Values   []float64 `json:"values_ms"`
}

// Len reports the number of runs in the series.
func (s Series) Len() int { return len(s.Runs) }

// Dataset maps each strategy that had at least one valid row to its Series.
type Dataset map[Strategy]Series

// Empty reports whether no strategy produced any data.
func (d Dataset) Empty() bool { return len(d) == 0 }

// Strategies returns the strategies present, sorted alphabetically by name.
func (d Dataset) Strategies() []Strategy {
	out := make([]Strategy, 0, len(d))
	for s := range d {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Values returns the ordered durations for s, or nil if s is absent.
func (d Dataset) Values(s Strategy) []float64 { return d[s].Values }

// Runs returns the ordered run identifiers for s, or nil if s is absent.
func (d Dataset) Runs(s Strategy) []int { return d[s].Runs }

// SpeedupPoint is the sequential/speculative ratio for one matched run.
// Value is NaN when the speculative duration was zero.
type SpeedupPoint struct {
	Run   int     `json:"run"`
	Value float64 `json:"speedup"`
}

// Summary aggregates one strategy's durations for reporting.
type Summary struct {
	Strategy Strategy `json:"strategy"`
	Runs     int      `json:"runs"`

	// Mean +/- population std of total duration
	MeanMillis float64 `json:"mean_ms"`
	StdMillis  float64 `json:"std_ms"`

	P50Millis float64 `json:"p50_ms"`
	P95Millis float64 `json:"p95_ms"`
	MinMillis float64 `json:"min_ms"`
	MaxMillis float64 `json:"max_ms"`
}

// Report is the top-level summary artifact printed after loading.
type Report struct {
	Summaries []Summary `json:"summaries"`

	// MatchedRuns counts run identifiers present for both strategies.
	MatchedRuns int `json:"matched_runs"`

	// OverallSpeedup is mean(sequential)/mean(speculative). HasSpeedup is
	// false when either strategy is missing.
	OverallSpeedup float64 `json:"overall_speedup"`
	HasSpeedup     bool    `json:"has_speedup"`
}
