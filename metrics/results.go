// metrics/results.go
// Package: metrics
package metrics

// Summarize builds per-strategy summaries (alphabetical order) plus the
// overall speedup the benchmark producer reports in its summary row.
func Summarize(ds Dataset) Report {
	rep := Report{}
	for _, s := range ds.Strategies() {
		rep.Summaries = append(rep.Summaries, summarizeSeries(ds[s]))
	}

	rep.MatchedRuns = len(Speedups(ds))

	spec, okSpec := ds[Speculative]
	seq, okSeq := ds[Sequential]
	if okSpec && okSeq {
		rep.HasSpeedup = true
		rep.OverallSpeedup = ratio(Mean(seq.Values), Mean(spec.Values))
	}
	return rep
}
