// metrics/loader.go
// Package: metrics
package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Column names written by the benchmark producer.
const (
	ColumnMode     = "mode"
	ColumnRun      = "run"
	ColumnDuration = "total_duration_ms"
)

// ErrNoData is returned by callers when a file yields no usable rows.
var ErrNoData = errors.New("no valid data rows found in CSV")

// Load opens path and reads it with Read.
func Load(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open metrics file: %w", err)
	}
	defer file.Close()

	ds, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a header-driven CSV stream into a Dataset. Rows with an
// unrecognized mode, a bad run id or a bad duration are skipped. For a repeated
// (strategy, run) pair only the first value is kept. Durations spelled as
// NaN or Inf are treated as unparsable, since they cannot be charted. An
// input without any valid row returns an empty Dataset and a nil error.
func Read(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse header: %w", err)
	}
	columns := indexHeader(header)

	perStrategy := map[Strategy]map[int]float64{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse row: %w", err)
		}

		strategy, run, value, ok := parseRecord(record, columns)
		if !ok {
			continue
		}
		runs, exists := perStrategy[strategy]
		if !exists {
			runs = map[int]float64{}
			perStrategy[strategy] = runs
		}
		if _, seen := runs[run]; seen {
			continue
		}
		runs[run] = value
	}

	return buildDataset(perStrategy), nil
}

// indexHeader maps trimmed column names to their position. The first
// occurrence of a duplicated name wins.
func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

// field returns the trimmed value of a named column, or "" when the column is
// missing from the header or the row is short.
func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRecord(record []string, columns map[string]int) (Strategy, int, float64, bool) {
	strategy, ok := ParseStrategy(field(record, columns, ColumnMode))
	if !ok {
		return 0, 0, 0, false
	}

	runStr := field(record, columns, ColumnRun)
	if runStr == "" {
		return 0, 0, 0, false
	}
	run, err := strconv.Atoi(runStr)
	if err != nil {
		return 0, 0, 0, false
	}

	valueStr := field(record, columns, ColumnDuration)
	if valueStr == "" {
		return 0, 0, 0, false
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, 0, 0, false
	}
	return strategy, run, value, true
}

func buildDataset(perStrategy map[Strategy]map[int]float64) Dataset {
	ds := make(Dataset, len(perStrategy))
	for strategy, runs := range perStrategy {
		ids := make([]int, 0, len(runs))
		for id := range runs {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		values := make([]float64, len(ids))
		for i, id := range ids {
			values[i] = runs[id]
		}
		ds[strategy] = Series{Strategy: strategy, Runs: ids, Values: values}
	}
	return ds
}
